package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ajira/core/interview"
)

const (
	interviewCols  = `id, student_id, student_name, mentor_id, mentor_name, scheduled_time, topic, difficulty, status, score, feedback, created_at, updated_at`
	connectionCols = `id, student_id, student_name, mentor_id, mentor_name, status, message, created_at, responded_at`
)

type interviewRow struct {
	ID            string       `db:"id"`
	StudentID     string       `db:"student_id"`
	StudentName   string       `db:"student_name"`
	MentorID      string       `db:"mentor_id"`
	MentorName    string       `db:"mentor_name"`
	ScheduledTime time.Time    `db:"scheduled_time"`
	Topic         string       `db:"topic"`
	Difficulty    string       `db:"difficulty"`
	Status        string       `db:"status"`
	Score         null.Float64 `db:"score"`
	Feedback      string       `db:"feedback"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

func (row interviewRow) toInterview() interview.Interview {
	return interview.Interview{
		ID:            row.ID,
		StudentID:     row.StudentID,
		StudentName:   row.StudentName,
		MentorID:      row.MentorID,
		MentorName:    row.MentorName,
		ScheduledTime: row.ScheduledTime,
		Topic:         row.Topic,
		Difficulty:    row.Difficulty,
		Status:        row.Status,
		Score:         row.Score.Ptr(),
		Feedback:      row.Feedback,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func newInterviewRow(iv interview.Interview) interviewRow {
	return interviewRow{
		ID:            iv.ID,
		StudentID:     iv.StudentID,
		StudentName:   iv.StudentName,
		MentorID:      iv.MentorID,
		MentorName:    iv.MentorName,
		ScheduledTime: iv.ScheduledTime.UTC(),
		Topic:         iv.Topic,
		Difficulty:    iv.Difficulty,
		Status:        iv.Status,
		Score:         null.Float64FromPtr(iv.Score),
		Feedback:      iv.Feedback,
		CreatedAt:     iv.CreatedAt.UTC(),
		UpdatedAt:     iv.UpdatedAt.UTC(),
	}
}

type connectionRow struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	StudentName string    `db:"student_name"`
	MentorID    string    `db:"mentor_id"`
	MentorName  string    `db:"mentor_name"`
	Status      string    `db:"status"`
	Message     string    `db:"message"`
	CreatedAt   time.Time `db:"created_at"`
	RespondedAt null.Time `db:"responded_at"`
}

func (row connectionRow) toConnection() interview.Connection {
	return interview.Connection{
		ID:          row.ID,
		StudentID:   row.StudentID,
		StudentName: row.StudentName,
		MentorID:    row.MentorID,
		MentorName:  row.MentorName,
		Status:      row.Status,
		Message:     row.Message,
		CreatedAt:   row.CreatedAt,
		RespondedAt: row.RespondedAt.Time,
	}
}

func newConnectionRow(conn interview.Connection) connectionRow {
	return connectionRow{
		ID:          conn.ID,
		StudentID:   conn.StudentID,
		StudentName: conn.StudentName,
		MentorID:    conn.MentorID,
		MentorName:  conn.MentorName,
		Status:      conn.Status,
		Message:     conn.Message,
		CreatedAt:   conn.CreatedAt.UTC(),
		RespondedAt: null.NewTime(conn.RespondedAt.UTC(), !conn.RespondedAt.IsZero()),
	}
}

type interviewRepository struct {
	db *sqlx.DB
}

var _ interview.Repository = (*interviewRepository)(nil) // interface compliance check

func NewInterviewRepository(db *sqlx.DB) interview.Repository {
	return &interviewRepository{db: db}
}

func (repo *interviewRepository) toInterviews(rows []interviewRow) []interview.Interview {
	ivs := make([]interview.Interview, 0, len(rows))
	for _, row := range rows {
		ivs = append(ivs, row.toInterview())
	}
	return ivs
}

func (repo *interviewRepository) CreateInterview(iv interview.Interview) (interview.Interview, error) {
	iv.ID = uuid.New().String()
	row := newInterviewRow(iv)
	_, err := repo.db.NamedExec(`
		INSERT INTO interview (`+interviewCols+`)
		VALUES (:id, :student_id, :student_name, :mentor_id, :mentor_name, :scheduled_time, :topic, :difficulty, :status, :score, :feedback, :created_at, :updated_at)`,
		row)
	if err != nil {
		return interview.Interview{}, errors.Wrap(err, "inserting interview")
	}
	return iv, nil
}

func (repo *interviewRepository) GetInterviewByID(id string) (interview.Interview, error) {
	if _, err := uuid.Parse(id); err != nil {
		return interview.Interview{}, interview.ErrNotFound
	}
	var row interviewRow
	if err := repo.db.Get(&row, `SELECT `+interviewCols+` FROM interview WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return interview.Interview{}, interview.ErrNotFound
		}
		return interview.Interview{}, errors.Wrap(err, "finding interview by ID")
	}
	return row.toInterview(), nil
}

func (repo *interviewRepository) queryInterviews(col, id string, filter interview.QueryFilter) ([]interview.Interview, error) {
	query := `SELECT ` + interviewCols + ` FROM interview WHERE ` + col + ` = $1`
	args := []interface{}{id}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $2`
	}
	query += ` ORDER BY scheduled_time DESC`

	var rows []interviewRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying interviews")
	}
	return repo.toInterviews(rows), nil
}

func (repo *interviewRepository) QueryInterviewsByStudent(studentID string, filter interview.QueryFilter) ([]interview.Interview, error) {
	return repo.queryInterviews("student_id", studentID, filter)
}

func (repo *interviewRepository) QueryInterviewsByMentor(mentorID string, filter interview.QueryFilter) ([]interview.Interview, error) {
	return repo.queryInterviews("mentor_id", mentorID, filter)
}

func (repo *interviewRepository) UpdateInterview(iv interview.Interview) (interview.Interview, error) {
	row := newInterviewRow(iv)
	res, err := repo.db.NamedExec(`
		UPDATE interview
		SET scheduled_time = :scheduled_time, topic = :topic, difficulty = :difficulty,
			status = :status, score = :score, feedback = :feedback, updated_at = :updated_at
		WHERE id = :id`,
		row)
	if err != nil {
		return interview.Interview{}, errors.Wrap(err, "updating interview")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return interview.Interview{}, interview.ErrNotFound
	}
	return iv, nil
}

func (repo *interviewRepository) CreateConnection(conn interview.Connection) (interview.Connection, error) {
	conn.ID = uuid.New().String()
	row := newConnectionRow(conn)
	_, err := repo.db.NamedExec(`
		INSERT INTO mentor_connection (`+connectionCols+`)
		VALUES (:id, :student_id, :student_name, :mentor_id, :mentor_name, :status, :message, :created_at, :responded_at)`,
		row)
	if err != nil {
		return interview.Connection{}, errors.Wrap(err, "inserting mentor connection")
	}
	return conn, nil
}

func (repo *interviewRepository) GetConnectionByID(id string) (interview.Connection, error) {
	if _, err := uuid.Parse(id); err != nil {
		return interview.Connection{}, interview.ErrConnectionNotFound
	}
	var row connectionRow
	if err := repo.db.Get(&row, `SELECT `+connectionCols+` FROM mentor_connection WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return interview.Connection{}, interview.ErrConnectionNotFound
		}
		return interview.Connection{}, errors.Wrap(err, "finding mentor connection by ID")
	}
	return row.toConnection(), nil
}

func (repo *interviewRepository) GetConnectionByPair(studentID, mentorID string) (interview.Connection, error) {
	var row connectionRow
	err := repo.db.Get(&row, `SELECT `+connectionCols+` FROM mentor_connection WHERE student_id = $1 AND mentor_id = $2`, studentID, mentorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return interview.Connection{}, interview.ErrConnectionNotFound
		}
		return interview.Connection{}, errors.Wrap(err, "finding mentor connection by pair")
	}
	return row.toConnection(), nil
}

func (repo *interviewRepository) QueryConnectionsByMentor(mentorID string) ([]interview.Connection, error) {
	var rows []connectionRow
	err := repo.db.Select(&rows, `SELECT `+connectionCols+` FROM mentor_connection WHERE mentor_id = $1 ORDER BY created_at DESC`, mentorID)
	if err != nil {
		return nil, errors.Wrap(err, "querying mentor connections")
	}
	conns := make([]interview.Connection, 0, len(rows))
	for _, row := range rows {
		conns = append(conns, row.toConnection())
	}
	return conns, nil
}

func (repo *interviewRepository) QueryConnectionsByStudent(studentID string) ([]interview.Connection, error) {
	var rows []connectionRow
	err := repo.db.Select(&rows, `SELECT `+connectionCols+` FROM mentor_connection WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying student connections")
	}
	conns := make([]interview.Connection, 0, len(rows))
	for _, row := range rows {
		conns = append(conns, row.toConnection())
	}
	return conns, nil
}

func (repo *interviewRepository) UpdateConnection(conn interview.Connection) (interview.Connection, error) {
	row := newConnectionRow(conn)
	res, err := repo.db.NamedExec(`
		UPDATE mentor_connection
		SET status = :status, message = :message, responded_at = :responded_at
		WHERE id = :id`,
		row)
	if err != nil {
		return interview.Connection{}, errors.Wrap(err, "updating mentor connection")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return interview.Connection{}, interview.ErrConnectionNotFound
	}
	return conn, nil
}
