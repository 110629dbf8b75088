package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ajira/core/quiz"
)

const (
	quizCols    = `id, title, topic, difficulty, questions, points, time_limit, created_at`
	attemptCols = `id, user_id, quiz_id, answers, time_taken, tab_switches, correct_answers, total_questions, score_percentage, final_score, points_earned, badges_earned, next_difficulty, created_at`
)

// questionJSON keeps the answer key; quiz.Question never serializes it.
type questionJSON struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

type quizRow struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	Topic      string    `db:"topic"`
	Difficulty string    `db:"difficulty"`
	Questions  []byte    `db:"questions"`
	Points     int       `db:"points"`
	TimeLimit  int       `db:"time_limit"`
	CreatedAt  time.Time `db:"created_at"`
}

func (row quizRow) toQuiz() (quiz.Quiz, error) {
	var qs []questionJSON
	if err := json.Unmarshal(row.Questions, &qs); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "decoding quiz questions")
	}
	questions := make([]quiz.Question, 0, len(qs))
	for _, q := range qs {
		questions = append(questions, quiz.Question{Text: q.Text, Options: q.Options, Answer: q.Answer})
	}
	return quiz.Quiz{
		ID:         row.ID,
		Title:      row.Title,
		Topic:      row.Topic,
		Difficulty: row.Difficulty,
		Questions:  questions,
		Points:     row.Points,
		TimeLimit:  row.TimeLimit,
		CreatedAt:  row.CreatedAt,
	}, nil
}

func newQuizRow(qz quiz.Quiz) (quizRow, error) {
	qs := make([]questionJSON, 0, len(qz.Questions))
	for _, q := range qz.Questions {
		qs = append(qs, questionJSON{Text: q.Text, Options: q.Options, Answer: q.Answer})
	}
	raw, err := json.Marshal(qs)
	if err != nil {
		return quizRow{}, errors.Wrap(err, "encoding quiz questions")
	}
	return quizRow{
		ID:         qz.ID,
		Title:      qz.Title,
		Topic:      qz.Topic,
		Difficulty: qz.Difficulty,
		Questions:  raw,
		Points:     qz.Points,
		TimeLimit:  qz.TimeLimit,
		CreatedAt:  qz.CreatedAt.UTC(),
	}, nil
}

type attemptRow struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	QuizID          string    `db:"quiz_id"`
	Answers         []byte    `db:"answers"`
	TimeTaken       int       `db:"time_taken"`
	TabSwitches     int       `db:"tab_switches"`
	CorrectAnswers  int       `db:"correct_answers"`
	TotalQuestions  int       `db:"total_questions"`
	ScorePercentage float64   `db:"score_percentage"`
	FinalScore      float64   `db:"final_score"`
	PointsEarned    int       `db:"points_earned"`
	BadgesEarned    string    `db:"badges_earned"`
	NextDifficulty  string    `db:"next_difficulty"`
	CreatedAt       time.Time `db:"created_at"`
}

func (row attemptRow) toAttempt() (quiz.Attempt, error) {
	var answers []int
	if err := json.Unmarshal(row.Answers, &answers); err != nil {
		return quiz.Attempt{}, errors.Wrap(err, "decoding attempt answers")
	}
	return quiz.Attempt{
		ID:              row.ID,
		UserID:          row.UserID,
		QuizID:          row.QuizID,
		Answers:         answers,
		TimeTaken:       row.TimeTaken,
		TabSwitches:     row.TabSwitches,
		CorrectAnswers:  row.CorrectAnswers,
		TotalQuestions:  row.TotalQuestions,
		ScorePercentage: row.ScorePercentage,
		FinalScore:      row.FinalScore,
		PointsEarned:    row.PointsEarned,
		BadgesEarned:    splitList(row.BadgesEarned),
		NextDifficulty:  row.NextDifficulty,
		CreatedAt:       row.CreatedAt,
	}, nil
}

func newAttemptRow(att quiz.Attempt) (attemptRow, error) {
	raw, err := json.Marshal(att.Answers)
	if err != nil {
		return attemptRow{}, errors.Wrap(err, "encoding attempt answers")
	}
	return attemptRow{
		ID:              att.ID,
		UserID:          att.UserID,
		QuizID:          att.QuizID,
		Answers:         raw,
		TimeTaken:       att.TimeTaken,
		TabSwitches:     att.TabSwitches,
		CorrectAnswers:  att.CorrectAnswers,
		TotalQuestions:  att.TotalQuestions,
		ScorePercentage: att.ScorePercentage,
		FinalScore:      att.FinalScore,
		PointsEarned:    att.PointsEarned,
		BadgesEarned:    joinList(att.BadgesEarned),
		NextDifficulty:  att.NextDifficulty,
		CreatedAt:       att.CreatedAt.UTC(),
	}, nil
}

type quizRepository struct {
	db *sqlx.DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *sqlx.DB) quiz.Repository {
	return &quizRepository{db: db}
}

func (repo *quizRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return quiz.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *quizRepository) CreateQuiz(qz quiz.Quiz) (quiz.Quiz, error) {
	qz.ID = uuid.New().String()
	row, err := newQuizRow(qz)
	if err != nil {
		return quiz.Quiz{}, err
	}
	_, err = repo.db.NamedExec(`
		INSERT INTO quiz (`+quizCols+`)
		VALUES (:id, :title, :topic, :difficulty, :questions, :points, :time_limit, :created_at)`,
		row)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return qz, nil
}

func (repo *quizRepository) QueryQuizzes(filter quiz.QueryFilter) ([]quiz.Quiz, error) {
	query := `SELECT ` + quizCols + ` FROM quiz`
	var where []string
	var args []interface{}

	if filter.Topic != "" {
		args = append(args, filter.Topic)
		where = append(where, fmt.Sprintf("topic = $%d", len(args)))
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		where = append(where, fmt.Sprintf("difficulty = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + joinWhere(where)
	}
	query += " ORDER BY created_at DESC"

	var rows []quizRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying quizzes")
	}

	quizzes := make([]quiz.Quiz, 0, len(rows))
	for _, row := range rows {
		qz, err := row.toQuiz()
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, qz)
	}
	return quizzes, nil
}

func (repo *quizRepository) GetQuizByID(id string) (quiz.Quiz, error) {
	if _, err := uuid.Parse(id); err != nil {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	var row quizRow
	if err := repo.db.Get(&row, `SELECT `+quizCols+` FROM quiz WHERE id = $1`, id); err != nil {
		return quiz.Quiz{}, repo.trapNoRowsErr(err, "finding quiz by ID")
	}
	return row.toQuiz()
}

func (repo *quizRepository) CreateAttempt(att quiz.Attempt) (quiz.Attempt, error) {
	att.ID = uuid.New().String()
	row, err := newAttemptRow(att)
	if err != nil {
		return quiz.Attempt{}, err
	}
	_, err = repo.db.NamedExec(`
		INSERT INTO quiz_attempt (`+attemptCols+`)
		VALUES (:id, :user_id, :quiz_id, :answers, :time_taken, :tab_switches, :correct_answers, :total_questions, :score_percentage, :final_score, :points_earned, :badges_earned, :next_difficulty, :created_at)`,
		row)
	if err != nil {
		return quiz.Attempt{}, errors.Wrap(err, "inserting quiz attempt")
	}
	return att, nil
}

func (repo *quizRepository) QueryAttemptsByUser(userID string) ([]quiz.Attempt, error) {
	var rows []attemptRow
	err := repo.db.Select(&rows, `SELECT `+attemptCols+` FROM quiz_attempt WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying quiz attempts")
	}

	attempts := make([]quiz.Attempt, 0, len(rows))
	for _, row := range rows {
		att, err := row.toAttempt()
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, att)
	}
	return attempts, nil
}
