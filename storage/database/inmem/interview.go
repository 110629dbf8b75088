package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/ajira/core/interview"
)

type interviewRepository struct {
	db *interviewTable
}

var _ interview.Repository = (*interviewRepository)(nil) // interface compliance check

func NewInterviewRepository(db *DB) interview.Repository {
	return &interviewRepository{db: db.interview}
}

func (repo *interviewRepository) CreateInterview(iv interview.Interview) (interview.Interview, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	iv.ID = uuid.New().String()
	repo.db.interviews[iv.ID] = &iv
	return iv, nil
}

func (repo *interviewRepository) GetInterviewByID(id string) (interview.Interview, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if iv, ok := repo.db.interviews[id]; ok {
		return *iv, nil
	}
	return interview.Interview{}, interview.ErrNotFound
}

func (repo *interviewRepository) queryInterviews(match func(interview.Interview) bool) []interview.Interview {
	matched := make([]interview.Interview, 0)
	for _, iv := range repo.db.interviews {
		if match(*iv) {
			matched = append(matched, *iv)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ScheduledTime.After(matched[j].ScheduledTime) })
	return matched
}

func (repo *interviewRepository) QueryInterviewsByStudent(studentID string, filter interview.QueryFilter) ([]interview.Interview, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.queryInterviews(func(iv interview.Interview) bool {
		return iv.StudentID == studentID && (filter.Status == "" || iv.Status == filter.Status)
	}), nil
}

func (repo *interviewRepository) QueryInterviewsByMentor(mentorID string, filter interview.QueryFilter) ([]interview.Interview, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.queryInterviews(func(iv interview.Interview) bool {
		return iv.MentorID == mentorID && (filter.Status == "" || iv.Status == filter.Status)
	}), nil
}

func (repo *interviewRepository) UpdateInterview(iv interview.Interview) (interview.Interview, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.interviews[iv.ID]; !ok {
		return interview.Interview{}, interview.ErrNotFound
	}
	repo.db.interviews[iv.ID] = &iv
	return iv, nil
}

func (repo *interviewRepository) CreateConnection(conn interview.Connection) (interview.Connection, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	conn.ID = uuid.New().String()
	repo.db.connections[conn.ID] = &conn
	return conn, nil
}

func (repo *interviewRepository) GetConnectionByID(id string) (interview.Connection, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if conn, ok := repo.db.connections[id]; ok {
		return *conn, nil
	}
	return interview.Connection{}, interview.ErrConnectionNotFound
}

func (repo *interviewRepository) GetConnectionByPair(studentID, mentorID string) (interview.Connection, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, conn := range repo.db.connections {
		if conn.StudentID == studentID && conn.MentorID == mentorID {
			return *conn, nil
		}
	}
	return interview.Connection{}, interview.ErrConnectionNotFound
}

func (repo *interviewRepository) QueryConnectionsByMentor(mentorID string) ([]interview.Connection, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]interview.Connection, 0)
	for _, conn := range repo.db.connections {
		if conn.MentorID == mentorID {
			matched = append(matched, *conn)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

func (repo *interviewRepository) QueryConnectionsByStudent(studentID string) ([]interview.Connection, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]interview.Connection, 0)
	for _, conn := range repo.db.connections {
		if conn.StudentID == studentID {
			matched = append(matched, *conn)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

func (repo *interviewRepository) UpdateConnection(conn interview.Connection) (interview.Connection, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.connections[conn.ID]; !ok {
		return interview.Connection{}, interview.ErrConnectionNotFound
	}
	repo.db.connections[conn.ID] = &conn
	return conn, nil
}
