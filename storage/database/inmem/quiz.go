package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/ajira/core/quiz"
)

type quizRepository struct {
	db *quizTable
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) quiz.Repository {
	return &quizRepository{db: db.quiz}
}

func (repo *quizRepository) CreateQuiz(qz quiz.Quiz) (quiz.Quiz, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	qz.ID = uuid.New().String()
	repo.db.quizzes[qz.ID] = &qz
	return qz, nil
}

func (repo *quizRepository) QueryQuizzes(filter quiz.QueryFilter) ([]quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]quiz.Quiz, 0, len(repo.db.quizzes))
	for _, qz := range repo.db.quizzes {
		if filter.Topic != "" && qz.Topic != filter.Topic {
			continue
		}
		if filter.Difficulty != "" && qz.Difficulty != filter.Difficulty {
			continue
		}
		matched = append(matched, *qz)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

func (repo *quizRepository) GetQuizByID(id string) (quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if qz, ok := repo.db.quizzes[id]; ok {
		return *qz, nil
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) CreateAttempt(att quiz.Attempt) (quiz.Attempt, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	att.ID = uuid.New().String()
	repo.db.attempts[att.ID] = &att
	return att, nil
}

func (repo *quizRepository) QueryAttemptsByUser(userID string) ([]quiz.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]quiz.Attempt, 0)
	for _, att := range repo.db.attempts {
		if att.UserID == userID {
			matched = append(matched, *att)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}
