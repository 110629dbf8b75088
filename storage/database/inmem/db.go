// Package inmemdb provides in-memory repository implementations used in
// tests and local development.
package inmemdb

import (
	"sync"

	"github.com/trezcool/ajira/core/community"
	"github.com/trezcool/ajira/core/interview"
	"github.com/trezcool/ajira/core/learning"
	"github.com/trezcool/ajira/core/quiz"
	"github.com/trezcool/ajira/core/user"
)

type DB struct {
	user      *userTable
	quiz      *quizTable
	learning  *learningTable
	community *communityTable
	interview *interviewTable
}

func NewDB() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
		quiz: &quizTable{
			quizzes:  make(map[string]*quiz.Quiz),
			attempts: make(map[string]*quiz.Attempt),
		},
		learning: &learningTable{
			contents:  make(map[string]*learning.Content),
			resources: make(map[string]*learning.Resource),
			progress:  make(map[string]*learning.Progress),
			roadmaps:  make(map[string]*learning.Roadmap),
		},
		community: &communityTable{table: make(map[string]*community.Community)},
		interview: &interviewTable{
			interviews:  make(map[string]*interview.Interview),
			connections: make(map[string]*interview.Connection),
		},
	}
}

// Reset empties all tables; for tests.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.quiz.Lock()
	db.quiz.quizzes = make(map[string]*quiz.Quiz)
	db.quiz.attempts = make(map[string]*quiz.Attempt)
	db.quiz.Unlock()

	db.learning.Lock()
	db.learning.contents = make(map[string]*learning.Content)
	db.learning.resources = make(map[string]*learning.Resource)
	db.learning.progress = make(map[string]*learning.Progress)
	db.learning.roadmaps = make(map[string]*learning.Roadmap)
	db.learning.Unlock()

	db.community.Lock()
	db.community.table = make(map[string]*community.Community)
	db.community.Unlock()

	db.interview.Lock()
	db.interview.interviews = make(map[string]*interview.Interview)
	db.interview.connections = make(map[string]*interview.Connection)
	db.interview.Unlock()
}

type userTable struct {
	sync.RWMutex
	table map[string]*user.User
}

type quizTable struct {
	sync.RWMutex
	quizzes  map[string]*quiz.Quiz
	attempts map[string]*quiz.Attempt
}

type learningTable struct {
	sync.RWMutex
	contents  map[string]*learning.Content
	resources map[string]*learning.Resource
	progress  map[string]*learning.Progress
	roadmaps  map[string]*learning.Roadmap
}

type communityTable struct {
	sync.RWMutex
	table map[string]*community.Community
}

type interviewTable struct {
	sync.RWMutex
	interviews  map[string]*interview.Interview
	connections map[string]*interview.Connection
}
