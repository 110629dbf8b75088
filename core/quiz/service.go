package quiz

import (
	"errors"
	"math"
	"time"

	"github.com/trezcool/ajira/core"
	"github.com/trezcool/ajira/core/user"
)

const (
	promoteScore = 80.0
	demoteScore  = 50.0

	tabSwitchPenalty = 5.0 // percentage points off the final score, each

	quizMasterAttempts = 5
)

var (
	// errors
	ErrNotFound = errors.New("quiz not found")

	errAnswerCountMismatch = errors.New("number of answers does not match number of questions")
)

type (
	Repository interface {
		CreateQuiz(qz Quiz) (Quiz, error)
		QueryQuizzes(filter QueryFilter) ([]Quiz, error)
		GetQuizByID(id string) (Quiz, error)
		CreateAttempt(att Attempt) (Attempt, error)
		// QueryAttemptsByUser returns attempts newest first.
		QueryAttemptsByUser(userID string) ([]Attempt, error)
	}

	Service interface {
		Create(nq NewQuiz) (Quiz, error)
		Query(filter QueryFilter) ([]Quiz, error)
		GetByID(id string) (Quiz, error)
		// Attempt grades a submission, records it and awards points and badges
		// to the student. The returned User carries the updated points/badges.
		Attempt(usr user.User, quizID string, sub Submission) (Attempt, user.User, error)
		AttemptsByUser(userID string) ([]Attempt, error)
	}

	service struct {
		repo   Repository
		usrSvc user.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service) Service {
	return &service{
		repo:   repo,
		usrSvc: usrSvc,
	}
}

func (svc *service) Create(nq NewQuiz) (Quiz, error) {
	questions := make([]Question, len(nq.Questions))
	for i, q := range nq.Questions {
		questions[i] = Question{Text: q.Text, Options: q.Options, Answer: q.Answer}
	}
	qz := Quiz{
		Title:      nq.Title,
		Topic:      nq.Topic,
		Difficulty: nq.Difficulty,
		Questions:  questions,
		Points:     nq.Points,
		TimeLimit:  nq.TimeLimit,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateQuiz(qz)
}

func (svc *service) Query(filter QueryFilter) ([]Quiz, error) {
	return svc.repo.QueryQuizzes(filter)
}

func (svc *service) GetByID(id string) (Quiz, error) {
	return svc.repo.GetQuizByID(id)
}

func (svc *service) Attempt(usr user.User, quizID string, sub Submission) (Attempt, user.User, error) {
	qz, err := svc.repo.GetQuizByID(quizID)
	if err != nil {
		return Attempt{}, usr, err
	}
	if len(sub.Answers) != len(qz.Questions) {
		return Attempt{}, usr, core.NewValidationError(
			errAnswerCountMismatch,
			core.FieldError{Field: "answers", Error: errAnswerCountMismatch.Error()},
		)
	}

	var correct int
	for i, q := range qz.Questions {
		if sub.Answers[i] == q.Answer {
			correct++
		}
	}

	total := len(qz.Questions)
	scorePct := 100 * float64(correct) / float64(total)
	finalScore := math.Max(0, scorePct-tabSwitchPenalty*float64(sub.TabSwitches))
	pointsEarned := int(math.Round(float64(qz.Points) * finalScore / 100))

	prev, err := svc.repo.QueryAttemptsByUser(usr.ID)
	if err != nil {
		return Attempt{}, usr, err
	}
	badges := earnedBadges(usr, prev, finalScore)

	att := Attempt{
		UserID:          usr.ID,
		QuizID:          qz.ID,
		Answers:         sub.Answers,
		TimeTaken:       sub.TimeTaken,
		TabSwitches:     sub.TabSwitches,
		CorrectAnswers:  correct,
		TotalQuestions:  total,
		ScorePercentage: scorePct,
		FinalScore:      finalScore,
		PointsEarned:    pointsEarned,
		BadgesEarned:    badges,
		NextDifficulty:  NextDifficulty(qz.Difficulty, finalScore),
		CreatedAt:       time.Now().UTC(),
	}
	att, err = svc.repo.CreateAttempt(att)
	if err != nil {
		return Attempt{}, usr, err
	}

	usr, err = svc.usrSvc.AwardBadges(usr, pointsEarned, badges...)
	if err != nil {
		return Attempt{}, usr, err
	}
	return att, usr, nil
}

func (svc *service) AttemptsByUser(userID string) ([]Attempt, error) {
	return svc.repo.QueryAttemptsByUser(userID)
}

// earnedBadges computes badges unlocked by this attempt. prev excludes the
// attempt being graded.
func earnedBadges(usr user.User, prev []Attempt, finalScore float64) []string {
	var badges []string
	if finalScore == 100 && !usr.HasBadge(user.BadgePerfectScore) {
		badges = append(badges, user.BadgePerfectScore)
	}
	if len(prev) == 0 && finalScore >= promoteScore && !usr.HasBadge(user.BadgeRisingStar) {
		badges = append(badges, user.BadgeRisingStar)
	}
	if len(prev)+1 >= quizMasterAttempts && !usr.HasBadge(user.BadgeQuizMaster) {
		badges = append(badges, user.BadgeQuizMaster)
	}
	return badges
}
