package quiz

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ajira/core"
)

// Difficulties
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var difficultyLadder = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

func difficultyIsValid(d string) bool {
	for _, known := range difficultyLadder {
		if known == d {
			return true
		}
	}
	return false
}

// NextDifficulty steps the ladder up on a final score >= 80, down on < 50.
func NextDifficulty(current string, finalScore float64) string {
	idx := 0
	for i, d := range difficultyLadder {
		if d == current {
			idx = i
			break
		}
	}
	switch {
	case finalScore >= promoteScore && idx < len(difficultyLadder)-1:
		idx++
	case finalScore < demoteScore && idx > 0:
		idx--
	}
	return difficultyLadder[idx]
}

type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  int      `json:"-"` // index into Options; never serialized
}

type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Topic      string     `json:"topic"`
	Difficulty string     `json:"difficulty"`
	Questions  []Question `json:"questions"`
	Points     int        `json:"points"`
	TimeLimit  int        `json:"time_limit"` // seconds
	CreatedAt  time.Time  `json:"created_at"` // UTC
}

type Attempt struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	QuizID          string    `json:"quiz_id"`
	Answers         []int     `json:"answers"`
	TimeTaken       int       `json:"time_taken"` // seconds
	TabSwitches     int       `json:"tab_switches"`
	CorrectAnswers  int       `json:"correct_answers"`
	TotalQuestions  int       `json:"total_questions"`
	ScorePercentage float64   `json:"score_percentage"`
	FinalScore      float64   `json:"final_score"`
	PointsEarned    int       `json:"points_earned"`
	BadgesEarned    []string  `json:"badges_earned"`
	NextDifficulty  string    `json:"next_recommended_difficulty"`
	CreatedAt       time.Time `json:"created_at"` // UTC
}

// NewQuestion carries the answer key; only used on quiz creation.
type NewQuestion struct {
	Text    string   `json:"text" validate:"required"`
	Options []string `json:"options" validate:"required,min=2"`
	Answer  int      `json:"answer" validate:"min=0"`
}

type NewQuiz struct {
	Title      string        `json:"title" validate:"required"`
	Topic      string        `json:"topic" validate:"required"`
	Difficulty string        `json:"difficulty" validate:"required,difficulty"`
	Questions  []NewQuestion `json:"questions" validate:"required,min=1,dive"`
	Points     int           `json:"points" validate:"min=0"`
	TimeLimit  int           `json:"time_limit" validate:"min=0"`
}

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	nq.Title = core.CleanString(nq.Title)
	nq.Topic = core.CleanString(nq.Topic, true /* lower */)
	nq.Difficulty = core.CleanString(nq.Difficulty, true /* lower */)

	if err := validate.Struct(nq); err != nil {
		return err
	}
	for i, q := range nq.Questions {
		if q.Answer >= len(q.Options) {
			return core.NewValidationError(nil, core.FieldError{
				Field: "questions",
				Error: fmt.Sprintf("answer index out of range in question %d", i+1),
			})
		}
	}
	return nil
}

// Submission is a student's answer sheet for one quiz.
type Submission struct {
	Answers     []int `json:"answers" validate:"required"`
	TimeTaken   int   `json:"time_taken" validate:"min=0"`
	TabSwitches int   `json:"tab_switches" validate:"min=0"`
}

func (s Submission) Validate(validate *validator.Validate) error {
	return validate.Struct(s)
}

type QueryFilter struct {
	Topic      string `query:"topic"`
	Difficulty string `query:"difficulty"`
}

func (qf *QueryFilter) Clean() {
	qf.Topic = core.CleanString(qf.Topic, true /* lower */)
	qf.Difficulty = core.CleanString(qf.Difficulty, true /* lower */)
}
