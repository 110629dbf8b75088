package interview

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ajira/core"
)

// Interview statuses
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Connection statuses
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

type Interview struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name"`
	MentorID      string    `json:"mentor_id"`
	MentorName    string    `json:"mentor_name"`
	ScheduledTime time.Time `json:"scheduled_time"` // UTC
	Topic         string    `json:"topic"`
	Difficulty    string    `json:"difficulty"`
	Status        string    `json:"status"`
	Score         *float64  `json:"score"`
	Feedback      string    `json:"feedback,omitempty"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

type Connection struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	MentorID    string    `json:"mentor_id"`
	MentorName  string    `json:"mentor_name"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	RespondedAt time.Time `json:"responded_at,omitempty"` // UTC
}

// NewInterview is a student's scheduling request.
type NewInterview struct {
	MentorID      string    `json:"mentor_id" validate:"required"`
	ScheduledTime time.Time `json:"scheduled_time" validate:"required"`
	Topic         string    `json:"topic" validate:"required"`
	Difficulty    string    `json:"difficulty" validate:"required,difficulty"`
}

func (ni *NewInterview) Validate(validate *validator.Validate) error {
	ni.Topic = core.CleanString(ni.Topic)
	ni.Difficulty = core.CleanString(ni.Difficulty, true /* lower */)
	return validate.Struct(ni)
}

// CompleteInterview is a mentor's score + feedback on a finished session.
type CompleteInterview struct {
	Score    float64 `json:"score" validate:"min=0,max=100"`
	Feedback string  `json:"feedback" validate:"required"`
}

func (ci *CompleteInterview) Validate(validate *validator.Validate) error {
	ci.Feedback = core.CleanString(ci.Feedback)
	return validate.Struct(ci)
}

// NewConnection is a student's mentorship request.
type NewConnection struct {
	Message string `json:"message" validate:"required"`
}

func (nc *NewConnection) Validate(validate *validator.Validate) error {
	nc.Message = core.CleanString(nc.Message)
	return validate.Struct(nc)
}

// PerformanceStats summarizes a student's completed mock interviews.
type PerformanceStats struct {
	TotalInterviews int      `json:"total_interviews"`
	AverageScore    float64  `json:"average_score"`
	HighestScore    float64  `json:"highest_score"`
	TopicsCovered   []string `json:"topics_covered"`
}

// MentorshipStats summarizes a student's mentorship activity.
type MentorshipStats struct {
	TotalSessions    int `json:"total_sessions"`
	MentorsConnected int `json:"mentors_connected"`
	PendingRequests  int `json:"pending_requests"`
}

type QueryFilter struct {
	Status string `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
