package interview

import (
	"errors"
	"fmt"
	"time"

	"github.com/trezcool/ajira/core"
	"github.com/trezcool/ajira/core/user"
)

const aceScore = 80.0

var (
	// errors
	ErrNotFound           = errors.New("interview not found")
	ErrConnectionNotFound = errors.New("connection request not found")
	ErrMentorNotFound     = errors.New("mentor not found or unavailable")
	ErrConnectionExists   = errors.New("connection request already exists")
	ErrNotScheduled       = errors.New("interview is not in scheduled state")
	ErrAlreadyResponded   = errors.New("connection request has already been responded to")
)

type (
	Repository interface {
		CreateInterview(iv Interview) (Interview, error)
		GetInterviewByID(id string) (Interview, error)
		// QueryInterviewsByStudent/Mentor return interviews newest first,
		// optionally filtered by status.
		QueryInterviewsByStudent(studentID string, filter QueryFilter) ([]Interview, error)
		QueryInterviewsByMentor(mentorID string, filter QueryFilter) ([]Interview, error)
		UpdateInterview(iv Interview) (Interview, error)
		CreateConnection(conn Connection) (Connection, error)
		GetConnectionByID(id string) (Connection, error)
		GetConnectionByPair(studentID, mentorID string) (Connection, error)
		QueryConnectionsByMentor(mentorID string) ([]Connection, error)
		QueryConnectionsByStudent(studentID string) ([]Connection, error)
		UpdateConnection(conn Connection) (Connection, error)
	}

	Service interface {
		// Schedule books a mock interview for a student; it is badge-gated.
		Schedule(student user.User, ni NewInterview) (Interview, error)
		GetByID(id string) (Interview, error)
		ByStudent(studentID string, filter QueryFilter) ([]Interview, error)
		ByMentor(mentorID string, filter QueryFilter) ([]Interview, error)
		// Complete records the mentor's score and feedback and may award the
		// student the Interview Ace badge.
		Complete(mentor user.User, interviewID string, ci CompleteInterview) (Interview, error)
		Cancel(usr user.User, interviewID string) (Interview, error)
		Connect(student user.User, mentorID string, nc NewConnection) (Connection, error)
		ConnectionsByMentor(mentor user.User) ([]Connection, error)
		RespondToConnection(mentor user.User, connectionID string, accept bool) (Connection, error)
		AvailableMentors() ([]user.User, error)
		// PerformanceStats aggregates a student's completed interviews.
		PerformanceStats(student user.User) (PerformanceStats, error)
		// MentorshipStats is available to students only.
		MentorshipStats(student user.User) (MentorshipStats, error)
	}

	service struct {
		repo   Repository
		usrSvc user.Service
		conf   *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service, conf *core.Config) Service {
	return &service{
		repo:   repo,
		usrSvc: usrSvc,
		conf:   conf,
	}
}

func (svc *service) Schedule(student user.User, ni NewInterview) (Interview, error) {
	if len(student.Badges) < svc.conf.InterviewMinBadges {
		return Interview{}, core.NewPermissionError(fmt.Sprintf(
			"you need at least %d badges to schedule interviews; current: %d",
			svc.conf.InterviewMinBadges, len(student.Badges),
		))
	}

	mentor, err := svc.usrSvc.GetByID(ni.MentorID)
	if err != nil || !mentor.IsMentor() || !mentor.IsActive {
		return Interview{}, ErrMentorNotFound
	}

	now := time.Now().UTC()
	iv := Interview{
		StudentID:     student.ID,
		StudentName:   student.Name,
		MentorID:      mentor.ID,
		MentorName:    mentor.Name,
		ScheduledTime: ni.ScheduledTime.UTC(),
		Topic:         ni.Topic,
		Difficulty:    ni.Difficulty,
		Status:        StatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateInterview(iv)
}

func (svc *service) GetByID(id string) (Interview, error) {
	return svc.repo.GetInterviewByID(id)
}

func (svc *service) ByStudent(studentID string, filter QueryFilter) ([]Interview, error) {
	return svc.repo.QueryInterviewsByStudent(studentID, filter)
}

func (svc *service) ByMentor(mentorID string, filter QueryFilter) ([]Interview, error) {
	return svc.repo.QueryInterviewsByMentor(mentorID, filter)
}

func (svc *service) Complete(mentor user.User, interviewID string, ci CompleteInterview) (Interview, error) {
	iv, err := svc.repo.GetInterviewByID(interviewID)
	if err != nil {
		return Interview{}, err
	}
	if iv.MentorID != mentor.ID {
		return Interview{}, core.NewPermissionError("only the assigned mentor may complete this interview")
	}
	if iv.Status != StatusScheduled {
		return Interview{}, core.NewValidationError(ErrNotScheduled)
	}

	iv.Status = StatusCompleted
	iv.Score = &ci.Score
	iv.Feedback = ci.Feedback
	iv.UpdatedAt = time.Now().UTC()
	iv, err = svc.repo.UpdateInterview(iv)
	if err != nil {
		return Interview{}, err
	}

	if ci.Score >= aceScore {
		student, err := svc.usrSvc.GetByID(iv.StudentID)
		if err != nil {
			return Interview{}, err
		}
		if _, err = svc.usrSvc.AwardBadges(student, 0, user.BadgeInterviewAce); err != nil {
			return Interview{}, err
		}
	}
	return iv, nil
}

func (svc *service) Cancel(usr user.User, interviewID string) (Interview, error) {
	iv, err := svc.repo.GetInterviewByID(interviewID)
	if err != nil {
		return Interview{}, err
	}
	if iv.StudentID != usr.ID && iv.MentorID != usr.ID {
		return Interview{}, core.NewPermissionError("only a participant may cancel this interview")
	}
	if iv.Status != StatusScheduled {
		return Interview{}, core.NewValidationError(ErrNotScheduled)
	}
	iv.Status = StatusCancelled
	iv.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateInterview(iv)
}

func (svc *service) Connect(student user.User, mentorID string, nc NewConnection) (Connection, error) {
	mentor, err := svc.usrSvc.GetByID(mentorID)
	if err != nil || !mentor.IsMentor() || !mentor.IsActive {
		return Connection{}, ErrMentorNotFound
	}

	if _, err := svc.repo.GetConnectionByPair(student.ID, mentorID); err == nil {
		return Connection{}, core.NewValidationError(ErrConnectionExists)
	} else if err != ErrConnectionNotFound {
		return Connection{}, err
	}

	conn := Connection{
		StudentID:   student.ID,
		StudentName: student.Name,
		MentorID:    mentor.ID,
		MentorName:  mentor.Name,
		Status:      ConnectionPending,
		Message:     nc.Message,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateConnection(conn)
}

func (svc *service) ConnectionsByMentor(mentor user.User) ([]Connection, error) {
	return svc.repo.QueryConnectionsByMentor(mentor.ID)
}

func (svc *service) RespondToConnection(mentor user.User, connectionID string, accept bool) (Connection, error) {
	conn, err := svc.repo.GetConnectionByID(connectionID)
	if err != nil {
		return Connection{}, err
	}
	if conn.MentorID != mentor.ID {
		return Connection{}, core.NewPermissionError("not your connection request")
	}
	if conn.Status != ConnectionPending {
		return Connection{}, core.NewValidationError(ErrAlreadyResponded)
	}

	if accept {
		conn.Status = ConnectionAccepted
	} else {
		conn.Status = ConnectionRejected
	}
	conn.RespondedAt = time.Now().UTC()
	return svc.repo.UpdateConnection(conn)
}

func (svc *service) AvailableMentors() ([]user.User, error) {
	active := true
	return svc.usrSvc.Filter(user.QueryFilter{Role: user.RoleMentor, IsActive: &active})
}

func (svc *service) PerformanceStats(student user.User) (PerformanceStats, error) {
	completed, err := svc.repo.QueryInterviewsByStudent(student.ID, QueryFilter{Status: StatusCompleted})
	if err != nil {
		return PerformanceStats{}, err
	}

	stats := PerformanceStats{
		TotalInterviews: len(completed),
		TopicsCovered:   []string{},
	}
	if len(completed) == 0 {
		return stats, nil
	}

	var sum float64
	var scored int
	seen := make(map[string]struct{})
	for _, iv := range completed {
		if iv.Score != nil {
			sum += *iv.Score
			scored++
			if *iv.Score > stats.HighestScore {
				stats.HighestScore = *iv.Score
			}
		}
		if _, ok := seen[iv.Topic]; !ok {
			seen[iv.Topic] = struct{}{}
			stats.TopicsCovered = append(stats.TopicsCovered, iv.Topic)
		}
	}
	if scored > 0 {
		stats.AverageScore = sum / float64(scored)
	}
	return stats, nil
}

func (svc *service) MentorshipStats(student user.User) (MentorshipStats, error) {
	if !student.IsStudent() {
		return MentorshipStats{}, core.NewPermissionError("only students have mentorship stats")
	}

	sessions, err := svc.repo.QueryInterviewsByStudent(student.ID, QueryFilter{Status: StatusCompleted})
	if err != nil {
		return MentorshipStats{}, err
	}
	conns, err := svc.repo.QueryConnectionsByStudent(student.ID)
	if err != nil {
		return MentorshipStats{}, err
	}

	stats := MentorshipStats{TotalSessions: len(sessions)}
	mentors := make(map[string]struct{})
	for _, conn := range conns {
		switch conn.Status {
		case ConnectionAccepted:
			mentors[conn.MentorID] = struct{}{}
		case ConnectionPending:
			stats.PendingRequests++
		}
	}
	stats.MentorsConnected = len(mentors)
	return stats, nil
}
