package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/ajira/apps/api/echo"
	"github.com/trezcool/ajira/core/interview"
	"github.com/trezcool/ajira/core/quiz"
	"github.com/trezcool/ajira/core/user"
)

func Test_userApi_updateProfile(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)

	body := marshallObj(t, user.UpdateProfile{
		Tags:       "go, sql",
		Skills:     "debugging",
		Interests:  "backend,distributed systems",
		CareerGoal: "site reliability engineer",
	})
	req, rec := newAuthRequest(http.MethodPut, "/v1/users/profile", getToken(t, student), body)
	ta.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data user.User
	decodeData(t, rec, &data)
	assert.Equal(t, []string{"go", "sql"}, data.Tags)
	assert.Equal(t, []string{"debugging"}, data.Skills)
	assert.Equal(t, []string{"backend", "distributed systems"}, data.Interests)
	assert.Equal(t, "site reliability engineer", data.CareerGoal)

	fresh, err := ta.usrSvc.GetByID(student.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, fresh.Tags)
}

func Test_userApi_leaderboard(t *testing.T) {
	ta := setup(t)
	low := ta.createUser(t, "Low Scorer", "low@test.ajira", user.RoleStudent)
	high := ta.createUser(t, "High Scorer", "high@test.ajira", user.RoleStudent)
	mentor := ta.createUser(t, "Fatou Diop", "fatou@test.ajira", user.RoleMentor)

	var err error
	low, err = ta.usrSvc.AwardBadges(low, 50)
	require.NoError(t, err)
	high, err = ta.usrSvc.AwardBadges(high, 300, user.BadgePerfectScore)
	require.NoError(t, err)

	req, rec := newAuthRequest(http.MethodGet, "/v1/users/leaderboard", getToken(t, mentor))
	ta.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var entries []LeaderboardEntry
	decodeData(t, rec, &entries)
	require.Len(t, entries, 2) // mentors do not rank
	assert.Equal(t, LeaderboardEntry{Rank: 1, UserID: high.ID, Name: high.Name, Points: 300, BadgesCount: 1}, entries[0])
	assert.Equal(t, LeaderboardEntry{Rank: 2, UserID: low.ID, Name: low.Name, Points: 50, BadgesCount: 0}, entries[1])
}

func Test_userApi_progress(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)
	qz := newTestQuiz(t, ta, "Go Basics", "go", quiz.DifficultyEasy, 40)

	_, _, err := ta.quizSvc.Attempt(student, qz.ID, quiz.Submission{Answers: []int{1, 0, 0, 0}})
	require.NoError(t, err)

	req, rec := newAuthRequest(http.MethodGet, "/v1/users/progress", getToken(t, student))
	ta.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data ProgressResponse
	decodeData(t, rec, &data)
	assert.Equal(t, 40, data.Points)
	assert.ElementsMatch(t, []string{user.BadgePerfectScore, user.BadgeRisingStar}, data.Badges)
	assert.Equal(t, 1, data.Rank)
	require.Len(t, data.Attempts, 1)
	assert.Equal(t, qz.ID, data.Attempts[0].QuizID)
}

func Test_userApi_dashboard(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)
	recruiter := ta.createUser(t, "Rita Recruits", "rita@test.ajira", user.RoleRecruiter)
	mentor := ta.createUser(t, "Fatou Diop", "fatou@test.ajira", user.RoleMentor)

	qz := newTestQuiz(t, ta, "Go Basics", "go", quiz.DifficultyEasy, 40)
	_, _, err := ta.quizSvc.Attempt(student, qz.ID, quiz.Submission{Answers: []int{1, 0, 0, 0}})
	require.NoError(t, err)

	t.Run("student dashboard", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/dashboard", getToken(t, student))
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var data DashboardResponse
		decodeData(t, rec, &data)
		assert.Equal(t, student.ID, data.User.ID)
		assert.Equal(t, 1, data.AttemptsCount)
		assert.Equal(t, 1, data.Rank)
		require.NotNil(t, data.Streak)
		assert.Empty(t, data.TopStudents)
	})

	t.Run("mentor dashboard", func(t *testing.T) {
		fresh, err := ta.usrSvc.GetByID(student.ID)
		require.NoError(t, err)
		fresh, err = ta.usrSvc.AwardBadges(fresh, 0, user.BadgeQuizMaster) // third badge
		require.NoError(t, err)
		_, err = ta.ivSvc.Connect(fresh, mentor.ID, interview.NewConnection{Message: "hi"})
		require.NoError(t, err)

		req, rec := newAuthRequest(http.MethodGet, "/v1/users/dashboard", getToken(t, mentor))
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var data DashboardResponse
		decodeData(t, rec, &data)
		assert.Equal(t, mentor.ID, data.User.ID)
		assert.Equal(t, 1, data.PendingRequests)
	})

	t.Run("recruiter dashboard shows top students", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/dashboard", getToken(t, recruiter))
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var data DashboardResponse
		decodeData(t, rec, &data)
		assert.Equal(t, recruiter.ID, data.User.ID)
		require.Len(t, data.TopStudents, 1)
		assert.Equal(t, student.ID, data.TopStudents[0].UserID)
	})
}
