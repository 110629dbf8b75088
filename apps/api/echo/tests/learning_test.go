package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ajira/core/learning"
	"github.com/trezcool/ajira/core/user"
)

func Test_learningApi_daily(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)
	_, err := ta.usrSvc.UpdateProfile(student, user.UpdateProfile{Tags: "go,docker"})
	require.NoError(t, err)
	token := getToken(t, student)

	goContent, err := ta.learningSvc.AddContent(learning.Content{
		Title:       "Goroutines",
		Topic:       "go",
		Tags:        []string{"go", "concurrency"},
		Summary:     "Lightweight threads managed by the Go runtime.",
		KeyConcepts: []string{"goroutine", "channel"},
	})
	require.NoError(t, err)
	_, err = ta.learningSvc.AddContent(learning.Content{
		Title: "Borrow Checker",
		Topic: "rust",
		Tags:  []string{"rust"},
	})
	require.NoError(t, err)

	t.Run("matches user tags and derives flashcards", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/learning/daily", token)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var items []struct {
			learning.Content
			Flashcards []learning.Flashcard `json:"flashcards"`
		}
		decodeData(t, rec, &items)
		require.Len(t, items, 1)
		assert.Equal(t, goContent.ID, items[0].ID)
		require.Len(t, items[0].Flashcards, 3)
		assert.Equal(t, "What is goroutines?", items[0].Flashcards[0].Question)
		assert.Equal(t, "easy", items[0].Flashcards[0].Difficulty)
		assert.Equal(t, "hard", items[0].Flashcards[2].Difficulty)
	})

	t.Run("falls back to most viewed for unmatched users", func(t *testing.T) {
		recruiter := ta.createUser(t, "Rita Recruits", "rita@test.ajira", user.RoleRecruiter)

		req, rec := newAuthRequest(http.MethodGet, "/v1/learning/daily", getToken(t, recruiter))
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var items []learning.Content
		decodeData(t, rec, &items)
		assert.Len(t, items, 2)
	})
}

func Test_learningApi_viewAndStreak(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)
	token := getToken(t, student)

	content, err := ta.learningSvc.AddContent(learning.Content{Title: "Goroutines", Topic: "go"})
	require.NoError(t, err)

	ta.runTable(t, []httpTest{
		{
			name: "view unknown content", method: http.MethodPost,
			path: "/v1/learning/deadbeef-0000-0000-0000-000000000000/view", token: token,
			wantCode: http.StatusNotFound, wantData: errObj(t, "not found"),
		},
		{
			name: "initial streak", path: "/v1/learning/streak", token: token,
			wantData: respObj(t, learning.Streak{}),
		},
	})

	t.Run("views bump streak", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/learning/"+content.ID+"/view", token)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		req, rec = newAuthRequest(http.MethodGet, "/v1/learning/streak", token)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var streak learning.Streak
		decodeData(t, rec, &streak)
		assert.Equal(t, 1, streak.TotalContentViewed)
		assert.Equal(t, 1, streak.CurrentStreak)
	})
}

func Test_learningApi_resources(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)
	student, err := ta.usrSvc.UpdateProfile(student, user.UpdateProfile{Interests: "go,backend"})
	require.NoError(t, err)
	admin := ta.createUser(t, "Root Admin", "admin@test.ajira", user.RoleAdmin)
	token := getToken(t, student)

	goRes, err := ta.learningSvc.AddResource(learning.Resource{
		Title: "Tour of Go", Topic: "go", Tags: []string{"go", "backend"}, Type: "course", SkillLevel: learning.LevelBeginner,
	})
	require.NoError(t, err)
	rustRes, err := ta.learningSvc.AddResource(learning.Resource{
		Title: "Rust Book", Topic: "rust", Tags: []string{"rust"}, Type: "article", SkillLevel: learning.LevelAdvanced,
	})
	require.NoError(t, err)

	t.Run("ranked by interest overlap", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/learning/resources", token)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resources []learning.Resource
		decodeData(t, rec, &resources)
		require.Len(t, resources, 2)
		assert.Equal(t, goRes.ID, resources[0].ID)
		assert.Equal(t, 2, resources[0].MatchScore)
		assert.Equal(t, rustRes.ID, resources[1].ID)
		assert.Equal(t, 0, resources[1].MatchScore)
	})

	t.Run("filtered by skill level", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/learning/resources?skill_level=advanced", token)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resources []learning.Resource
		decodeData(t, rec, &resources)
		require.Len(t, resources, 1)
		assert.Equal(t, rustRes.ID, resources[0].ID)
	})

	t.Run("adding resources is admin-only", func(t *testing.T) {
		body := marshallObj(t, learning.Resource{Title: "Sneaky", Topic: "go"})

		req, rec := newAuthRequest(http.MethodPost, "/v1/learning/resources", token, body)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		req, rec = newAuthRequest(http.MethodPost, "/v1/learning/resources", getToken(t, admin), body)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
}

func Test_learningApi_roadmap(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)
	student, err := ta.usrSvc.UpdateProfile(student, user.UpdateProfile{Tags: "go,sql"})
	require.NoError(t, err)
	token := getToken(t, student)

	res, err := ta.learningSvc.AddResource(learning.Resource{
		Title: "Tour of Go", Topic: "go", Type: "course",
		URL: "https://go.dev/tour", SkillLevel: learning.LevelBeginner,
	})
	require.NoError(t, err)

	ta.runTable(t, []httpTest{
		{
			name: "empty body", method: http.MethodPost, path: "/v1/learning/roadmap", token: token,
			body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: errObj(t, "invalid input", map[string]string{
				"career_goal":     "this field is required",
				"time_commitment": "this field is required",
				"current_level":   "this field is required",
			}),
		},
	})

	t.Run("creates a 3-stage roadmap", func(t *testing.T) {
		body := marshallObj(t, learning.NewRoadmap{
			CareerGoal:     "Backend Engineering",
			TimeCommitment: "5",
			CurrentLevel:   learning.LevelBeginner,
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/learning/roadmap", token, body)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var rm learning.Roadmap
		decodeData(t, rec, &rm)
		assert.NotEmpty(t, rm.ID)
		assert.Equal(t, student.ID, rm.UserID)
		require.Len(t, rm.Stages, 3)
		assert.Equal(t, "Foundation in go, sql", rm.Stages[0].Title)
		require.Len(t, rm.Stages[0].RecommendedResources, 1)
		assert.Equal(t, res.ID, rm.Stages[0].RecommendedResources[0].ID)
		assert.Equal(t, 1, rm.Progress.CurrentStage)
	})
}

func Test_learningApi_trends(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)
	token := getToken(t, student)

	goContent, err := ta.learningSvc.AddContent(learning.Content{Title: "Goroutines", Topic: "go"})
	require.NoError(t, err)
	sqlContent, err := ta.learningSvc.AddContent(learning.Content{Title: "Joins", Topic: "sql"})
	require.NoError(t, err)
	for _, id := range []string{goContent.ID, goContent.ID, sqlContent.ID} {
		require.NoError(t, ta.learningSvc.MarkViewed(student, id))
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/learning/trends", token)
	ta.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var trends learning.Trends
	decodeData(t, rec, &trends)
	assert.Equal(t, 3, trends.TotalContentViewed)
	assert.Equal(t, []learning.TopicCount{{Topic: "go", Count: 2}, {Topic: "sql", Count: 1}}, trends.TopTopics)
	assert.NotEmpty(t, trends.Insights)
}
