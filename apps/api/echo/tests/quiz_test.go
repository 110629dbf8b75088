package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ajira/core/quiz"
	"github.com/trezcool/ajira/core/user"
)

func newTestQuiz(t *testing.T, ta *testApp, title, topic, difficulty string, points int) quiz.Quiz {
	t.Helper()
	qz, err := ta.quizSvc.Create(quiz.NewQuiz{
		Title:      title,
		Topic:      topic,
		Difficulty: difficulty,
		Questions: []quiz.NewQuestion{
			{Text: "2+2?", Options: []string{"3", "4"}, Answer: 1},
			{Text: "3+3?", Options: []string{"6", "7"}, Answer: 0},
			{Text: "5+5?", Options: []string{"10", "11"}, Answer: 0},
			{Text: "7+7?", Options: []string{"14", "15"}, Answer: 0},
		},
		Points:    points,
		TimeLimit: 300,
	})
	require.NoError(t, err)
	return qz
}

func Test_quizApi_query(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)
	token := getToken(t, student)

	goQuiz := newTestQuiz(t, ta, "Go Basics", "go", quiz.DifficultyEasy, 100)
	sqlQuiz := newTestQuiz(t, ta, "SQL Joins", "sql", quiz.DifficultyMedium, 100)

	ta.runTable(t, []httpTest{
		{name: "auth required", path: "/v1/quizzes", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "all (newest first)", path: "/v1/quizzes", token: token, wantData: respObj(t, []quiz.Quiz{sqlQuiz, goQuiz})},
		{name: "filter topic", path: "/v1/quizzes?topic=go", token: token, wantData: respObj(t, []quiz.Quiz{goQuiz})},
		{name: "filter difficulty", path: "/v1/quizzes?difficulty=medium", token: token, wantData: respObj(t, []quiz.Quiz{sqlQuiz})},
		{name: "filter no match", path: "/v1/quizzes?topic=rust", token: token, wantData: respObj(t, []quiz.Quiz{})},
		{name: "retrieve", path: "/v1/quizzes/" + goQuiz.ID, token: token, wantData: respObj(t, goQuiz)},
		{
			name: "retrieve unknown", path: "/v1/quizzes/deadbeef-0000-0000-0000-000000000000", token: token,
			wantCode: http.StatusNotFound, wantData: errObj(t, "not found"),
		},
	})
}

func Test_quizApi_create(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)
	admin := ta.createUser(t, "Root Admin", "admin@test.ajira", user.RoleAdmin)

	body := marshallObj(t, quiz.NewQuiz{
		Title:      "Go Basics",
		Topic:      "go",
		Difficulty: quiz.DifficultyEasy,
		Questions:  []quiz.NewQuestion{{Text: "2+2?", Options: []string{"3", "4"}, Answer: 1}},
		Points:     50,
	})

	ta.runTable(t, []httpTest{
		{
			name: "admin required", method: http.MethodPost, path: "/v1/quizzes", token: getToken(t, student),
			body: body, wantCode: http.StatusForbidden, wantData: errObj(t, "permission denied"),
		},
		{
			name: "invalid difficulty", method: http.MethodPost, path: "/v1/quizzes", token: getToken(t, admin),
			body: marshallObj(t, quiz.NewQuiz{
				Title:      "Broken",
				Topic:      "go",
				Difficulty: "extreme",
				Questions:  []quiz.NewQuestion{{Text: "2+2?", Options: []string{"3", "4"}, Answer: 1}},
			}),
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, "invalid input", map[string]string{
				"difficulty": "difficulty must be one of easy, medium or hard",
			}),
		},
		{
			name: "answer index out of range", method: http.MethodPost, path: "/v1/quizzes", token: getToken(t, admin),
			body: marshallObj(t, quiz.NewQuiz{
				Title:      "Broken",
				Topic:      "go",
				Difficulty: quiz.DifficultyEasy,
				Questions:  []quiz.NewQuestion{{Text: "2+2?", Options: []string{"3", "4"}, Answer: 5}},
			}),
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, "invalid input", map[string]string{
				"questions": "answer index out of range in question 1",
			}),
		},
	})

	t.Run("created", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/quizzes", getToken(t, admin), body)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var data quiz.Quiz
		decodeData(t, rec, &data)
		assert.NotEmpty(t, data.ID)
		assert.Equal(t, "Go Basics", data.Title)
	})
}

func Test_quizApi_attempt(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)
	mentor := ta.createUser(t, "Fatou Diop", "fatou@test.ajira", user.RoleMentor)
	token := getToken(t, student)

	qz := newTestQuiz(t, ta, "Go Basics", "go", quiz.DifficultyMedium, 100)

	attempt := func(t *testing.T, token string, sub quiz.Submission) (*quiz.Attempt, int, string) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/quizzes/"+qz.ID+"/attempt", token, marshallObj(t, sub))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			return nil, rec.Code, rec.Body.String()
		}
		var att quiz.Attempt
		decodeData(t, rec, &att)
		return &att, rec.Code, rec.Body.String()
	}

	t.Run("students only", func(t *testing.T) {
		_, code, _ := attempt(t, getToken(t, mentor), quiz.Submission{Answers: []int{1, 0, 0, 0}})
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("answer count mismatch", func(t *testing.T) {
		_, code, body := attempt(t, token, quiz.Submission{Answers: []int{1}})
		assert.Equal(t, http.StatusBadRequest, code, body)
	})

	t.Run("perfect score earns badges and points", func(t *testing.T) {
		att, code, body := attempt(t, token, quiz.Submission{Answers: []int{1, 0, 0, 0}, TimeTaken: 120})
		require.Equal(t, http.StatusCreated, code, body)

		assert.Equal(t, 4, att.CorrectAnswers)
		assert.Equal(t, 100.0, att.FinalScore)
		assert.Equal(t, 100, att.PointsEarned)
		// first attempt at 100%: both Perfect Score and Rising Star
		assert.ElementsMatch(t, []string{user.BadgePerfectScore, user.BadgeRisingStar}, att.BadgesEarned)
		assert.Equal(t, quiz.DifficultyHard, att.NextDifficulty)

		fresh, err := ta.usrSvc.GetByID(student.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, fresh.Points)
		assert.ElementsMatch(t, []string{user.BadgePerfectScore, user.BadgeRisingStar}, fresh.Badges)
	})

	t.Run("tab switches shave the final score", func(t *testing.T) {
		att, code, body := attempt(t, token, quiz.Submission{Answers: []int{1, 0, 0, 0}, TabSwitches: 2})
		require.Equal(t, http.StatusCreated, code, body)

		assert.Equal(t, 100.0, att.ScorePercentage)
		assert.Equal(t, 90.0, att.FinalScore)
		assert.Equal(t, 90, att.PointsEarned)
		// no repeat badges for an already-decorated student
		assert.Empty(t, att.BadgesEarned)
	})

	t.Run("low score demotes difficulty", func(t *testing.T) {
		att, code, body := attempt(t, token, quiz.Submission{Answers: []int{0, 1, 1, 1}})
		require.Equal(t, http.StatusCreated, code, body)

		assert.Equal(t, 0, att.CorrectAnswers)
		assert.Equal(t, 0.0, att.FinalScore)
		assert.Equal(t, quiz.DifficultyEasy, att.NextDifficulty)
	})

	t.Run("fifth attempt earns quiz master", func(t *testing.T) {
		_, code, body := attempt(t, token, quiz.Submission{Answers: []int{1, 0, 0, 0}})
		require.Equal(t, http.StatusCreated, code, body)
		att, code, body := attempt(t, token, quiz.Submission{Answers: []int{1, 0, 0, 0}})
		require.Equal(t, http.StatusCreated, code, body)

		assert.Equal(t, []string{user.BadgeQuizMaster}, att.BadgesEarned)
	})
}
