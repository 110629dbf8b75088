package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/ajira/apps/api/echo"
	"github.com/trezcool/ajira/core"
	"github.com/trezcool/ajira/core/community"
	"github.com/trezcool/ajira/core/interview"
	"github.com/trezcool/ajira/core/learning"
	"github.com/trezcool/ajira/core/quiz"
	"github.com/trezcool/ajira/core/user"
	emailsvc "github.com/trezcool/ajira/services/email"
	inmemdb "github.com/trezcool/ajira/storage/database/inmem"
)

const testPassword = "L3tsG0-t3st!"

var errMissingToken = ErrResponse{Detail: "missing or malformed jwt"}

type testApp struct {
	app          Server
	usrRepo      user.Repository
	usrSvc       user.Service
	quizSvc      quiz.Service
	learningSvc  learning.Service
	communitySvc community.Service
	ivSvc        interview.Service
}

func setup(t *testing.T) *testApp {
	t.Helper()

	db := inmemdb.NewDB()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrRepo := inmemdb.NewUserRepository(db)
	usrSvc := user.NewServiceMock(usrRepo, mailSvc, conf)
	quizSvc := quiz.NewService(inmemdb.NewQuizRepository(db), usrSvc)
	learningSvc := learning.NewService(inmemdb.NewLearningRepository(db))
	communitySvc := community.NewService(inmemdb.NewCommunityRepository(db))
	ivSvc := interview.NewService(inmemdb.NewInterviewRepository(db), usrSvc, conf)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	quiz.InitValidators(validate, translator)

	app := NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		UserSvc:      usrSvc,
		QuizSvc:      quizSvc,
		LearningSvc:  learningSvc,
		CommunitySvc: communitySvc,
		InterviewSvc: ivSvc,
		Validate:     validate,
		Translator:   translator,
	})
	return &testApp{
		app:          app,
		usrRepo:      usrRepo,
		usrSvc:       usrSvc,
		quizSvc:      quizSvc,
		learningSvc:  learningSvc,
		communitySvc: communitySvc,
		ivSvc:        ivSvc,
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func (ta *testApp) createUser(t *testing.T, name, email, role string, badges ...string) user.User {
	t.Helper()
	usr, err := ta.usrSvc.Create(user.NewUser{
		Name:            name,
		Email:           email,
		Password:        testPassword,
		PasswordConfirm: testPassword,
		Role:            role,
	})
	require.NoError(t, err)
	if len(badges) > 0 {
		usr, err = ta.usrSvc.AwardBadges(usr, 0, badges...)
		require.NoError(t, err)
	}
	return usr
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(conf, GetUserClaims(conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

// respObj wraps data in the success envelope before marshalling.
func respObj(t *testing.T, data interface{}, msg ...string) []byte {
	t.Helper()
	resp := Response{Data: data}
	if len(msg) > 0 {
		resp.Message = msg[0]
	}
	return marshallObj(t, resp)
}

func errObj(t *testing.T, detail string, fields ...map[string]string) []byte {
	t.Helper()
	resp := ErrResponse{Detail: detail}
	if len(fields) > 0 {
		resp.Fields = fields[0]
	}
	return marshallObj(t, resp)
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	t.Helper()
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func (ta *testApp) runTable(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			if tt.wantCode == 0 {
				tt.wantCode = http.StatusOK
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

// decodeData unmarshals the envelope's data field into out.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}
