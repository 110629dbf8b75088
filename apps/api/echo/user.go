package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ajira/core"
	"github.com/trezcool/ajira/core/interview"
	"github.com/trezcool/ajira/core/learning"
	"github.com/trezcool/ajira/core/quiz"
	"github.com/trezcool/ajira/core/user"
)

type authApi struct {
	svc        user.Service
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := authApi{
		svc:        deps.UserSvc,
		conf:       deps.Conf,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)
	ag.POST("/student/signup", api.signup(user.RoleStudent))
	ag.POST("/recruiter/signup", api.signup(user.RoleRecruiter))
	ag.POST("/mentor/signup", api.signup(user.RoleMentor))
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	tg := ag.Group("", jwt)
	tg.GET("/me", api.me)
	tg.POST("/token-refresh", api.refreshToken)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := authenticate(data.Username, data.Password, api.svc)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return jsonData(ctx, http.StatusOK, LoginResponse{
		AccessToken: token,
		Role:        usr.Role,
		UserID:      usr.ID,
	}, "login successful")
}

// signup returns a registration handler locked to the given role.
func (api *authApi) signup(role string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var data user.NewUser
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to NewUser")
		}
		data.Role = role
		if err := data.Validate(api.validate, api.svc); err != nil {
			return err
		}

		usr, err := api.svc.Register(data)
		if err != nil {
			return errors.Wrap(err, "registering user")
		}
		return jsonData(ctx, http.StatusCreated, usr, "account created; please log in")
	}
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return jsonData(ctx, http.StatusOK, usr)
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc, api.conf)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return jsonData(ctx, http.StatusOK, LoginResponse{
		AccessToken: token,
		Role:        usr.Role,
		UserID:      usr.ID,
	})
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return jsonData(ctx, http.StatusOK, nil,
		"If the email address supplied is associated with an active account on this system, "+
			"an email will arrive in your inbox shortly with instructions to reset your password.")
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return jsonData(ctx, http.StatusOK, nil, "Password has been reset with the new password.")
}

type userApi struct {
	svc         user.Service
	quizSvc     quiz.Service
	learningSvc learning.Service
	ivSvc       interview.Service
	validate    *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{
		svc:         deps.UserSvc,
		quizSvc:     deps.QuizSvc,
		learningSvc: deps.LearningSvc,
		ivSvc:       deps.InterviewSvc,
		validate:    deps.Validate,
	}

	ug := g.Group("/users", jwt)
	ug.PUT("/profile", api.updateProfile)
	ug.GET("/progress", api.progress)
	ug.GET("/dashboard", api.dashboard)
	ug.GET("/leaderboard", api.leaderboard)
}

func (api *userApi) updateProfile(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data user.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	data.Clean()

	usr, err = api.svc.UpdateProfile(usr, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	ctx.Set(contextUserKey, usr)
	return jsonData(ctx, http.StatusOK, usr, "profile updated")
}

func (api *userApi) progress(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	attempts, err := api.quizSvc.AttemptsByUser(usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying attempts")
	}
	rank, err := api.svc.LeaderboardRank(usr)
	if err != nil {
		return errors.Wrap(err, "computing leaderboard rank")
	}

	return jsonData(ctx, http.StatusOK, ProgressResponse{
		Points:   usr.Points,
		Badges:   usr.Badges,
		Rank:     rank,
		Attempts: attempts,
	})
}

func (api *userApi) dashboard(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	dash := DashboardResponse{User: usr}

	switch usr.Role {
	case user.RoleStudent:
		attempts, err := api.quizSvc.AttemptsByUser(usr.ID)
		if err != nil {
			return errors.Wrap(err, "querying attempts")
		}
		rank, err := api.svc.LeaderboardRank(usr)
		if err != nil {
			return errors.Wrap(err, "computing leaderboard rank")
		}
		streak, err := api.learningSvc.Streak(usr)
		if err != nil {
			return errors.Wrap(err, "computing streak")
		}
		dash.AttemptsCount = len(attempts)
		dash.Rank = rank
		dash.Streak = &streak
	case user.RoleMentor:
		pending, err := api.ivSvc.ConnectionsByMentor(usr)
		if err != nil {
			return errors.Wrap(err, "querying connection requests")
		}
		upcoming, err := api.ivSvc.ByMentor(usr.ID, interview.QueryFilter{Status: interview.StatusScheduled})
		if err != nil {
			return errors.Wrap(err, "querying scheduled interviews")
		}
		dash.PendingRequests = len(pending)
		dash.UpcomingInterviews = upcoming
	case user.RoleRecruiter, user.RoleAdmin:
		board, err := api.svc.Leaderboard()
		if err != nil {
			return errors.Wrap(err, "querying leaderboard")
		}
		dash.TopStudents = leaderboardEntries(board)
	}

	return jsonData(ctx, http.StatusOK, dash)
}

func (api *userApi) leaderboard(ctx echo.Context) error {
	board, err := api.svc.Leaderboard()
	if err != nil {
		return errors.Wrap(err, "querying leaderboard")
	}
	return jsonData(ctx, http.StatusOK, leaderboardEntries(board))
}

func leaderboardEntries(board []user.User) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(board))
	for i, usr := range board {
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      usr.ID,
			Name:        usr.Name,
			Points:      usr.Points,
			BadgesCount: len(usr.Badges),
		})
	}
	return entries
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
		UserID      string `json:"user_id"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ProgressResponse struct {
		Points   int            `json:"points"`
		Badges   []string       `json:"badges"`
		Rank     int            `json:"rank"`
		Attempts []quiz.Attempt `json:"attempts"`
	}

	DashboardResponse struct {
		User               user.User             `json:"user"`
		AttemptsCount      int                   `json:"attempts_count,omitempty"`
		Rank               int                   `json:"rank,omitempty"`
		Streak             *learning.Streak      `json:"streak,omitempty"`
		PendingRequests    int                   `json:"pending_requests,omitempty"`
		UpcomingInterviews []interview.Interview `json:"upcoming_interviews,omitempty"`
		TopStudents        []LeaderboardEntry    `json:"top_students,omitempty"`
	}

	LeaderboardEntry struct {
		Rank        int    `json:"rank"`
		UserID      string `json:"user_id"`
		Name        string `json:"name"`
		Points      int    `json:"points"`
		BadgesCount int    `json:"badges_count"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}
