package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ajira/core/quiz"
	"github.com/trezcool/ajira/core/user"
)

type quizApi struct {
	svc      quiz.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := quizApi{
		svc:      deps.QuizSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	qg := g.Group("/quizzes", jwt)
	qg.GET("", api.query)
	qg.GET("/:id", api.retrieve)
	qg.POST("", api.create, adminMiddleware())
	qg.POST("/:id/attempt", api.attempt, studentMiddleware())
}

func (api *quizApi) query(ctx echo.Context) error {
	filter := new(quiz.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return jsonData(ctx, http.StatusOK, []quiz.Quiz{})
	}
	filter.Clean()

	quizzes, err := api.svc.Query(*filter)
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	if quizzes == nil {
		quizzes = []quiz.Quiz{}
	}
	return jsonData(ctx, http.StatusOK, quizzes)
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	qz, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding quiz")
	}
	return jsonData(ctx, http.StatusOK, qz)
}

func (api *quizApi) create(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	qz, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating quiz")
	}
	return jsonData(ctx, http.StatusCreated, qz, "quiz created")
}

func (api *quizApi) attempt(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data quiz.Submission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	att, usr, err := api.svc.Attempt(usr, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "grading attempt")
	}
	ctx.Set(contextUserKey, usr)
	return jsonData(ctx, http.StatusCreated, att, "attempt recorded")
}
