package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ajira/core/interview"
	"github.com/trezcool/ajira/core/user"
)

type interviewApi struct {
	svc      interview.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerInterviewAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := interviewApi{
		svc:      deps.InterviewSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	ig := g.Group("/interviews", jwt)
	ig.POST("", api.schedule, studentMiddleware())
	ig.GET("/mine", api.mine)
	ig.GET("/stats", api.performanceStats)
	ig.GET("/mentoring", api.mentoring, mentorMiddleware())
	ig.PUT("/:id/complete", api.complete, mentorMiddleware())
	ig.PUT("/:id/cancel", api.cancel)

	mg := g.Group("/mentors", jwt)
	mg.GET("/available", api.availableMentors)
	mg.GET("/stats", api.mentorshipStats, studentMiddleware())
	mg.POST("/:id/connect", api.connect, studentMiddleware())
	mg.GET("/requests", api.requests, mentorMiddleware())
	mg.PUT("/requests/:id", api.respond, mentorMiddleware())
}

func (api *interviewApi) schedule(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data interview.NewInterview
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInterview")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	iv, err := api.svc.Schedule(usr, data)
	if err != nil {
		return errors.Wrap(err, "scheduling interview")
	}
	return jsonData(ctx, http.StatusCreated, iv, "interview scheduled")
}

func (api *interviewApi) mine(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(interview.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return jsonData(ctx, http.StatusOK, []interview.Interview{})
	}
	filter.Clean()

	var ivs []interview.Interview
	if usr.IsMentor() {
		ivs, err = api.svc.ByMentor(usr.ID, *filter)
	} else {
		ivs, err = api.svc.ByStudent(usr.ID, *filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying interviews")
	}
	if ivs == nil {
		ivs = []interview.Interview{}
	}
	return jsonData(ctx, http.StatusOK, ivs)
}

func (api *interviewApi) mentoring(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(interview.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return jsonData(ctx, http.StatusOK, []interview.Interview{})
	}
	filter.Clean()

	ivs, err := api.svc.ByMentor(usr.ID, *filter)
	if err != nil {
		return errors.Wrap(err, "querying mentoring interviews")
	}
	if ivs == nil {
		ivs = []interview.Interview{}
	}
	return jsonData(ctx, http.StatusOK, ivs)
}

func (api *interviewApi) complete(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data interview.CompleteInterview
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompleteInterview")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	iv, err := api.svc.Complete(usr, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "completing interview")
	}
	return jsonData(ctx, http.StatusOK, iv, "interview completed")
}

func (api *interviewApi) cancel(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	iv, err := api.svc.Cancel(usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "cancelling interview")
	}
	return jsonData(ctx, http.StatusOK, iv, "interview cancelled")
}

func (api *interviewApi) performanceStats(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	stats, err := api.svc.PerformanceStats(usr)
	if err != nil {
		return errors.Wrap(err, "computing performance stats")
	}
	return jsonData(ctx, http.StatusOK, stats)
}

func (api *interviewApi) mentorshipStats(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	stats, err := api.svc.MentorshipStats(usr)
	if err != nil {
		return errors.Wrap(err, "computing mentorship stats")
	}
	return jsonData(ctx, http.StatusOK, stats)
}

func (api *interviewApi) availableMentors(ctx echo.Context) error {
	mentors, err := api.svc.AvailableMentors()
	if err != nil {
		return errors.Wrap(err, "querying mentors")
	}
	if mentors == nil {
		mentors = []user.User{}
	}
	return jsonData(ctx, http.StatusOK, mentors)
}

func (api *interviewApi) connect(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data interview.NewConnection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewConnection")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	conn, err := api.svc.Connect(usr, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "requesting connection")
	}
	return jsonData(ctx, http.StatusCreated, conn, "connection requested")
}

func (api *interviewApi) requests(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	conns, err := api.svc.ConnectionsByMentor(usr)
	if err != nil {
		return errors.Wrap(err, "querying connection requests")
	}
	if conns == nil {
		conns = []interview.Connection{}
	}
	return jsonData(ctx, http.StatusOK, conns)
}

func (api *interviewApi) respond(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data ConnectionResponseRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ConnectionResponseRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	conn, err := api.svc.RespondToConnection(usr, ctx.Param("id"), data.Action == "accept")
	if err != nil {
		return errors.Wrap(err, "responding to connection request")
	}
	return jsonData(ctx, http.StatusOK, conn, "request "+conn.Status)
}

type ConnectionResponseRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}
