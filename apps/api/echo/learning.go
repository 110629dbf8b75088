package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ajira/core/learning"
	"github.com/trezcool/ajira/core/user"
)

type learningApi struct {
	svc      learning.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerLearningAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := learningApi{
		svc:      deps.LearningSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	lg := g.Group("/learning", jwt)
	lg.GET("/daily", api.daily)
	lg.GET("/resources", api.resources)
	lg.GET("/streak", api.streak)
	lg.GET("/trends", api.trends)
	lg.POST("/roadmap", api.roadmap)
	lg.POST("/:id/view", api.view)
	lg.POST("", api.addContent, adminMiddleware())
	lg.POST("/resources", api.addResource, adminMiddleware())
}

// DailyContentItem pairs a content item with its derived flashcards.
type DailyContentItem struct {
	learning.Content
	Flashcards []learning.Flashcard `json:"flashcards"`
}

func (api *learningApi) daily(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	contents, err := api.svc.DailyContent(usr)
	if err != nil {
		return errors.Wrap(err, "querying daily content")
	}

	items := make([]DailyContentItem, 0, len(contents))
	for _, c := range contents {
		items = append(items, DailyContentItem{Content: c, Flashcards: c.Flashcards()})
	}
	return jsonData(ctx, http.StatusOK, items)
}

func (api *learningApi) resources(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(learning.ResourceFilter)
	if err := ctx.Bind(filter); err != nil {
		return jsonData(ctx, http.StatusOK, []learning.Resource{})
	}
	filter.Clean()

	resources, err := api.svc.Resources(usr, *filter)
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	if resources == nil {
		resources = []learning.Resource{}
	}
	return jsonData(ctx, http.StatusOK, resources)
}

func (api *learningApi) streak(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	streak, err := api.svc.Streak(usr)
	if err != nil {
		return errors.Wrap(err, "computing streak")
	}
	return jsonData(ctx, http.StatusOK, streak)
}

func (api *learningApi) trends(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	trends, err := api.svc.Trends(usr)
	if err != nil {
		return errors.Wrap(err, "computing learning trends")
	}
	return jsonData(ctx, http.StatusOK, trends)
}

func (api *learningApi) roadmap(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data learning.NewRoadmap
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoadmap")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rm, err := api.svc.CreateRoadmap(usr, data)
	if err != nil {
		return errors.Wrap(err, "creating roadmap")
	}
	return jsonData(ctx, http.StatusCreated, rm, "personalized learning roadmap created for "+rm.CareerGoal)
}

func (api *learningApi) view(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.MarkViewed(usr, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "marking content viewed")
	}
	return jsonData(ctx, http.StatusOK, nil, "content marked as viewed")
}

func (api *learningApi) addContent(ctx echo.Context) error {
	var data learning.Content
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Content")
	}

	c, err := api.svc.AddContent(data)
	if err != nil {
		return errors.Wrap(err, "adding content")
	}
	return jsonData(ctx, http.StatusCreated, c, "content added")
}

func (api *learningApi) addResource(ctx echo.Context) error {
	var data learning.Resource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Resource")
	}

	r, err := api.svc.AddResource(data)
	if err != nil {
		return errors.Wrap(err, "adding resource")
	}
	return jsonData(ctx, http.StatusCreated, r, "resource added")
}
