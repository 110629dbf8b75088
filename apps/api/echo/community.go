package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ajira/core/community"
	"github.com/trezcool/ajira/core/user"
)

type communityApi struct {
	svc    community.Service
	usrSvc user.Service
}

func registerCommunityAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := communityApi{
		svc:    deps.CommunitySvc,
		usrSvc: deps.UserSvc,
	}

	cg := g.Group("/communities", jwt)
	cg.GET("", api.query)
	cg.GET("/recommended", api.recommended)
	cg.GET("/mine", api.memberships)
	cg.POST("/:id/join", api.join)
	cg.POST("", api.create, adminMiddleware())
}

func (api *communityApi) query(ctx echo.Context) error {
	comms, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying communities")
	}
	if comms == nil {
		comms = []community.Community{}
	}
	return jsonData(ctx, http.StatusOK, comms)
}

func (api *communityApi) recommended(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	recs, err := api.svc.Recommend(usr)
	if err != nil {
		return errors.Wrap(err, "recommending communities")
	}
	if recs == nil {
		recs = []community.Recommendation{}
	}
	return jsonData(ctx, http.StatusOK, recs)
}

func (api *communityApi) memberships(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	comms, err := api.svc.Memberships(usr)
	if err != nil {
		return errors.Wrap(err, "querying memberships")
	}
	if comms == nil {
		comms = []community.Community{}
	}
	return jsonData(ctx, http.StatusOK, comms)
}

func (api *communityApi) join(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	comm, err := api.svc.Join(usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "joining community")
	}
	return jsonData(ctx, http.StatusOK, comm, "joined "+comm.Name)
}

func (api *communityApi) create(ctx echo.Context) error {
	var data community.Community
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Community")
	}

	comm, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating community")
	}
	return jsonData(ctx, http.StatusCreated, comm, "community created")
}
