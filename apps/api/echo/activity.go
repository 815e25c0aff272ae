package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/idara/core"
	"github.com/trezcool/idara/core/activity"
	"github.com/trezcool/idara/core/catalog"
	uploadsvc "github.com/trezcool/idara/services/upload"
)

type (
	activityApi struct {
		svc       *activity.Service
		uploadSvc *uploadsvc.DiskService
	}

	listResponse struct {
		Success    bool                `json:"success"`
		Data       []activity.Record   `json:"data"`
		Pagination activity.Pagination `json:"pagination"`
	}

	dataResponse struct {
		Success bool            `json:"success"`
		Data    activity.Record `json:"data"`
	}

	successResponse struct {
		Success bool `json:"success"`
	}
)

// registerActivityAPI mounts the uniform CRUD surface for every record type
// in the registry: authed admin endpoints plus unauthenticated public read
// views over the same collections.
func registerActivityAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *activity.Service, uploadSvc *uploadsvc.DiskService) {
	api := activityApi{svc: svc, uploadSvc: uploadSvc}

	// authed endpoints; the session check always short-circuits before any
	// database access
	ag := g.Group("/admin/:resource", jwt, api.resolveDefinition)
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.PUT("", api.update)
	ag.DELETE("", api.destroy)
	ag.POST("/upload", api.upload)

	// public read views, implicitly filtered to published records
	pg := g.Group("/public/:resource", api.resolveDefinition)
	pg.GET("", api.queryPublic)
}

// resolveDefinition turns the :resource path segment into a Definition;
// unknown resources are a 404.
func (api *activityApi) resolveDefinition(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		def, err := api.svc.Definition(ctx.Param("resource"))
		if err != nil {
			return errHttpNotFound
		}
		ctx.Set("definition", def)
		return next(ctx)
	}
}

func contextDefinition(ctx echo.Context) activity.Definition {
	def, _ := ctx.Get("definition").(activity.Definition)
	return def
}

// Handlers

func (api *activityApi) query(ctx echo.Context) error {
	email, err := getContextEmail(ctx)
	if err != nil {
		return err
	}
	def := contextDefinition(ctx)

	filter, err := bindListFilter(ctx, def)
	if err != nil {
		return err
	}

	recs, pagination, err := api.svc.List(ctx.Request().Context(), def, email, filter)
	if err != nil {
		return errors.Wrap(err, "querying records")
	}
	return ctx.JSON(http.StatusOK, listResponse{Success: true, Data: recs, Pagination: pagination})
}

func (api *activityApi) queryPublic(ctx echo.Context) error {
	def := contextDefinition(ctx)

	filter, err := bindListFilter(ctx, def)
	if err != nil {
		return err
	}

	recs, pagination, err := api.svc.ListPublic(ctx.Request().Context(), def, filter)
	if err != nil {
		return errors.Wrap(err, "querying public records")
	}
	return ctx.JSON(http.StatusOK, listResponse{Success: true, Data: recs, Pagination: pagination})
}

func (api *activityApi) create(ctx echo.Context) error {
	email, err := getContextEmail(ctx)
	if err != nil {
		return err
	}
	def := contextDefinition(ctx)

	var data activity.Record
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding record")
	}
	if data == nil { // empty body binds to a nil map
		data = activity.Record{}
	}

	// asset tags come from the atomic sequence when the client leaves them
	// blank
	if def.Name == catalog.Assets().Name {
		if tag, _ := data["assetID"].(string); tag == "" {
			assetID, err := catalog.NextAssetID(ctx.Request().Context(), api.svc)
			if err != nil {
				return err
			}
			data["assetID"] = assetID
		}
	}

	rec, err := api.svc.Create(ctx.Request().Context(), def, email, data)
	if err != nil {
		return errors.Wrap(err, "creating record")
	}
	return ctx.JSON(http.StatusCreated, dataResponse{Success: true, Data: rec})
}

func (api *activityApi) update(ctx echo.Context) error {
	email, err := getContextEmail(ctx)
	if err != nil {
		return err
	}
	def := contextDefinition(ctx)

	id := core.CleanString(ctx.QueryParam("id"))
	if id == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "this field is required"})
	}

	var data activity.Record
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding record")
	}
	if data == nil {
		data = activity.Record{}
	}

	rec, err := api.svc.Update(ctx.Request().Context(), def, email, id, data)
	if err != nil {
		return errors.Wrap(err, "updating record")
	}
	return ctx.JSON(http.StatusOK, dataResponse{Success: true, Data: rec})
}

func (api *activityApi) destroy(ctx echo.Context) error {
	email, err := getContextEmail(ctx)
	if err != nil {
		return err
	}
	def := contextDefinition(ctx)

	id := core.CleanString(ctx.QueryParam("id"))
	if id == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "this field is required"})
	}

	if err = api.svc.Delete(ctx.Request().Context(), def, email, id); err != nil {
		return errors.Wrap(err, "deleting record")
	}
	if api.uploadSvc != nil {
		// uploads are keyed by record id; orphans go with the record
		_ = api.uploadSvc.Remove(id)
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: true})
}
