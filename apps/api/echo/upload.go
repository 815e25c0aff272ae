package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/idara/core"
	uploadsvc "github.com/trezcool/idara/services/upload"
)

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// upload attaches a file to an owned record: the ownership check runs
// before anything touches disk, and the stored file lands in a directory
// keyed by the record id.
func (api *activityApi) upload(ctx echo.Context) error {
	email, err := getContextEmail(ctx)
	if err != nil {
		return err
	}
	def := contextDefinition(ctx)

	id := core.CleanString(ctx.QueryParam("id"))
	if id == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "this field is required"})
	}
	if _, err = api.svc.Get(ctx.Request().Context(), def, email, id); err != nil {
		return err
	}

	fileHdr, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file is required"})
	}
	src, err := fileHdr.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer func() { _ = src.Close() }()

	url, err := api.uploadSvc.Save(id, fileHdr.Filename, fileHdr.Size, src)
	if err != nil {
		switch errors.Cause(err) {
		case uploadsvc.ErrTooLarge, uploadsvc.ErrBadFileType:
			return core.NewValidationError(nil, core.FieldError{Field: "file", Error: err.Error()})
		}
		return errors.Wrap(err, "storing upload")
	}
	return ctx.JSON(http.StatusCreated, uploadResponse{Success: true, URL: url})
}
