package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/idara/core"
	"github.com/trezcool/idara/core/activity"
)

type listQuery struct {
	Query string `query:"query"`
	Page  int    `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit int    `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
}

func (lq *listQuery) Validate() error {
	lq.Query = core.CleanString(lq.Query)
	return core.Validate.Struct(lq)
}

// bindListFilter assembles the ListFilter from the request: free-text
// query, pagination and any of the definition's search fields supplied as
// its own query parameter (a structured AND filter composing with query).
func bindListFilter(ctx echo.Context, def activity.Definition) (activity.ListFilter, error) {
	var lq listQuery
	if err := ctx.Bind(&lq); err != nil {
		return activity.ListFilter{}, errors.Wrap(err, "binding list query")
	}
	if err := lq.Validate(); err != nil {
		return activity.ListFilter{}, err
	}

	filter := activity.ListFilter{
		Query: lq.Query,
		Page:  lq.Page,
		Limit: lq.Limit,
	}
	params := ctx.QueryParams()
	for _, fld := range def.SearchFields {
		if val := core.CleanString(params.Get(fld)); val != "" {
			if filter.Fields == nil {
				filter.Fields = make(map[string]string)
			}
			filter.Fields[fld] = val
		}
	}
	return filter, nil
}
