package client

import (
	"fmt"

	"github.com/trezcool/idara/core/activity"
	"github.com/trezcool/idara/core/form"
)

// Column describes one table column: a dotted record key plus an optional
// renderer. Without a renderer the raw field value is shown.
type Column struct {
	Key    string
	Label  string
	Render func(rec activity.Record) string
}

// Cell resolves the column's display value for one record.
func (c Column) Cell(rec activity.Record) string {
	if c.Render != nil {
		return c.Render(rec)
	}
	val, ok := form.Get(rec, c.Key)
	if !ok || val == nil {
		return ""
	}
	return fmt.Sprint(val)
}
