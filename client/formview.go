package client

import (
	"context"

	"github.com/trezcool/idara/core/activity"
	"github.com/trezcool/idara/core/form"
)

// SubmitFunc replaces the default POST/PUT submission, used when the
// endpoint needs something other than a JSON body (file attachments).
type SubmitFunc func(ctx context.Context, payload map[string]interface{}) (activity.Record, error)

// FormView drives one create/edit dialog: it owns the working Form and
// routes a validated submission to the right endpoint. Failed validation
// never reaches the network; a failed submission keeps the working copy so
// in-progress edits survive.
type FormView struct {
	client   *Client
	resource string
	form     *form.Form
	submit   SubmitFunc
}

// NewFormView opens a dialog. record is nil when creating; when editing,
// the form seeds from it and the submission routes to the update path.
func NewFormView(c *Client, resource string, fields []form.Field, record activity.Record) *FormView {
	return &FormView{
		client:   c,
		resource: resource,
		form:     form.New(fields, record),
	}
}

// OnSubmit installs a custom submission function.
func (fv *FormView) OnSubmit(fn SubmitFunc) {
	fv.submit = fn
}

// Form exposes the working copy for edits.
func (fv *FormView) Form() *form.Form {
	return fv.form
}

// Submit validates and, when clean, sends the expanded payload: POST when
// creating, PUT when editing. The validation error carries the per-field
// messages; the caller re-renders them inline.
func (fv *FormView) Submit(ctx context.Context) (activity.Record, error) {
	if err := fv.form.Validate(); err != nil {
		return nil, err
	}
	payload := fv.form.Payload()
	if fv.submit != nil {
		return fv.submit(ctx, payload)
	}
	if fv.form.IsEdit() {
		return fv.client.Update(ctx, fv.resource, fv.form.ID(), activity.Record(payload))
	}
	return fv.client.Create(ctx, fv.resource, activity.Record(payload))
}
