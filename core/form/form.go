// Package form implements the schema-driven form engine: a declarative
// Field list drives defaulting, change coercion, validation and the
// construction of the nested submission payload.
package form

import (
	"github.com/trezcool/idara/core"
)

// Form holds the working copy of a record being created or edited.
// A Form is single-use: re-opening on a different record means building a
// fresh Form so no stale state survives a close/reopen.
type Form struct {
	fields []Field
	values map[string]interface{} // keyed by dotted field name
	errs   map[string]string
	id     string // set when editing an existing record
}

// New seeds a working copy from the field list and an optional existing
// record: each field pulls its current value from the record at the field's
// dotted path, else a kind-appropriate default.
func New(fields []Field, record map[string]interface{}) *Form {
	f := &Form{
		fields: fields,
		values: make(map[string]interface{}, len(fields)),
		errs:   make(map[string]string),
	}
	if record != nil {
		if id, ok := record["_id"].(string); ok {
			f.id = id
		}
	}
	for _, fld := range fields {
		if val, ok := Get(record, fld.Name); ok {
			f.values[fld.Name] = fld.Coerce(val)
		} else {
			f.values[fld.Name] = fld.Default()
		}
	}
	return f
}

// Set applies a change to the named field, coercing the raw value per the
// field's kind. Unknown names are ignored.
func (f *Form) Set(name string, raw interface{}) {
	for _, fld := range f.fields {
		if fld.Name == name {
			f.values[name] = fld.Coerce(raw)
			return
		}
	}
}

// Value returns the current working value for the named field.
func (f *Form) Value(name string) interface{} {
	return f.values[name]
}

// Validate checks every field and populates the per-field error map.
// Returns a core.ValidationError when anything fails; a failed validation
// must block submission, nothing reaches the network.
func (f *Form) Validate() error {
	f.errs = make(map[string]string)
	for _, fld := range f.fields {
		if msg := fld.validate(f.values[fld.Name]); msg != "" {
			f.errs[fld.Name] = msg
		}
	}
	if len(f.errs) > 0 {
		flds := make([]core.FieldError, 0, len(f.errs))
		for _, fld := range f.fields { // keep field order stable
			if msg, ok := f.errs[fld.Name]; ok {
				flds = append(flds, core.FieldError{Field: fld.Name, Error: msg})
			}
		}
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// Errors returns the per-field error map from the last Validate call.
func (f *Form) Errors() map[string]string {
	return f.errs
}

// IsEdit reports whether the form targets an existing record.
func (f *Form) IsEdit() bool {
	return f.id != ""
}

// ID returns the target record's id when editing.
func (f *Form) ID() string {
	return f.id
}

// Payload expands the dotted working keys into a nested document mirroring
// the record's true shape; when editing, the record id rides along so the
// caller can route to the update path.
func (f *Form) Payload() map[string]interface{} {
	doc := Expand(f.values)
	if f.id != "" {
		doc["_id"] = f.id
	}
	return doc
}
