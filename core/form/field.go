package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind enumerates the supported input kinds. Adding a kind requires handling
// it in Default, Coerce and validate; the exhaustive switches below fail loud
// on an unknown kind instead of falling through silently.
type Kind string

const (
	Text     Kind = "text"
	Textarea Kind = "textarea"
	Number   Kind = "number"
	Date     Kind = "date"
	Select   Kind = "select"
	Checkbox Kind = "checkbox"
	File     Kind = "file"
	Array    Kind = "array"
)

var kinds = map[Kind]struct{}{
	Text: {}, Textarea: {}, Number: {}, Date: {}, Select: {}, Checkbox: {}, File: {}, Array: {},
}

func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// ArrayConfig configures an Array field's repeatable sub-records,
// e.g. a list of {name, institute} author entries.
type ArrayConfig struct {
	// InitialItem is the template a new sub-record starts from.
	InitialItem map[string]interface{}
	// ItemFields describe the editable attributes of one sub-record.
	ItemFields []Field
	MinItems   int
}

// Field describes one editable attribute of a record: its dotted key path,
// input kind, and constraints. It drives both rendering and persistence.
type Field struct {
	Name     string // dotted path into the record
	Label    string
	Kind     Kind
	Required bool

	Options []string // Select only

	Min  *float64 // Number only
	Max  *float64
	Step *float64

	ArrayConfig *ArrayConfig // Array only
}

// Default seeds a kind-appropriate zero value for a field absent from the
// record being edited.
func (f Field) Default() interface{} {
	switch f.Kind {
	case Checkbox:
		return false
	case Number:
		return float64(0)
	case Array:
		if f.ArrayConfig != nil && f.ArrayConfig.MinItems > 0 {
			items := make([]interface{}, 0, f.ArrayConfig.MinItems)
			for i := 0; i < f.ArrayConfig.MinItems; i++ {
				items = append(items, copyItem(f.ArrayConfig.InitialItem))
			}
			return items
		}
		return []interface{}{}
	default:
		return ""
	}
}

// Coerce converts a raw change value into the stored representation:
// checkboxes store bool, numbers store a parsed float64 or "" (never a
// NaN-as-string), everything else stores the raw string.
func (f Field) Coerce(raw interface{}) interface{} {
	switch f.Kind {
	case Checkbox:
		switch v := raw.(type) {
		case bool:
			return v
		case string:
			b, _ := strconv.ParseBool(v)
			return b
		default:
			return raw != nil
		}
	case Number:
		switch v := raw.(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return ""
			}
			return v
		case int:
			return float64(v)
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				return ""
			}
			n, err := strconv.ParseFloat(s, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return ""
			}
			return n
		default:
			return ""
		}
	case Array:
		if items, ok := raw.([]interface{}); ok {
			return items
		}
		return []interface{}{}
	default:
		if s, ok := raw.(string); ok {
			return s
		}
		if raw == nil {
			return ""
		}
		return fmt.Sprint(raw)
	}
}

// validate checks one resolved value against the field's constraints and
// returns a human message, or "" when the value passes.
func (f Field) validate(val interface{}) string {
	if isEmpty(val) {
		if f.Required {
			return f.Label + " is required"
		}
		return ""
	}

	switch f.Kind {
	case Number:
		n, ok := toFloat(val)
		if !ok {
			return f.Label + " must be a valid number"
		}
		if f.Min != nil && n < *f.Min {
			return fmt.Sprintf("%s must be at least %s", f.Label, formatBound(*f.Min))
		}
		if f.Max != nil && n > *f.Max {
			return fmt.Sprintf("%s must be at most %s", f.Label, formatBound(*f.Max))
		}
	case Select:
		if len(f.Options) > 0 {
			s := fmt.Sprint(val)
			for _, opt := range f.Options {
				if opt == s {
					return ""
				}
			}
			if closest := closestOption(s, f.Options); closest != "" {
				return fmt.Sprintf("%s must be one of the listed options (did you mean %q?)", f.Label, closest)
			}
			return f.Label + " must be one of the listed options"
		}
	case Array:
		items, ok := val.([]interface{})
		if !ok {
			return f.Label + " must be a list"
		}
		if f.ArrayConfig != nil && len(items) < f.ArrayConfig.MinItems {
			return fmt.Sprintf("%s requires at least %d item(s)", f.Label, f.ArrayConfig.MinItems)
		}
		if f.ArrayConfig != nil {
			for i, item := range items {
				sub, ok := item.(map[string]interface{})
				if !ok {
					return fmt.Sprintf("%s item %d is malformed", f.Label, i+1)
				}
				for _, itemFld := range f.ArrayConfig.ItemFields {
					v, _ := Get(sub, itemFld.Name)
					if msg := itemFld.validate(v); msg != "" {
						return fmt.Sprintf("%s item %d: %s", f.Label, i+1, msg)
					}
				}
			}
		}
	}
	return ""
}

// Check verifies the descriptor itself is well formed; definitions are
// checked once at registration time.
func (f Field) Check() error {
	if f.Name == "" {
		return errors.New("field name is required")
	}
	if !f.Kind.Valid() {
		return errors.Errorf("field %q: unknown kind %q", f.Name, f.Kind)
	}
	if f.Kind == Select && len(f.Options) == 0 {
		return errors.Errorf("field %q: select requires options", f.Name)
	}
	if f.Kind == Array && f.ArrayConfig == nil {
		return errors.Errorf("field %q: array requires arrayConfig", f.Name)
	}
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return errors.Errorf("field %q: min > max", f.Name)
	}
	return nil
}

func isEmpty(val interface{}) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

func toFloat(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil && !math.IsNaN(n) && !math.IsInf(n, 0)
	default:
		return 0, false
	}
}

func formatBound(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func copyItem(item map[string]interface{}) map[string]interface{} {
	cp := make(map[string]interface{}, len(item))
	for k, v := range item {
		cp[k] = v
	}
	return cp
}
