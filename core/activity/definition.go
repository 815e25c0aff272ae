package activity

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/idara/core"
	"github.com/trezcool/idara/core/form"
)

type (
	// SortField is one ordering criterion.
	SortField struct {
		Field     string
		Ascending bool
	}

	// PopulateRule substitutes a referenced document for the id a field
	// holds, read from another collection.
	PopulateRule struct {
		Field      string
		Collection string
	}

	// Definition wires one record type into the generic machinery: its
	// collection, editable fields, searchable fields, population rules and
	// default ordering. One Definition drives persistence, the REST
	// surface and the form engine alike.
	Definition struct {
		// Name is the resource segment in API paths.
		Name  string `validate:"required,resource"`
		Label string

		Collection string `validate:"required,resource"`

		Fields         []form.Field
		SearchFields   []string
		PopulateFields []PopulateRule
		// DefaultSort falls back to createdAt descending when empty.
		DefaultSort []SortField

		// Notify sends an email to the configured department list when a
		// record of this type is published.
		Notify bool
	}
)

// Sort returns the effective ordering.
func (def Definition) Sort() []SortField {
	if len(def.DefaultSort) > 0 {
		return def.DefaultSort
	}
	return []SortField{{Field: KeyCreatedAt, Ascending: false}}
}

// HasSearchField reports whether name is one of the definition's search
// fields; only those may be used as per-field filters.
func (def Definition) HasSearchField(name string) bool {
	for _, f := range def.SearchFields {
		if f == name {
			return true
		}
	}
	return false
}

// Check validates the definition and each of its field descriptors.
func (def Definition) Check() error {
	if def.Name == "" {
		return errors.New("definition name is required")
	}
	if def.Collection == "" {
		return errors.Errorf("definition %q: collection is required", def.Name)
	}
	if err := core.Validate.Struct(def); err != nil {
		return errors.Wrapf(err, "definition %q", def.Name)
	}
	seen := make(map[string]struct{}, len(def.Fields))
	for _, fld := range def.Fields {
		if err := fld.Check(); err != nil {
			return errors.Wrapf(err, "definition %q", def.Name)
		}
		if _, dup := seen[fld.Name]; dup {
			return errors.Errorf("definition %q: duplicate field %q", def.Name, fld.Name)
		}
		seen[fld.Name] = struct{}{}
	}
	return nil
}

// Registry holds the known record type definitions.
type Registry struct {
	defs map[string]Definition
}

func NewRegistry(defs ...Definition) (*Registry, error) {
	reg := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (reg *Registry) Register(def Definition) error {
	if err := def.Check(); err != nil {
		return errors.Wrap(err, "registering definition")
	}
	if _, exists := reg.defs[def.Name]; exists {
		return errors.Errorf("definition %q already registered", def.Name)
	}
	reg.defs[def.Name] = def
	return nil
}

func (reg *Registry) Get(name string) (Definition, bool) {
	def, ok := reg.defs[name]
	return def, ok
}

// All returns the definitions sorted by name.
func (reg *Registry) All() []Definition {
	all := make([]Definition, 0, len(reg.defs))
	for _, def := range reg.defs {
		all = append(all, def)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}
