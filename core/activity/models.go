package activity

import (
	"math"

	"github.com/trezcool/idara/core"
)

// Reserved document keys present on every record regardless of type.
const (
	KeyID        = "_id"
	KeyCreatedBy = "createdBy"
	KeyPublished = "published"
	KeyCreatedAt = "createdAt"
	KeyUpdatedAt = "updatedAt"
)

// Record is one document in a collection. Records are schema-driven: their
// domain attributes are enumerated by the owning Definition's field list,
// so the representation stays a generic document rather than a per-type
// struct.
type Record map[string]interface{}

func (r Record) ID() string {
	id, _ := r[KeyID].(string)
	return id
}

// CreatedBy is the owner's email, stamped once at creation and used as the
// authorization filter on update and delete. Never user-editable.
func (r Record) CreatedBy() string {
	email, _ := r[KeyCreatedBy].(string)
	return email
}

// Published gates visibility on public pages; defaults to false.
func (r Record) Published() bool {
	pub, _ := r[KeyPublished].(bool)
	return pub
}

// Clone returns a shallow copy; nested values are shared.
func (r Record) Clone() Record {
	cp := make(Record, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ListFilter captures one list request: owner scoping, free-text search,
// per-field filters and pagination, as a single cohesive value.
type ListFilter struct {
	// CreatedBy scopes results to one owner; empty means no owner scoping
	// (public reads).
	CreatedBy string
	// PublishedOnly restricts to published records (public reads).
	PublishedOnly bool
	// Query is OR-matched (case-insensitive) across the definition's
	// search fields.
	Query string
	// Fields holds per-field filters, each AND-matched case-insensitively;
	// they compose with Query.
	Fields map[string]string

	Page  int
	Limit int
}

func (f *ListFilter) Clean() {
	f.Query = core.CleanString(f.Query)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	} else if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
}

func (f ListFilter) Skip() int {
	return (f.Page - 1) * f.Limit
}

// Pagination is the envelope accompanying every list response.
// Pages is always ceil(Total/Limit); an out-of-range page yields an empty
// data array but a valid envelope.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	var pages int
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}
