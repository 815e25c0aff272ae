package client

import "context"

// State tracks a list view through its lifecycle: idle, then loading, then
// showing-data or empty (or error). Recovery from error happens only via a
// later successful fetch, there is no automatic retry.
type State string

const (
	StateIdle        State = "idle"
	StateLoading     State = "loading"
	StateShowingData State = "showing-data"
	StateEmpty       State = "empty"
	StateError       State = "error"
)

// ListView drives one resource's admin list: it owns the current Query and
// refetches whenever a filter, the page or the page size changes. Any
// filter change resets to page 1, since changing the result set size
// invalidates the old page position. One fetch is in flight at a time.
type ListView struct {
	client   *Client
	resource string

	state   State
	query   Query
	result  ListResult
	lastErr error
	busy    bool
}

func NewListView(c *Client, resource string, limit int) *ListView {
	if limit < 1 {
		limit = 10
	}
	return &ListView{
		client:   c,
		resource: resource,
		state:    StateIdle,
		query:    Query{Page: 1, Limit: limit, Filters: make(map[string]string)},
	}
}

func (lv *ListView) State() State        { return lv.state }
func (lv *ListView) Err() error          { return lv.lastErr }
func (lv *ListView) CurrentQuery() Query { return lv.query }
func (lv *ListView) Result() ListResult  { return lv.result }

// SetSearch updates the free-text search and refetches from page 1.
func (lv *ListView) SetSearch(ctx context.Context, search string) error {
	lv.query.Search = search
	lv.query.Page = 1
	return lv.fetch(ctx)
}

// SetFilter updates one structured filter and refetches from page 1; an
// empty value clears the filter.
func (lv *ListView) SetFilter(ctx context.Context, key, val string) error {
	if val == "" {
		delete(lv.query.Filters, key)
	} else {
		lv.query.Filters[key] = val
	}
	lv.query.Page = 1
	return lv.fetch(ctx)
}

// SetLimit changes the page size and refetches from page 1.
func (lv *ListView) SetLimit(ctx context.Context, limit int) error {
	if limit < 1 {
		limit = 10
	}
	lv.query.Limit = limit
	lv.query.Page = 1
	return lv.fetch(ctx)
}

// GoToPage moves to the given page and refetches; out-of-range pages are
// clamped by the server into an empty page with a valid envelope.
func (lv *ListView) GoToPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	lv.query.Page = page
	return lv.fetch(ctx)
}

// Refresh refetches with the current state; callers use it after a modal
// submit or a row delete.
func (lv *ListView) Refresh(ctx context.Context) error {
	return lv.fetch(ctx)
}

// DeleteRow deletes a record and refetches on success.
func (lv *ListView) DeleteRow(ctx context.Context, id string) error {
	if err := lv.client.Delete(ctx, lv.resource, id); err != nil {
		return err
	}
	return lv.fetch(ctx)
}

func (lv *ListView) fetch(ctx context.Context) error {
	if lv.busy {
		return nil // a fetch is already in flight
	}
	lv.busy = true
	lv.state = StateLoading
	defer func() { lv.busy = false }()

	result, err := lv.client.List(ctx, lv.resource, lv.query)
	if err != nil {
		lv.state = StateError
		lv.lastErr = err
		return err
	}
	lv.result = result
	lv.lastErr = nil
	if len(result.Data) == 0 {
		lv.state = StateEmpty
	} else {
		lv.state = StateShowingData
	}
	return nil
}

// HasPrev reports whether a previous page exists; the control is disabled
// at the boundary.
func (lv *ListView) HasPrev() bool {
	return lv.query.Page > 1
}

// HasNext reports whether a next page exists.
func (lv *ListView) HasNext() bool {
	return lv.query.Page < lv.result.Pagination.Pages
}

// PageButtons computes the page-number buttons from the server-reported
// pages count.
func (lv *ListView) PageButtons() []int {
	pages := lv.result.Pagination.Pages
	btns := make([]int, 0, pages)
	for i := 1; i <= pages; i++ {
		btns = append(btns, i)
	}
	return btns
}
