package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/idara/core/activity"
)

// fakeAPI serves a fixed data set through the list envelope and records the
// query parameters of every request it saw.
type fakeAPI struct {
	total    int64
	failNext bool
	requests []url.Values
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
			return
		}
		f.requests = append(f.requests, r.URL.Query())
		if f.failNext {
			f.failNext = false
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "boom"})
			return
		}

		page := atoiDefault(r.URL.Query().Get("page"), 1)
		limit := atoiDefault(r.URL.Query().Get("limit"), 10)
		pagination := activity.NewPagination(f.total, page, limit)

		count := int(f.total) - (page-1)*limit
		if count > limit {
			count = limit
		}
		if count < 0 {
			count = 0
		}
		data := make([]activity.Record, count)
		for i := range data {
			data[i] = activity.Record{"title": fmt.Sprintf("row %d", (page-1)*limit+i)}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true, "data": data, "pagination": pagination,
		})
	})
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func newTestView(t *testing.T, api *fakeAPI, limit int) *ListView {
	t.Helper()
	ts := httptest.NewServer(api.handler())
	t.Cleanup(ts.Close)
	return NewListView(New(ts.URL, "test-token"), "publications", limit)
}

func Test_ListView_lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("starts idle, shows data after a fetch", func(t *testing.T) {
		api := &fakeAPI{total: 15}
		lv := newTestView(t, api, 10)
		assert.Equal(t, StateIdle, lv.State())

		require.NoError(t, lv.Refresh(ctx))
		assert.Equal(t, StateShowingData, lv.State())
		assert.Len(t, lv.Result().Data, 10)
		assert.Equal(t, int64(15), lv.Result().Pagination.Total)
	})

	t.Run("empty result set is its own state", func(t *testing.T) {
		api := &fakeAPI{total: 0}
		lv := newTestView(t, api, 10)

		require.NoError(t, lv.Refresh(ctx))
		assert.Equal(t, StateEmpty, lv.State())
		assert.Empty(t, lv.Result().Data)
	})

	t.Run("server error lands in the error state and recovers on the next fetch", func(t *testing.T) {
		api := &fakeAPI{total: 5, failNext: true}
		lv := newTestView(t, api, 10)

		err := lv.Refresh(ctx)
		require.Error(t, err)
		assert.Equal(t, StateError, lv.State())
		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)

		require.NoError(t, lv.Refresh(ctx))
		assert.Equal(t, StateShowingData, lv.State())
		assert.NoError(t, lv.Err())
	})
}

func Test_ListView_paging(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{total: 15}
	lv := newTestView(t, api, 10)
	require.NoError(t, lv.Refresh(ctx))

	t.Run("page boundaries drive the controls", func(t *testing.T) {
		assert.False(t, lv.HasPrev())
		assert.True(t, lv.HasNext())
		assert.Equal(t, []int{1, 2}, lv.PageButtons())

		require.NoError(t, lv.GoToPage(ctx, 2))
		assert.True(t, lv.HasPrev())
		assert.False(t, lv.HasNext())
		assert.Len(t, lv.Result().Data, 5)
	})

	t.Run("filter changes reset to page 1", func(t *testing.T) {
		require.NoError(t, lv.GoToPage(ctx, 2))
		require.NoError(t, lv.SetFilter(ctx, "kind", "journal"))
		assert.Equal(t, 1, lv.CurrentQuery().Page)

		last := api.requests[len(api.requests)-1]
		assert.Equal(t, "1", last.Get("page"))
		assert.Equal(t, "journal", last.Get("kind"))
	})

	t.Run("search changes reset to page 1", func(t *testing.T) {
		require.NoError(t, lv.GoToPage(ctx, 2))
		require.NoError(t, lv.SetSearch(ctx, "scheduling"))
		assert.Equal(t, 1, lv.CurrentQuery().Page)

		last := api.requests[len(api.requests)-1]
		assert.Equal(t, "scheduling", last.Get("query"))
	})

	t.Run("limit changes reset to page 1", func(t *testing.T) {
		require.NoError(t, lv.GoToPage(ctx, 2))
		require.NoError(t, lv.SetLimit(ctx, 5))
		assert.Equal(t, 1, lv.CurrentQuery().Page)
		assert.Equal(t, []int{1, 2, 3}, lv.PageButtons())
	})

	t.Run("clearing a filter removes its parameter", func(t *testing.T) {
		require.NoError(t, lv.SetFilter(ctx, "kind", ""))
		last := api.requests[len(api.requests)-1]
		assert.Empty(t, last.Get("kind"))
	})
}

func Test_ListView_deleteRow(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{total: 1}
	lv := newTestView(t, api, 10)
	require.NoError(t, lv.Refresh(ctx))
	require.Equal(t, StateShowingData, lv.State())

	api.total = 0
	require.NoError(t, lv.DeleteRow(ctx, "abc123"))
	assert.Equal(t, StateEmpty, lv.State())
}
