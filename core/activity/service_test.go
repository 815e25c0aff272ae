package activity_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/idara/core"
	"github.com/trezcool/idara/core/activity"
	"github.com/trezcool/idara/core/catalog"
	emailsvc "github.com/trezcool/idara/services/email"
	inmemdb "github.com/trezcool/idara/storage/inmem"
)

const (
	owner    = "adeka@dept.example.edu"
	intruder = "mallory@dept.example.edu"
)

func setup(t *testing.T) (*activity.Service, *inmemdb.DB) {
	t.Helper()
	registry, err := catalog.NewRegistry()
	require.NoError(t, err)
	db := inmemdb.NewDB()
	return activity.NewService(registry, inmemdb.NewActivityRepository(db), emailsvc.NewConsoleServiceMock()), db
}

func createRecord(t *testing.T, svc *activity.Service, def activity.Definition, email string, rec activity.Record) activity.Record {
	t.Helper()
	created, err := svc.Create(context.Background(), def, email, rec)
	require.NoError(t, err)
	return created
}

func Test_Service_Create(t *testing.T) {
	svc, _ := setup(t)
	def, err := svc.Definition("publications")
	require.NoError(t, err)

	t.Run("stamps ownership and defaults published to false", func(t *testing.T) {
		rec := createRecord(t, svc, def, owner, activity.Record{"title": "Sparse Graph Embeddings"})

		assert.NotEmpty(t, rec.ID())
		assert.Equal(t, owner, rec.CreatedBy())
		assert.False(t, rec.Published())
		assert.NotNil(t, rec[activity.KeyCreatedAt])
	})

	t.Run("explicit published is kept", func(t *testing.T) {
		rec := createRecord(t, svc, def, owner, activity.Record{"title": "Edge Scheduling", "published": true})
		assert.True(t, rec.Published())
	})

	t.Run("client-supplied ownership is ignored", func(t *testing.T) {
		rec := createRecord(t, svc, def, owner, activity.Record{"title": "x", "createdBy": intruder})
		assert.Equal(t, owner, rec.CreatedBy())
	})
}

func Test_Service_List(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	def, err := svc.Definition("publications")
	require.NoError(t, err)

	for i := 0; i < 15; i++ {
		createRecord(t, svc, def, owner, activity.Record{
			"title": fmt.Sprintf("Paper %02d", i),
			"venue": "IEEE TPDS",
			"kind":  "journal",
		})
	}
	createRecord(t, svc, def, intruder, activity.Record{"title": "Not yours", "venue": "NeurIPS"})

	t.Run("page 2 of 15 owned records", func(t *testing.T) {
		recs, pagination, err := svc.List(ctx, def, owner, activity.ListFilter{Page: 2, Limit: 10})
		require.NoError(t, err)

		assert.Len(t, recs, 5)
		assert.Equal(t, int64(15), pagination.Total)
		assert.Equal(t, 2, pagination.Pages)
		assert.Equal(t, 2, pagination.Page)
	})

	t.Run("out-of-range page yields empty data but a valid envelope", func(t *testing.T) {
		recs, pagination, err := svc.List(ctx, def, owner, activity.ListFilter{Page: 9, Limit: 10})
		require.NoError(t, err)

		assert.Empty(t, recs)
		assert.Equal(t, int64(15), pagination.Total)
		assert.Equal(t, 2, pagination.Pages)
	})

	t.Run("never leaks other owners' records", func(t *testing.T) {
		recs, pagination, err := svc.List(ctx, def, owner, activity.ListFilter{Query: "Not yours"})
		require.NoError(t, err)

		assert.Empty(t, recs)
		assert.Equal(t, int64(0), pagination.Total)
		assert.Equal(t, 0, pagination.Pages)
	})

	t.Run("free-text query matches across search fields", func(t *testing.T) {
		recs, pagination, err := svc.List(ctx, def, owner, activity.ListFilter{Query: "paper 03"})
		require.NoError(t, err)

		require.Len(t, recs, 1)
		assert.Equal(t, "Paper 03", recs[0]["title"])
		assert.Equal(t, int64(1), pagination.Total)
	})

	t.Run("structured field filter composes with query", func(t *testing.T) {
		recs, _, err := svc.List(ctx, def, owner, activity.ListFilter{
			Query:  "TPDS",
			Fields: map[string]string{"title": "Paper 1"},
		})
		require.NoError(t, err)
		assert.Len(t, recs, 5) // Paper 10..14
	})

	t.Run("zero-match filter is an empty result, not an error", func(t *testing.T) {
		recs, pagination, err := svc.List(ctx, def, owner, activity.ListFilter{
			Fields: map[string]string{"kind": "workshop"},
		})
		require.NoError(t, err)
		assert.Empty(t, recs)
		assert.Equal(t, int64(0), pagination.Total)
		assert.Equal(t, 0, pagination.Pages)
	})
}

func Test_Service_ListPublic(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	def, err := svc.Definition("announcements")
	require.NoError(t, err)

	createRecord(t, svc, def, owner, activity.Record{"title": "Admissions open", "body": "x", "category": "academic", "published": true})
	createRecord(t, svc, def, owner, activity.Record{"title": "Draft notice", "body": "x", "category": "academic"})

	recs, pagination, err := svc.ListPublic(ctx, def, activity.ListFilter{})
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, "Admissions open", recs[0]["title"])
	assert.Equal(t, int64(1), pagination.Total)

	t.Run("unpublished records stay hidden even when filters match", func(t *testing.T) {
		recs, _, err := svc.ListPublic(ctx, def, activity.ListFilter{Query: "Draft notice"})
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func Test_Service_Update(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	def, err := svc.Definition("patents")
	require.NoError(t, err)

	rec := createRecord(t, svc, def, owner, activity.Record{"title": "Sensor mesh", "status": "filed"})

	t.Run("owner can update", func(t *testing.T) {
		updated, err := svc.Update(ctx, def, owner, rec.ID(), activity.Record{"status": "granted"})
		require.NoError(t, err)
		assert.Equal(t, "granted", updated["status"])
		assert.Equal(t, owner, updated.CreatedBy())
	})

	t.Run("non-owner is rejected and the record is untouched", func(t *testing.T) {
		_, err := svc.Update(ctx, def, intruder, rec.ID(), activity.Record{"status": "expired"})
		assert.Equal(t, core.ErrNotOwner, errors.Cause(err))

		got, err := svc.Get(ctx, def, owner, rec.ID())
		require.NoError(t, err)
		assert.Equal(t, "granted", got["status"])
	})

	t.Run("ownership cannot be reassigned via the payload", func(t *testing.T) {
		updated, err := svc.Update(ctx, def, owner, rec.ID(), activity.Record{"createdBy": intruder, "title": "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, owner, updated.CreatedBy())
	})

	t.Run("missing record is rejected as not owned", func(t *testing.T) {
		_, err := svc.Update(ctx, def, owner, "ffffffffffffffffffffffff", activity.Record{"status": "filed"})
		assert.Equal(t, core.ErrNotOwner, errors.Cause(err))
	})
}

func Test_Service_Delete(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	def, err := svc.Definition("honours")
	require.NoError(t, err)

	rec := createRecord(t, svc, def, owner, activity.Record{"title": "Best Paper Award", "awardedBy": "ACM"})

	t.Run("non-owner is rejected", func(t *testing.T) {
		err := svc.Delete(ctx, def, intruder, rec.ID())
		assert.Equal(t, core.ErrNotOwner, errors.Cause(err))

		_, err = svc.Get(ctx, def, owner, rec.ID())
		assert.NoError(t, err)
	})

	t.Run("owner deletes permanently", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, def, owner, rec.ID()))

		_, err := svc.Get(ctx, def, owner, rec.ID())
		assert.Equal(t, core.ErrNotOwner, errors.Cause(err))
	})
}

func Test_Service_notifications(t *testing.T) {
	registry, err := catalog.NewRegistry()
	require.NoError(t, err)
	db := inmemdb.NewDB()
	mailSvc := emailsvc.NewConsoleServiceMock()
	svc := activity.NewService(registry, inmemdb.NewActivityRepository(db), mailSvc)

	origList := core.Conf.AnnounceList
	core.Conf.AnnounceList = []string{"everyone@dept.example.edu"}
	defer func() { core.Conf.AnnounceList = origList }()

	ctx := context.Background()
	def, err := svc.Definition("announcements")
	require.NoError(t, err)

	t.Run("creating an unpublished announcement stays quiet", func(t *testing.T) {
		_, err := svc.Create(ctx, def, owner, activity.Record{"title": "Draft", "body": "x", "category": "general"})
		require.NoError(t, err)
		assert.Empty(t, mailSvc.SentMessages())
	})

	t.Run("publishing notifies the department list", func(t *testing.T) {
		_, err := svc.Create(ctx, def, owner, activity.Record{"title": "Tech fest", "body": "x", "category": "event", "published": true})
		require.NoError(t, err)
		require.Len(t, mailSvc.SentMessages(), 1)
		assert.Contains(t, mailSvc.SentMessages()[0].Subject, "Announcement")

		// flipping published on an existing record notifies too
		draft, err := svc.Create(ctx, def, owner, activity.Record{"title": "Later", "body": "x", "category": "general"})
		require.NoError(t, err)
		_, err = svc.Update(ctx, def, owner, draft.ID(), activity.Record{"published": true})
		require.NoError(t, err)
		assert.Len(t, mailSvc.SentMessages(), 2)
	})
}

func Test_Service_sequences(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	first, err := catalog.NextAssetID(ctx, svc)
	require.NoError(t, err)
	second, err := catalog.NextAssetID(ctx, svc)
	require.NoError(t, err)

	assert.Regexp(t, `^AST-\d{4}-0001$`, first)
	assert.Regexp(t, `^AST-\d{4}-0002$`, second)
}
