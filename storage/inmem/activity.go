package inmemdb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/idara/core"
	"github.com/trezcool/idara/core/activity"
	"github.com/trezcool/idara/core/form"
)

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) *activityRepository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) Find(ctx context.Context, def activity.Definition, filter activity.ListFilter) ([]activity.Record, int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	tbl := repo.db.lookup(def.Collection)
	matched := make([]activity.Record, 0, len(tbl.order))
	for _, id := range tbl.order {
		rec, ok := tbl.recs[id]
		if !ok {
			continue
		}
		if matches(def, filter, rec) {
			matched = append(matched, rec.Clone())
		}
	}

	sortRecords(matched, def.Sort())
	total := int64(len(matched))

	// paginate; an out-of-range page yields an empty slice, not an error
	start := filter.Skip()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	page := matched[start:end]

	repo.populate(def, page)
	return page, total, nil
}

func (repo *activityRepository) Get(ctx context.Context, def activity.Definition, id string) (activity.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rec, ok := repo.db.lookup(def.Collection).recs[id]; ok {
		return rec.Clone(), nil
	}
	return nil, core.ErrNotFound
}

func (repo *activityRepository) Create(ctx context.Context, def activity.Definition, rec activity.Record) (activity.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rec = rec.Clone()
	id := primitive.NewObjectID().Hex()
	rec[activity.KeyID] = id

	tbl := repo.db.table(def.Collection)
	tbl.recs[id] = rec
	tbl.order = append(tbl.order, id)
	return rec.Clone(), nil
}

func (repo *activityRepository) Update(ctx context.Context, def activity.Definition, id string, rec activity.Record) (activity.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	tbl := repo.db.table(def.Collection)
	existing, ok := tbl.recs[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	updated := existing.Clone()
	for k, v := range rec {
		updated[k] = v
	}
	updated[activity.KeyID] = id
	tbl.recs[id] = updated
	return updated.Clone(), nil
}

func (repo *activityRepository) Delete(ctx context.Context, def activity.Definition, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	tbl := repo.db.table(def.Collection)
	if _, ok := tbl.recs[id]; !ok {
		return core.ErrNotFound
	}
	delete(tbl.recs, id)
	for i, oid := range tbl.order {
		if oid == id {
			tbl.order = append(tbl.order[:i], tbl.order[i+1:]...)
			break
		}
	}
	return nil
}

func (repo *activityRepository) NextSequence(ctx context.Context, name string) (int64, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.sequences[name]++
	return repo.db.sequences[name], nil
}

// matches mirrors the mongo filter: owner scope AND published scope AND
// free-text OR-match across search fields AND each per-field filter.
func matches(def activity.Definition, filter activity.ListFilter, rec activity.Record) bool {
	if filter.CreatedBy != "" && rec.CreatedBy() != filter.CreatedBy {
		return false
	}
	if filter.PublishedOnly && !rec.Published() {
		return false
	}
	if filter.Query != "" {
		var hit bool
		for _, fld := range def.SearchFields {
			if containsFold(fieldString(rec, fld), filter.Query) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for fld, want := range filter.Fields {
		if !containsFold(fieldString(rec, fld), want) {
			return false
		}
	}
	return true
}

func fieldString(rec activity.Record, name string) string {
	val, ok := form.Get(rec, name)
	if !ok || val == nil {
		return ""
	}
	return fmt.Sprint(val)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortRecords(recs []activity.Record, ordering []activity.SortField) {
	sort.SliceStable(recs, func(i, j int) bool {
		for _, ord := range ordering {
			a := fieldString(recs[i], ord.Field)
			b := fieldString(recs[j], ord.Field)
			if a == b {
				continue
			}
			if ord.Ascending {
				return a < b
			}
			return a > b
		}
		return false
	})
}

// populate substitutes referenced documents for the ids referenced fields
// hold, looking them up in the rule's collection.
func (repo *activityRepository) populate(def activity.Definition, recs []activity.Record) {
	for _, rule := range def.PopulateFields {
		refs := repo.db.lookup(rule.Collection).recs
		for _, rec := range recs {
			id, ok := rec[rule.Field].(string)
			if !ok || id == "" {
				continue
			}
			if ref, ok := refs[id]; ok {
				rec[rule.Field] = ref.Clone()
			}
		}
	}
}
