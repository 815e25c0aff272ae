package mongodb

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/idara/core"
	"github.com/trezcool/idara/core/activity"
)

const sequencesCollection = "sequences"

type activityRepository struct {
	db *mongo.Database
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *mongo.Database) *activityRepository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) coll(def activity.Definition) *mongo.Collection {
	return repo.db.Collection(def.Collection)
}

// buildFilter translates a ListFilter into a mongo query: scoping fields
// AND a case-insensitive OR-regex across the search fields for the free
// text query AND one regex per structured field filter.
func buildFilter(def activity.Definition, filter activity.ListFilter) bson.M {
	q := bson.M{}
	if filter.CreatedBy != "" {
		q[activity.KeyCreatedBy] = filter.CreatedBy
	}
	if filter.PublishedOnly {
		q[activity.KeyPublished] = true
	}
	if filter.Query != "" && len(def.SearchFields) > 0 {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
		or := make([]bson.M, 0, len(def.SearchFields))
		for _, fld := range def.SearchFields {
			or = append(or, bson.M{fld: rx})
		}
		q["$or"] = or
	}
	for fld, want := range filter.Fields {
		q[fld] = primitive.Regex{Pattern: regexp.QuoteMeta(want), Options: "i"}
	}
	return q
}

func buildSort(ordering []activity.SortField) bson.D {
	srt := make(bson.D, 0, len(ordering))
	for _, ord := range ordering {
		dir := -1
		if ord.Ascending {
			dir = 1
		}
		srt = append(srt, bson.E{Key: ord.Field, Value: dir})
	}
	return srt
}

func (repo *activityRepository) Find(ctx context.Context, def activity.Definition, filter activity.ListFilter) ([]activity.Record, int64, error) {
	q := buildFilter(def, filter)

	// total reflects the filtered count, not the full collection
	total, err := repo.coll(def).CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting records")
	}

	opts := options.Find().
		SetSort(buildSort(def.Sort())).
		SetSkip(int64(filter.Skip())).
		SetLimit(int64(filter.Limit))
	cur, err := repo.coll(def).Find(ctx, q, opts)
	if err != nil {
		return nil, 0, errors.Wrap(err, "querying records")
	}
	defer func() { _ = cur.Close(ctx) }()

	var recs []activity.Record
	for cur.Next(ctx) {
		var doc bson.M
		if err = cur.Decode(&doc); err != nil {
			return nil, 0, errors.Wrap(err, "decoding record")
		}
		recs = append(recs, fromBSON(doc))
	}
	if err = cur.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "iterating records")
	}

	if err = repo.populate(ctx, def, recs); err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func (repo *activityRepository) Get(ctx context.Context, def activity.Definition, id string) (activity.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, core.ErrNotFound
	}
	var doc bson.M
	if err = repo.coll(def).FindOne(ctx, bson.M{activity.KeyID: oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, core.ErrNotFound
		}
		return nil, errors.Wrap(err, "fetching record")
	}
	return fromBSON(doc), nil
}

func (repo *activityRepository) Create(ctx context.Context, def activity.Definition, rec activity.Record) (activity.Record, error) {
	doc := toBSON(rec)
	oid := primitive.NewObjectID()
	doc[activity.KeyID] = oid

	if _, err := repo.coll(def).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, core.ErrExists
		}
		return nil, errors.Wrap(err, "inserting record")
	}
	return repo.Get(ctx, def, oid.Hex())
}

func (repo *activityRepository) Update(ctx context.Context, def activity.Definition, id string, rec activity.Record) (activity.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, core.ErrNotFound
	}
	doc := toBSON(rec)
	delete(doc, activity.KeyID)

	res, err := repo.coll(def).UpdateOne(ctx, bson.M{activity.KeyID: oid}, bson.M{"$set": doc})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, core.ErrExists
		}
		return nil, errors.Wrap(err, "updating record")
	}
	if res.MatchedCount == 0 {
		return nil, core.ErrNotFound
	}
	return repo.Get(ctx, def, id)
}

func (repo *activityRepository) Delete(ctx context.Context, def activity.Definition, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return core.ErrNotFound
	}
	res, err := repo.coll(def).DeleteOne(ctx, bson.M{activity.KeyID: oid})
	if err != nil {
		return errors.Wrap(err, "deleting record")
	}
	if res.DeletedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}

// NextSequence atomically increments a named counter via an upserting
// findOneAndUpdate; two concurrent callers can never draw the same value.
func (repo *activityRepository) NextSequence(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var doc struct {
		Value int64 `bson:"value"`
	}
	err := repo.db.Collection(sequencesCollection).
		FindOneAndUpdate(ctx, bson.M{activity.KeyID: name}, bson.M{"$inc": bson.M{"value": 1}}, opts).
		Decode(&doc)
	if err != nil {
		return 0, errors.Wrap(err, "incrementing sequence")
	}
	return doc.Value, nil
}

// populate substitutes referenced documents for stored reference ids.
func (repo *activityRepository) populate(ctx context.Context, def activity.Definition, recs []activity.Record) error {
	for _, rule := range def.PopulateFields {
		ids := make([]primitive.ObjectID, 0, len(recs))
		for _, rec := range recs {
			if ref, ok := rec[rule.Field].(string); ok && ref != "" {
				if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
					ids = append(ids, oid)
				}
			}
		}
		if len(ids) == 0 {
			continue
		}

		cur, err := repo.db.Collection(rule.Collection).Find(ctx, bson.M{activity.KeyID: bson.M{"$in": ids}})
		if err != nil {
			return errors.Wrapf(err, "populating %s", rule.Field)
		}
		refs := make(map[string]activity.Record, len(ids))
		for cur.Next(ctx) {
			var doc bson.M
			if err = cur.Decode(&doc); err != nil {
				_ = cur.Close(ctx)
				return errors.Wrapf(err, "populating %s", rule.Field)
			}
			ref := fromBSON(doc)
			refs[ref.ID()] = ref
		}
		if err = cur.Err(); err != nil {
			_ = cur.Close(ctx)
			return errors.Wrapf(err, "populating %s", rule.Field)
		}
		_ = cur.Close(ctx)

		for _, rec := range recs {
			if id, ok := rec[rule.Field].(string); ok {
				if ref, found := refs[id]; found {
					rec[rule.Field] = ref
				}
			}
		}
	}
	return nil
}
