package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/idara/core/activity"
)

// fromBSON converts a decoded document into the domain Record shape:
// ObjectIDs become hex strings, bson containers become plain maps/slices
// and datetimes become time.Time.
func fromBSON(doc bson.M) activity.Record {
	rec := make(activity.Record, len(doc))
	for k, v := range doc {
		rec[k] = fromBSONValue(v)
	}
	return rec
}

func fromBSONValue(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.M:
		m := make(map[string]interface{}, len(val))
		for k, sub := range val {
			m[k] = fromBSONValue(sub)
		}
		return m
	case primitive.A:
		s := make([]interface{}, 0, len(val))
		for _, sub := range val {
			s = append(s, fromBSONValue(sub))
		}
		return s
	case int32:
		return int(val)
	default:
		return v
	}
}

// toBSON prepares a domain Record for storage; nested maps become bson.M so
// the driver encodes them as subdocuments.
func toBSON(rec activity.Record) bson.M {
	doc := make(bson.M, len(rec))
	for k, v := range rec {
		doc[k] = toBSONValue(v)
	}
	return doc
}

func toBSONValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(bson.M, len(val))
		for k, sub := range val {
			m[k] = toBSONValue(sub)
		}
		return m
	case activity.Record:
		m := make(bson.M, len(val))
		for k, sub := range val {
			m[k] = toBSONValue(sub)
		}
		return m
	case []interface{}:
		s := make(bson.A, 0, len(val))
		for _, sub := range val {
			s = append(s, toBSONValue(sub))
		}
		return s
	case time.Time:
		return primitive.NewDateTimeFromTime(val)
	default:
		return v
	}
}
