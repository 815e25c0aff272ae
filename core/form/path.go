package form

import "strings"

// Get resolves a dotted path (e.g. "warrantyPeriod.years") in a nested
// document. The second return reports whether the full path exists.
func Get(doc map[string]interface{}, path string) (interface{}, bool) {
	if doc == nil || path == "" {
		return nil, false
	}
	keys := strings.Split(path, ".")
	var cur interface{} = doc
	for _, key := range keys {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set writes a value at a dotted path, creating intermediate objects as
// needed. An intermediate that exists but is not an object is replaced.
func Set(doc map[string]interface{}, path string, val interface{}) {
	if doc == nil || path == "" {
		return
	}
	keys := strings.Split(path, ".")
	cur := doc
	for _, key := range keys[:len(keys)-1] {
		next, ok := cur[key].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			cur[key] = next
		}
		cur = next
	}
	cur[keys[len(keys)-1]] = val
}

// Expand turns a flat {dotted.key: value} map into a nested document
// mirroring the record's true shape.
func Expand(flat map[string]interface{}) map[string]interface{} {
	doc := make(map[string]interface{}, len(flat))
	for path, val := range flat {
		Set(doc, path, val)
	}
	return doc
}
