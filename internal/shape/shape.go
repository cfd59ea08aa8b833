// Package shape classifies the heterogeneous values found in an extraction
// record so rendering and export code can dispatch on structure instead of
// duck-typing at every call site.
package shape

import (
	"sort"
	"strconv"
	"strings"
)

type Kind string

const (
	Absent     Kind = "absent"
	Scalar     Kind = "scalar"
	ScalarList Kind = "scalar_list"
	ObjectList Kind = "object_list"
	Object     Kind = "object"
	MixedList  Kind = "mixed_list"
)

// Classify reports the structural kind of a decoded JSON value.
func Classify(v any) Kind {
	switch t := v.(type) {
	case nil:
		return Absent
	case map[string]any:
		return Object
	case []any:
		if len(t) == 0 {
			return ScalarList
		}
		objects, scalars := 0, 0
		for _, item := range t {
			if _, ok := item.(map[string]any); ok {
				objects++
			} else {
				scalars++
			}
		}
		switch {
		case objects == len(t):
			return ObjectList
		case scalars == len(t):
			return ScalarList
		default:
			return MixedList
		}
	default:
		return Scalar
	}
}

// GetByPath walks a dot-separated path through nested maps and lists.
// List elements are addressed by decimal index ("steps.2.name"). A missing
// or mistyped segment yields nil rather than an error.
func GetByPath(root map[string]any, path string) any {
	if path == "" {
		return nil
	}
	var cur any = root
	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return nil
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			cur = node[idx]
		default:
			return nil
		}
	}
	return cur
}

// Flatten expands a record into dotted-path/value pairs in depth-first key
// order, with list elements indexed. Scalars end a path; empty containers
// are emitted as their own path with a nil value.
func Flatten(root map[string]any) []PathValue {
	var out []PathValue
	flattenValue("", root, &out)
	return out
}

type PathValue struct {
	Path  string
	Value any
}

func flattenValue(prefix string, v any, out *[]PathValue) {
	switch node := v.(type) {
	case map[string]any:
		if len(node) == 0 {
			*out = append(*out, PathValue{Path: prefix, Value: nil})
			return
		}
		for _, k := range sortedKeys(node) {
			flattenValue(joinPath(prefix, k), node[k], out)
		}
	case []any:
		if len(node) == 0 {
			*out = append(*out, PathValue{Path: prefix, Value: nil})
			return
		}
		for i, item := range node {
			flattenValue(joinPath(prefix, strconv.Itoa(i)), item, out)
		}
	default:
		*out = append(*out, PathValue{Path: prefix, Value: node})
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
