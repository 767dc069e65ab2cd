package record

import "strings"

// AllotMarker is the one-key wrapper recognized by the vault client as
// "secret-share this value instead of storing plaintext". No cryptography
// happens locally; marking is purely a data transformation.
const AllotMarker = "%allot"

// MarkFields returns a shallow copy of rec where each named field's value v
// is replaced by the wrapper {AllotMarker: v}. Paths use a single dot for
// one level of nesting ("parent.child"); the parent map is shallow-copied
// before its child is wrapped. Paths absent from rec are skipped.
//
// Marking is not guarded against double application: marking the same path
// twice wraps the already-wrapped value. Callers must mark each field at
// most once.
func MarkFields(rec Record, paths []string) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	for _, path := range paths {
		if parent, child, ok := strings.Cut(path, "."); ok {
			nested, found := out[parent].(map[string]interface{})
			if !found {
				continue
			}
			inner, found := nested[child]
			if !found {
				continue
			}
			copied := make(map[string]interface{}, len(nested))
			for k, v := range nested {
				copied[k] = v
			}
			copied[child] = map[string]interface{}{AllotMarker: inner}
			out[parent] = copied
			continue
		}
		v, found := out[path]
		if !found {
			continue
		}
		out[path] = map[string]interface{}{AllotMarker: v}
	}
	return out
}
