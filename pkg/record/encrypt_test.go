package record

import (
	"reflect"
	"testing"
)

func sampleRecord() Record {
	return Record{
		"name":     "alice",
		"category": "tutoring",
		"price": map[string]interface{}{
			"amount":   25.0,
			"currency": "EUR",
		},
	}
}

func TestMarkFieldsTopLevel(t *testing.T) {
	rec := sampleRecord()
	out := MarkFields(rec, []string{"name"})

	want := map[string]interface{}{AllotMarker: "alice"}
	if !reflect.DeepEqual(out["name"], want) {
		t.Errorf("expected wrapped value %v, got %v", want, out["name"])
	}
	if out["category"] != "tutoring" {
		t.Errorf("unmarked field changed: %v", out["category"])
	}
	// Source record must be untouched.
	if rec["name"] != "alice" {
		t.Errorf("input record mutated: %v", rec["name"])
	}
}

func TestMarkFieldsNested(t *testing.T) {
	rec := sampleRecord()
	out := MarkFields(rec, []string{"price.amount"})

	price, ok := out["price"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected nested map, got %T", out["price"])
	}
	want := map[string]interface{}{AllotMarker: 25.0}
	if !reflect.DeepEqual(price["amount"], want) {
		t.Errorf("expected wrapped nested value %v, got %v", want, price["amount"])
	}
	if price["currency"] != "EUR" {
		t.Errorf("sibling field changed: %v", price["currency"])
	}

	// The parent map must be a copy, not the input's map.
	orig := rec["price"].(map[string]interface{})
	if orig["amount"] != 25.0 {
		t.Errorf("input nested map mutated: %v", orig["amount"])
	}
	if reflect.ValueOf(out["price"]).Pointer() == reflect.ValueOf(rec["price"]).Pointer() {
		t.Errorf("expected parent map to be shallow-copied")
	}
}

func TestMarkFieldsAbsentPath(t *testing.T) {
	rec := sampleRecord()
	out := MarkFields(rec, []string{"missing", "price.missing", "missing.child"})
	if !reflect.DeepEqual(out, rec) {
		t.Errorf("absent paths must leave the record unchanged: %v", out)
	}
	if _, ok := out["missing"]; ok {
		t.Errorf("no key may be inserted for an absent path")
	}
}

// Double application is an unguarded edge case: marking the same path twice
// wraps the wrapper. This test documents the behavior rather than fixing it.
func TestMarkFieldsDoubleApplication(t *testing.T) {
	rec := sampleRecord()
	once := MarkFields(rec, []string{"name"})
	twice := MarkFields(once, []string{"name"})

	outer, ok := twice["name"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected wrapper, got %T", twice["name"])
	}
	inner, ok := outer[AllotMarker].(map[string]interface{})
	if !ok {
		t.Fatalf("expected wrapped wrapper, got %T", outer[AllotMarker])
	}
	if inner[AllotMarker] != "alice" {
		t.Errorf("expected doubly wrapped value, got %v", inner[AllotMarker])
	}
}

func TestMarkFieldsEmptyPaths(t *testing.T) {
	rec := sampleRecord()
	out := MarkFields(rec, nil)
	if !reflect.DeepEqual(out, rec) {
		t.Errorf("no paths must mean no changes")
	}
}
