package jsonx

import (
	"reflect"
	"testing"

	json "github.com/goccy/go-json"
)

type inner struct {
	Kind string `json:"kind,omitempty"`
}

type outer struct {
	inner
	Href   string `json:"href"`
	Weight int    `json:"weight,omitempty"`
	Hidden string `json:"-"`
}

func TestUnmarshalWithExtra(t *testing.T) {
	data := []byte(`{"href":"/x","kind":"a","weight":2,"x:custom":true,"cov:method":"GET"}`)
	var o outer
	extra, err := UnmarshalWithExtra(data, &o)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if o.Href != "/x" || o.Kind != "a" || o.Weight != 2 {
		t.Fatalf("typed fields not decoded: %+v", o)
	}
	if len(extra) != 2 {
		t.Fatalf("expected two unknown keys, got %v", extra)
	}
	if _, ok := extra["x:custom"]; !ok {
		t.Fatalf("missing x:custom in %v", extra)
	}
	// Embedded-struct fields count as known.
	if _, ok := extra["kind"]; ok {
		t.Fatalf("kind must not be treated as unknown")
	}
}

func TestUnmarshalWithExtra_NoUnknownKeys(t *testing.T) {
	var o outer
	extra, err := UnmarshalWithExtra([]byte(`{"href":"/x"}`), &o)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if extra != nil {
		t.Fatalf("expected nil extra, got %v", extra)
	}
}

func TestMarshalWithExtra_TypedFieldsWin(t *testing.T) {
	o := outer{Href: "/typed"}
	extra := map[string]json.RawMessage{
		"href":     json.RawMessage(`"/stale"`),
		"x:custom": json.RawMessage(`true`),
	}
	out, err := MarshalWithExtra(o, extra)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if m["href"] != "/typed" {
		t.Fatalf("typed field must win, got %v", m["href"])
	}
	if m["x:custom"] != true {
		t.Fatalf("extension dropped: %v", m)
	}
}

func TestMergeObjects(t *testing.T) {
	out, err := MergeObjects([]byte(`{"a":1,"b":1}`), []byte(`{"b":2,"c":3}`))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	var m map[string]float64
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	want := map[string]float64{"a": 1, "b": 2, "c": 3}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("got %v, want %v", m, want)
	}
}

func TestObjectKeys_PreservesInputOrder(t *testing.T) {
	data := []byte(`{"zebra":{"deep":[1,{"x":2}]},"alpha":[true,null],"mid":"s"}`)
	keys, err := ObjectKeys(data)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := []string{"zebra", "alpha", "mid"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
}

func TestObjectKeys_RejectsNonObjects(t *testing.T) {
	if _, err := ObjectKeys([]byte(`[1,2]`)); err == nil {
		t.Fatalf("expected error for array input")
	}
	if _, err := ObjectKeys([]byte(`"s"`)); err == nil {
		t.Fatalf("expected error for scalar input")
	}
}

func TestExtraRoundTrip(t *testing.T) {
	type view struct {
		Method string `json:"cov:method,omitempty"`
		Hop    *uint8 `json:"cov:hopLimit,omitempty"`
	}
	hop := uint8(5)
	extra, err := ExtraFrom(view{Method: "FETCH", Hop: &hop})
	if err != nil {
		t.Fatalf("from: %v", err)
	}
	var back view
	if err := ExtraInto(extra, &back); err != nil {
		t.Fatalf("into: %v", err)
	}
	if back.Method != "FETCH" || back.Hop == nil || *back.Hop != 5 {
		t.Fatalf("round trip lost data: %+v", back)
	}

	var empty view
	if err := ExtraInto(nil, &empty); err != nil {
		t.Fatalf("nil extra: %v", err)
	}
	if empty.Method != "" {
		t.Fatalf("nil extra must leave the view zero: %+v", empty)
	}
}
