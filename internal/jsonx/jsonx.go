// Package jsonx implements the lossless object plumbing used by the td JSON
// boundary: typed structs carry the vocabulary fields, while unknown keys are
// split off on decode and merged back on encode.
package jsonx

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
)

// UnmarshalWithExtra decodes data into typed and returns every top-level key
// that does not map to one of typed's json-tagged fields. typed must be a
// non-nil pointer to a struct.
func UnmarshalWithExtra(data []byte, typed any) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, typed); err != nil {
		return nil, err
	}
	known := knownSet(typed)
	var extra map[string]json.RawMessage
	for k, v := range raw {
		if _, ok := known[k]; ok {
			continue
		}
		if extra == nil {
			extra = map[string]json.RawMessage{}
		}
		extra[k] = v
	}
	return extra, nil
}

// MarshalWithExtra merges extra keys with the typed view such that typed
// fields win.
func MarshalWithExtra(typed any, extra map[string]json.RawMessage) ([]byte, error) {
	out := map[string]json.RawMessage{}
	for k, v := range extra {
		out[k] = v
	}
	knownBytes, err := json.Marshal(typed)
	if err != nil {
		return nil, err
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(knownBytes, &known); err != nil {
		return nil, err
	}
	for k, v := range known {
		out[k] = v
	}
	return json.Marshal(out)
}

// MergeObjects merges two encoded JSON objects; keys from b win.
func MergeObjects(a, b []byte) ([]byte, error) {
	var ma, mb map[string]json.RawMessage
	if err := json.Unmarshal(a, &ma); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &mb); err != nil {
		return nil, err
	}
	if ma == nil {
		ma = map[string]json.RawMessage{}
	}
	for k, v := range mb {
		ma[k] = v
	}
	return json.Marshal(ma)
}

// ObjectKeys returns the top-level keys of an encoded JSON object in input
// order. It is used to retain documentation order for schema properties.
func ObjectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("jsonx: not an object")
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("jsonx: unexpected token %v", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// skipValue consumes a single value, descending through containers.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
		level := 1
		for level > 0 {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := tok.(json.Delim); ok {
				switch d {
				case '{', '[':
					level++
				case '}', ']':
					level--
				}
			}
		}
	}
	return nil
}

// ExtraFrom projects a typed view into loose extension keys.
func ExtraFrom(typed any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(typed)
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtraInto decodes loose extension keys into a typed view.
func ExtraInto(extra map[string]json.RawMessage, typed any) error {
	if len(extra) == 0 {
		return nil
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, typed)
}

// knownSet collects the wire names of typed's fields, descending into
// anonymous embedded structs the way encoding/json flattens them.
func knownSet(typed any) map[string]struct{} {
	out := map[string]struct{}{}
	t := reflect.TypeOf(typed)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	collectKeys(t, out)
	return out
}

func collectKeys(t reflect.Type, out map[string]struct{}) {
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			// Embedded structs are flattened; their exported fields are
			// promoted even when the embedded type itself is unexported.
			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			collectKeys(ft, out)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out[name] = struct{}{}
	}
}
