package td

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
)

// Decode deserializes a Thing Description without validating it. Unknown
// fields at every level are preserved in the Extra maps.
func Decode(data []byte) (*Thing, error) {
	var t Thing
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("td: decode: %w", err)
	}
	return &t, nil
}

// Parse deserializes and validates a Thing Description: the byte-level
// equivalent of populating a builder and finalizing it. On validation
// failure it returns Issues.
func Parse(ctx context.Context, data []byte) (*Thing, error) {
	t, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Encode serializes the document, merging preserved extension fields back
// into their nodes.
func (t *Thing) Encode() ([]byte, error) {
	return json.Marshal(t)
}

// EncodeIndent serializes the document with indentation for human readers.
func (t *Thing) EncodeIndent(prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(t, prefix, indent)
}
