package td

import (
	"sort"

	json "github.com/goccy/go-json"

	"github.com/wotkit/td/internal/jsonx"
)

// DataSchema type tags.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// DataSchema describes the shape of an affordance payload. It is a recursive
// value type tagged by Type; an empty Type is allowed for schemas carrying
// only enum/const/oneOf. The zero value is the fully unconstrained schema.
type DataSchema struct {
	AtType       Strings       `json:"@type,omitempty"`
	Title        string        `json:"title,omitempty"`
	Titles       MultiLanguage `json:"titles,omitempty"`
	Description  string        `json:"description,omitempty"`
	Descriptions MultiLanguage `json:"descriptions,omitempty"`

	Type      string `json:"type,omitempty"`
	Const     any    `json:"const,omitempty"`
	Default   any    `json:"default,omitempty"`
	Enum      []any  `json:"enum,omitempty"`
	Unit      string `json:"unit,omitempty"`
	Format    string `json:"format,omitempty"`
	ReadOnly  bool   `json:"readOnly,omitempty"`
	WriteOnly bool   `json:"writeOnly,omitempty"`

	OneOf []*DataSchema `json:"oneOf,omitempty"`

	// number / integer
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	// string
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// array
	Items    *DataSchema `json:"items,omitempty"`
	MinItems *int        `json:"minItems,omitempty"`
	MaxItems *int        `json:"maxItems,omitempty"`

	// object
	Properties map[string]*DataSchema `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`

	// Extra preserves extension fields across decode/encode.
	Extra map[string]json.RawMessage `json:"-"`

	propOrder []string
}

// Object returns a new object schema.
func Object() *DataSchema { return &DataSchema{Type: TypeObject} }

// Array returns a new array schema with the given item shape.
func Array(items *DataSchema) *DataSchema { return &DataSchema{Type: TypeArray, Items: items} }

// String returns a new string schema.
func String() *DataSchema { return &DataSchema{Type: TypeString} }

// Number returns a new number schema.
func Number() *DataSchema { return &DataSchema{Type: TypeNumber} }

// Integer returns a new integer schema.
func Integer() *DataSchema { return &DataSchema{Type: TypeInteger} }

// Boolean returns a new boolean schema.
func Boolean() *DataSchema { return &DataSchema{Type: TypeBoolean} }

// Null returns a new null schema.
func Null() *DataSchema { return &DataSchema{Type: TypeNull} }

// WithProperty registers a nested property schema, preserving registration
// order, and optionally marks it required. Re-registration overwrites.
func (d *DataSchema) WithProperty(name string, s *DataSchema, required bool) *DataSchema {
	if d.Properties == nil {
		d.Properties = map[string]*DataSchema{}
	}
	if _, seen := d.Properties[name]; !seen {
		d.propOrder = append(d.propOrder, name)
	}
	d.Properties[name] = s
	if required && !containsString(d.Required, name) {
		d.Required = append(d.Required, name)
	}
	return d
}

// WithEnum sets the allowed values.
func (d *DataSchema) WithEnum(values ...any) *DataSchema {
	d.Enum = values
	return d
}

// WithConst fixes the schema to a single value.
func (d *DataSchema) WithConst(v any) *DataSchema {
	d.Const = v
	return d
}

// WithFormat sets the format annotation.
func (d *DataSchema) WithFormat(format string) *DataSchema {
	d.Format = format
	return d
}

// WithUnit sets the unit annotation.
func (d *DataSchema) WithUnit(unit string) *DataSchema {
	d.Unit = unit
	return d
}

// WithRange sets inclusive numeric bounds.
func (d *DataSchema) WithRange(min, max float64) *DataSchema {
	d.Minimum = &min
	d.Maximum = &max
	return d
}

// SetReadOnly marks the schema read-only.
func (d *DataSchema) SetReadOnly() *DataSchema {
	d.ReadOnly = true
	return d
}

// SetWriteOnly marks the schema write-only.
func (d *DataSchema) SetWriteOnly() *DataSchema {
	d.WriteOnly = true
	return d
}

// PropertyOrder returns the property names in documentation order: the order
// they were registered via the builder, or the order they appeared in the
// decoded document. Names added directly to the Properties map come last,
// sorted.
func (d *DataSchema) PropertyOrder() []string {
	out := make([]string, 0, len(d.Properties))
	seen := map[string]bool{}
	for _, name := range d.propOrder {
		if _, ok := d.Properties[name]; ok && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range d.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// MarshalJSON merges extension fields with the vocabulary fields.
func (d DataSchema) MarshalJSON() ([]byte, error) {
	type alias DataSchema
	return jsonx.MarshalWithExtra(alias(d), d.Extra)
}

// UnmarshalJSON keeps unknown keys in Extra and records property order.
func (d *DataSchema) UnmarshalJSON(data []byte) error {
	type alias DataSchema
	var a alias
	extra, err := jsonx.UnmarshalWithExtra(data, &a)
	if err != nil {
		return err
	}
	*d = DataSchema(a)
	d.Extra = extra

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err == nil {
		if props, ok := raw["properties"]; ok {
			if keys, err := jsonx.ObjectKeys(props); err == nil {
				d.propOrder = keys
			}
		}
	}
	return nil
}

func containsString(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}
