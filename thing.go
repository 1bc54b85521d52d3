package td

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/wotkit/td/internal/jsonx"
)

// ContextV11 is the mandatory TD 1.1 context IRI.
const ContextV11 = "https://www.w3.org/2022/wot/td/v1.1"

// ContextEntry is one element of the @context sequence: either a bare IRI or
// a prefix-to-IRI mapping. Exactly one of the two is set.
type ContextEntry struct {
	IRI      string
	Prefixes map[string]string
}

// Context is the ordered @context sequence. Entries are preserved verbatim;
// no JSON-LD expansion is performed.
type Context []ContextEntry

// MarshalJSON writes a lone IRI entry as a bare string, anything else as an
// array of strings and prefix objects.
func (c Context) MarshalJSON() ([]byte, error) {
	if len(c) == 1 && c[0].IRI != "" {
		return json.Marshal(c[0].IRI)
	}
	elems := make([]any, 0, len(c))
	for _, e := range c {
		if e.IRI != "" {
			elems = append(elems, e.IRI)
			continue
		}
		elems = append(elems, e.Prefixes)
	}
	return json.Marshal(elems)
}

// UnmarshalJSON accepts a bare string or an array of strings and objects.
func (c *Context) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*c = Context{{IRI: one}}
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("td: @context must be a string or an array: %w", err)
	}
	out := make(Context, 0, len(elems))
	for i, raw := range elems {
		var iri string
		if err := json.Unmarshal(raw, &iri); err == nil {
			out = append(out, ContextEntry{IRI: iri})
			continue
		}
		var prefixes map[string]string
		if err := json.Unmarshal(raw, &prefixes); err != nil {
			return fmt.Errorf("td: @context entry %d is neither a string nor a prefix map", i)
		}
		out = append(out, ContextEntry{Prefixes: prefixes})
	}
	*c = out
	return nil
}

// Link relates the Thing to another resource.
type Link struct {
	Href   string `json:"href"`
	Type   string `json:"type,omitempty"`
	Rel    string `json:"rel,omitempty"`
	Anchor string `json:"anchor,omitempty"`
}

// VersionInfo carries the version of the TD instance and, optionally, of the
// underlying data model.
type VersionInfo struct {
	Instance string `json:"instance"`
	Model    string `json:"model,omitempty"`
}

// Thing is a validated Thing Description document. Instances returned by
// ThingBuilder.Build or Parse have passed validation and are meant to be
// treated as immutable; rebuild through a builder to produce a changed
// document.
type Thing struct {
	Context Context `json:"@context"`
	ID      string  `json:"id,omitempty"`
	AtType  Strings `json:"@type,omitempty"`

	Title        string        `json:"title"`
	Titles       MultiLanguage `json:"titles,omitempty"`
	Description  string        `json:"description,omitempty"`
	Descriptions MultiLanguage `json:"descriptions,omitempty"`

	Version  *VersionInfo `json:"version,omitempty"`
	Created  *time.Time   `json:"created,omitempty"`
	Modified *time.Time   `json:"modified,omitempty"`
	Support  string       `json:"support,omitempty"`
	Base     string       `json:"base,omitempty"`

	Properties map[string]*Property `json:"properties,omitempty"`
	Actions    map[string]*Action   `json:"actions,omitempty"`
	Events     map[string]*Event    `json:"events,omitempty"`

	Links []Link `json:"links,omitempty"`
	Forms []Form `json:"forms,omitempty"`

	Security            Strings                    `json:"security"`
	SecurityDefinitions map[string]*SecurityScheme `json:"securityDefinitions"`
	SchemaDefinitions   map[string]*DataSchema     `json:"schemaDefinitions,omitempty"`
	Profile             Strings                    `json:"profile,omitempty"`

	// Extra preserves extension fields across decode/encode.
	Extra map[string]json.RawMessage `json:"-"`
}

// Property returns the named property affordance, or nil.
func (t *Thing) Property(name string) *Property { return t.Properties[name] }

// Action returns the named action affordance, or nil.
func (t *Thing) Action(name string) *Action { return t.Actions[name] }

// Event returns the named event affordance, or nil.
func (t *Thing) Event(name string) *Event { return t.Events[name] }

// SecurityScheme resolves a security name reference against the definitions
// mapping. The boolean reports whether the name resolves.
func (t *Thing) SecurityScheme(name string) (*SecurityScheme, bool) {
	s, ok := t.SecurityDefinitions[name]
	return s, ok
}

// MarshalJSON merges extension fields with the vocabulary fields. Mandatory
// list and map fields keep their TD default shape when empty.
func (t Thing) MarshalJSON() ([]byte, error) {
	type alias Thing
	a := alias(t)
	if a.SecurityDefinitions == nil {
		a.SecurityDefinitions = map[string]*SecurityScheme{}
	}
	return jsonx.MarshalWithExtra(a, t.Extra)
}

// UnmarshalJSON keeps unknown keys in Extra.
func (t *Thing) UnmarshalJSON(data []byte) error {
	type alias Thing
	var a alias
	extra, err := jsonx.UnmarshalWithExtra(data, &a)
	if err != nil {
		return err
	}
	*t = Thing(a)
	t.Extra = extra
	return nil
}
