package td

import (
	json "github.com/goccy/go-json"

	"github.com/wotkit/td/internal/jsonx"
)

// InteractionAffordance carries the metadata shared by Action and Event.
// Property shares the same vocabulary but flattens it through DataSchema, so
// it does not embed this type.
type InteractionAffordance struct {
	AtType       Strings       `json:"@type,omitempty"`
	Title        string        `json:"title,omitempty"`
	Titles       MultiLanguage `json:"titles,omitempty"`
	Description  string        `json:"description,omitempty"`
	Descriptions MultiLanguage `json:"descriptions,omitempty"`

	Forms        []Form                 `json:"forms,omitempty"`
	UriVariables map[string]*DataSchema `json:"uriVariables,omitempty"`

	// Security names override the document default for this affordance.
	Security Strings `json:"security,omitempty"`

	// Extra preserves extension fields across decode/encode.
	Extra map[string]json.RawMessage `json:"-"`
}

// Property is an affordance exposing device state. Its value shape and human
// readable metadata are the flattened DataSchema fields, as in the TD wire
// format.
type Property struct {
	DataSchema

	Observable   bool                   `json:"observable,omitempty"`
	Forms        []Form                 `json:"forms,omitempty"`
	UriVariables map[string]*DataSchema `json:"uriVariables,omitempty"`
	Security     Strings                `json:"security,omitempty"`
}

// Action is an affordance invoking a function of the device.
type Action struct {
	InteractionAffordance

	Input      *DataSchema `json:"input,omitempty"`
	Output     *DataSchema `json:"output,omitempty"`
	Safe       bool        `json:"safe,omitempty"`
	Idempotent bool        `json:"idempotent,omitempty"`
}

// Event is an affordance describing notifications pushed by the device.
type Event struct {
	InteractionAffordance

	Subscription *DataSchema `json:"subscription,omitempty"`
	Data         *DataSchema `json:"data,omitempty"`
	Cancellation *DataSchema `json:"cancellation,omitempty"`
}

// propertyOwnKeys lists the Property wire fields that are not part of the
// flattened DataSchema.
var propertyOwnKeys = []string{"observable", "forms", "uriVariables", "security"}

// propertyOwn mirrors the non-schema fields of Property for the JSON split.
type propertyOwn struct {
	Observable   bool                   `json:"observable,omitempty"`
	Forms        []Form                 `json:"forms,omitempty"`
	UriVariables map[string]*DataSchema `json:"uriVariables,omitempty"`
	Security     Strings                `json:"security,omitempty"`
}

// MarshalJSON flattens the embedded DataSchema with the interaction fields,
// letting the interaction fields win on collision.
func (p Property) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(p.DataSchema)
	if err != nil {
		return nil, err
	}
	own, err := json.Marshal(propertyOwn{
		Observable:   p.Observable,
		Forms:        p.Forms,
		UriVariables: p.UriVariables,
		Security:     p.Security,
	})
	if err != nil {
		return nil, err
	}
	return jsonx.MergeObjects(base, own)
}

// UnmarshalJSON splits the flattened wire object back into schema fields,
// interaction fields, and preserved extensions.
func (p *Property) UnmarshalJSON(data []byte) error {
	var ds DataSchema
	if err := json.Unmarshal(data, &ds); err != nil {
		return err
	}
	var own propertyOwn
	if err := json.Unmarshal(data, &own); err != nil {
		return err
	}
	for _, k := range propertyOwnKeys {
		delete(ds.Extra, k)
	}
	if len(ds.Extra) == 0 {
		ds.Extra = nil
	}
	*p = Property{
		DataSchema:   ds,
		Observable:   own.Observable,
		Forms:        own.Forms,
		UriVariables: own.UriVariables,
		Security:     own.Security,
	}
	return nil
}

// MarshalJSON merges extension fields with the vocabulary fields.
func (a Action) MarshalJSON() ([]byte, error) {
	type alias Action
	return jsonx.MarshalWithExtra(alias(a), a.Extra)
}

// UnmarshalJSON keeps unknown keys in Extra.
func (a *Action) UnmarshalJSON(data []byte) error {
	type alias Action
	var aa alias
	extra, err := jsonx.UnmarshalWithExtra(data, &aa)
	if err != nil {
		return err
	}
	*a = Action(aa)
	a.Extra = extra
	return nil
}

// MarshalJSON merges extension fields with the vocabulary fields.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	return jsonx.MarshalWithExtra(alias(e), e.Extra)
}

// UnmarshalJSON keeps unknown keys in Extra.
func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	var ee alias
	extra, err := jsonx.UnmarshalWithExtra(data, &ee)
	if err != nil {
		return err
	}
	*e = Event(ee)
	e.Extra = extra
	return nil
}
