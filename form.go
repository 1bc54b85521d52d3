package td

import (
	json "github.com/goccy/go-json"

	"github.com/wotkit/td/internal/jsonx"
)

// Form operation types.
const (
	OpReadProperty            = "readproperty"
	OpWriteProperty           = "writeproperty"
	OpObserveProperty         = "observeproperty"
	OpUnobserveProperty       = "unobserveproperty"
	OpInvokeAction            = "invokeaction"
	OpQueryAction             = "queryaction"
	OpCancelAction            = "cancelaction"
	OpSubscribeEvent          = "subscribeevent"
	OpUnsubscribeEvent        = "unsubscribeevent"
	OpReadAllProperties       = "readallproperties"
	OpWriteAllProperties      = "writeallproperties"
	OpReadMultipleProperties  = "readmultipleproperties"
	OpWriteMultipleProperties = "writemultipleproperties"
)

// Form is a protocol binding entry: a target plus the operations it serves.
type Form struct {
	Op            Strings `json:"op,omitempty"`
	Href          string  `json:"href"`
	ContentType   string  `json:"contentType,omitempty"`
	ContentCoding string  `json:"contentCoding,omitempty"`
	SubProtocol   string  `json:"subprotocol,omitempty"`
	Security      Strings `json:"security,omitempty"`
	Scopes        Strings `json:"scopes,omitempty"`

	Response            *ExpectedResponse            `json:"response,omitempty"`
	AdditionalResponses []AdditionalExpectedResponse `json:"additionalResponses,omitempty"`

	// Extra preserves protocol binding vocabulary (htv:, cov:, ...) and other
	// extension fields across decode/encode.
	Extra map[string]json.RawMessage `json:"-"`
}

// ExpectedResponse describes the response message of a Form.
type ExpectedResponse struct {
	ContentType string `json:"contentType,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// AdditionalExpectedResponse describes an additional, possibly error,
// response message.
type AdditionalExpectedResponse struct {
	Success     bool   `json:"success,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Schema      string `json:"schema,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// formOwner identifies the kind of structure a Form is attached to; the legal
// operation set depends on it.
type formOwner int

const (
	ownerThing formOwner = iota
	ownerProperty
	ownerAction
	ownerEvent
)

func (o formOwner) String() string {
	switch o {
	case ownerProperty:
		return "property"
	case ownerAction:
		return "action"
	case ownerEvent:
		return "event"
	default:
		return "thing"
	}
}

var legalOps = map[formOwner]map[string]struct{}{
	ownerProperty: opSet(OpReadProperty, OpWriteProperty, OpObserveProperty, OpUnobserveProperty),
	ownerAction:   opSet(OpInvokeAction, OpQueryAction, OpCancelAction),
	ownerEvent:    opSet(OpSubscribeEvent, OpUnsubscribeEvent),
	ownerThing:    opSet(OpReadAllProperties, OpWriteAllProperties, OpReadMultipleProperties, OpWriteMultipleProperties),
}

func opSet(ops ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		out[op] = struct{}{}
	}
	return out
}

// MarshalJSON merges extension fields with the vocabulary fields.
func (f Form) MarshalJSON() ([]byte, error) {
	type alias Form
	return jsonx.MarshalWithExtra(alias(f), f.Extra)
}

// UnmarshalJSON keeps unknown keys in Extra.
func (f *Form) UnmarshalJSON(data []byte) error {
	type alias Form
	var a alias
	extra, err := jsonx.UnmarshalWithExtra(data, &a)
	if err != nil {
		return err
	}
	*f = Form(a)
	f.Extra = extra
	return nil
}

// MarshalJSON merges extension fields with the vocabulary fields.
func (r ExpectedResponse) MarshalJSON() ([]byte, error) {
	type alias ExpectedResponse
	return jsonx.MarshalWithExtra(alias(r), r.Extra)
}

// UnmarshalJSON keeps unknown keys in Extra.
func (r *ExpectedResponse) UnmarshalJSON(data []byte) error {
	type alias ExpectedResponse
	var a alias
	extra, err := jsonx.UnmarshalWithExtra(data, &a)
	if err != nil {
		return err
	}
	*r = ExpectedResponse(a)
	r.Extra = extra
	return nil
}

// MarshalJSON merges extension fields with the vocabulary fields.
func (r AdditionalExpectedResponse) MarshalJSON() ([]byte, error) {
	type alias AdditionalExpectedResponse
	return jsonx.MarshalWithExtra(alias(r), r.Extra)
}

// UnmarshalJSON keeps unknown keys in Extra.
func (r *AdditionalExpectedResponse) UnmarshalJSON(data []byte) error {
	type alias AdditionalExpectedResponse
	var a alias
	extra, err := jsonx.UnmarshalWithExtra(data, &a)
	if err != nil {
		return err
	}
	*r = AdditionalExpectedResponse(a)
	r.Extra = extra
	return nil
}
