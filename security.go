package td

import (
	json "github.com/goccy/go-json"

	"github.com/wotkit/td/internal/jsonx"
)

// Security scheme kinds.
const (
	SchemeNoSec  = "nosec"
	SchemeBasic  = "basic"
	SchemeDigest = "digest"
	SchemeAPIKey = "apikey"
	SchemeBearer = "bearer"
	SchemeOAuth2 = "oauth2"
	SchemePSK    = "psk"
)

// Locations for authentication information.
const (
	InHeader = "header"
	InQuery  = "query"
	InBody   = "body"
	InCookie = "cookie"
)

// OAuth2 flows.
const (
	FlowCode   = "code"
	FlowClient = "client"
	FlowDevice = "device"
)

// SecurityScheme is a named authentication mechanism definition. The Scheme
// tag selects the kind; only the fields relevant to that kind are set. It is
// referenced elsewhere by the name it is registered under, never by pointer.
type SecurityScheme struct {
	AtType       Strings       `json:"@type,omitempty"`
	Description  string        `json:"description,omitempty"`
	Descriptions MultiLanguage `json:"descriptions,omitempty"`
	Proxy        string        `json:"proxy,omitempty"`

	Scheme string `json:"scheme"`

	// basic / digest / apikey / bearer
	Name string `json:"name,omitempty"`
	In   string `json:"in,omitempty"`

	// digest
	QoP string `json:"qop,omitempty"`

	// bearer / oauth2
	Authorization string `json:"authorization,omitempty"`

	// bearer
	Alg    string `json:"alg,omitempty"`
	Format string `json:"format,omitempty"`

	// psk
	Identity string `json:"identity,omitempty"`

	// oauth2
	Token   string  `json:"token,omitempty"`
	Refresh string  `json:"refresh,omitempty"`
	Scopes  Strings `json:"scopes,omitempty"`
	Flow    string  `json:"flow,omitempty"`

	// Extra preserves extension fields across decode/encode.
	Extra map[string]json.RawMessage `json:"-"`
}

// NoSecurity returns a nosec scheme.
func NoSecurity() *SecurityScheme {
	return &SecurityScheme{Scheme: SchemeNoSec}
}

// BasicAuth returns a basic scheme. The TD default location is the
// Authorization header.
func BasicAuth() *SecurityScheme {
	return &SecurityScheme{Scheme: SchemeBasic, In: InHeader}
}

// DigestAuth returns a digest scheme with the TD default quality of
// protection.
func DigestAuth() *SecurityScheme {
	return &SecurityScheme{Scheme: SchemeDigest, In: InHeader, QoP: "auth"}
}

// APIKey returns an apikey scheme carried in the given location under the
// given field name.
func APIKey(in, name string) *SecurityScheme {
	return &SecurityScheme{Scheme: SchemeAPIKey, In: in, Name: name}
}

// Bearer returns a bearer scheme with the TD defaults (ES256, jwt) and the
// given authorization server URI.
func Bearer(authorization string) *SecurityScheme {
	return &SecurityScheme{Scheme: SchemeBearer, In: InHeader, Alg: "ES256", Format: "jwt", Authorization: authorization}
}

// OAuth2 returns an oauth2 scheme for the given flow.
func OAuth2(flow, authorization, token string, scopes ...string) *SecurityScheme {
	return &SecurityScheme{Scheme: SchemeOAuth2, Flow: flow, Authorization: authorization, Token: token, Scopes: scopes}
}

// PSK returns a pre-shared-key scheme.
func PSK(identity string) *SecurityScheme {
	return &SecurityScheme{Scheme: SchemePSK, Identity: identity}
}

// MarshalJSON merges extension fields with the vocabulary fields.
func (s SecurityScheme) MarshalJSON() ([]byte, error) {
	type alias SecurityScheme
	return jsonx.MarshalWithExtra(alias(s), s.Extra)
}

// UnmarshalJSON keeps unknown keys in Extra.
func (s *SecurityScheme) UnmarshalJSON(data []byte) error {
	type alias SecurityScheme
	var a alias
	extra, err := jsonx.UnmarshalWithExtra(data, &a)
	if err != nil {
		return err
	}
	*s = SecurityScheme(a)
	s.Extra = extra
	return nil
}
