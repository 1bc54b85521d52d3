package td

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/wotkit/td/i18n"
)

// ---- Validation context options ----

type contextKey int

const _ctxKeyFailFast contextKey = iota

// WithFailFast returns a child context that makes validation stop at the
// first issue instead of collecting all of them.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current validation should stop on the first
// issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}

// Validate walks the document bottom-up and returns every violated
// constraint as Issues, or nil when the document is well formed. The walk is
// pure and deterministic; fail-fast callers can either set WithFailFast on
// the context or inspect only the first returned issue.
func (t *Thing) Validate(ctx context.Context) error {
	v := &validator{failFast: IsFailFast(ctx)}
	v.thing(t)
	if len(v.iss) > 0 {
		return v.iss
	}
	return nil
}

type validator struct {
	iss      Issues
	failFast bool
	done     bool
}

func (v *validator) add(path, code, hint string, params map[string]any) {
	if v.done {
		return
	}
	v.iss = append(v.iss, Issue{Path: path, Code: code, Message: i18n.T(code, nil), Hint: hint, Params: params})
	if v.failFast {
		v.done = true
	}
}

func (v *validator) thing(t *Thing) {
	if len(t.Context) == 0 {
		v.add("/@context", CodeRequired, "@context is mandatory", nil)
	}
	for i, e := range t.Context {
		if e.IRI != "" {
			v.uri(fmt.Sprintf("/@context/%d", i), e.IRI, false)
			continue
		}
		for prefix, iri := range e.Prefixes {
			v.uri(fmt.Sprintf("/@context/%d/%s", i, escapeToken(prefix)), iri, false)
		}
	}
	if t.Title == "" {
		v.add("/title", CodeRequired, "title is mandatory", nil)
	}
	if t.ID != "" {
		v.uri("/id", t.ID, true)
	}
	v.multiLanguage("/titles", t.Titles)
	v.multiLanguage("/descriptions", t.Descriptions)
	if t.Support != "" {
		v.uri("/support", t.Support, false)
	}
	if t.Base != "" {
		v.uri("/base", t.Base, true)
	}

	for _, name := range sortedKeys(t.Properties) {
		p := t.Properties[name]
		path := "/properties/" + escapeToken(name)
		if name == "" {
			v.add(path, CodeEmptyName, "", nil)
		}
		v.dataSchema(path, &p.DataSchema)
		if p.ReadOnly && p.WriteOnly {
			v.add(path, CodeMalformedSchema, "readOnly and writeOnly are mutually exclusive", nil)
		}
		v.forms(path, p.Forms, ownerProperty, t)
		v.uriVariables(path, p.UriVariables)
		v.securityRefs(path+"/security", p.Security, t)
	}
	for _, name := range sortedKeys(t.Actions) {
		a := t.Actions[name]
		path := "/actions/" + escapeToken(name)
		if name == "" {
			v.add(path, CodeEmptyName, "", nil)
		}
		v.interaction(path, &a.InteractionAffordance, ownerAction, t)
		if a.Input != nil {
			v.dataSchema(path+"/input", a.Input)
		}
		if a.Output != nil {
			v.dataSchema(path+"/output", a.Output)
		}
	}
	for _, name := range sortedKeys(t.Events) {
		e := t.Events[name]
		path := "/events/" + escapeToken(name)
		if name == "" {
			v.add(path, CodeEmptyName, "", nil)
		}
		v.interaction(path, &e.InteractionAffordance, ownerEvent, t)
		if e.Subscription != nil {
			v.dataSchema(path+"/subscription", e.Subscription)
		}
		if e.Data != nil {
			v.dataSchema(path+"/data", e.Data)
		}
		if e.Cancellation != nil {
			v.dataSchema(path+"/cancellation", e.Cancellation)
		}
	}

	for i, l := range t.Links {
		v.uri(fmt.Sprintf("/links/%d/href", i), l.Href, false)
	}
	v.forms("", t.Forms, ownerThing, t)

	if len(t.Security) == 0 {
		v.add("/security", CodeEmptySecurity, "", nil)
	}
	v.securityRefs("/security", t.Security, t)
	for _, name := range sortedKeys(t.SecurityDefinitions) {
		path := "/securityDefinitions/" + escapeToken(name)
		if name == "" {
			v.add(path, CodeEmptyName, "", nil)
		}
		v.securityScheme(path, t.SecurityDefinitions[name])
	}
	for _, name := range sortedKeys(t.SchemaDefinitions) {
		path := "/schemaDefinitions/" + escapeToken(name)
		if name == "" {
			v.add(path, CodeEmptyName, "", nil)
		}
		v.dataSchema(path, t.SchemaDefinitions[name])
	}
}

func (v *validator) interaction(path string, ia *InteractionAffordance, owner formOwner, t *Thing) {
	v.multiLanguage(path+"/titles", ia.Titles)
	v.multiLanguage(path+"/descriptions", ia.Descriptions)
	v.forms(path, ia.Forms, owner, t)
	v.uriVariables(path, ia.UriVariables)
	v.securityRefs(path+"/security", ia.Security, t)
}

func (v *validator) uriVariables(path string, vars map[string]*DataSchema) {
	for _, name := range sortedKeys(vars) {
		v.dataSchema(path+"/uriVariables/"+escapeToken(name), vars[name])
	}
}

func (v *validator) forms(path string, forms []Form, owner formOwner, t *Thing) {
	allowed := legalOps[owner]
	for i, f := range forms {
		fpath := fmt.Sprintf("%s/forms/%d", path, i)
		if f.Href == "" {
			v.add(fpath+"/href", CodeRequired, "href is mandatory", nil)
		} else {
			v.uri(fpath+"/href", f.Href, false)
		}
		for j, op := range f.Op {
			if _, ok := allowed[op]; !ok {
				v.add(fmt.Sprintf("%s/op/%d", fpath, j), CodeIllegalFormOp, op,
					map[string]any{"op": op, "owner": owner.String()})
			}
		}
		v.securityRefs(fpath+"/security", f.Security, t)
	}
}

func (v *validator) securityRefs(path string, names Strings, t *Thing) {
	for i, name := range names {
		if _, ok := t.SecurityDefinitions[name]; !ok {
			v.add(fmt.Sprintf("%s/%d", path, i), CodeUnresolvedSecurity, name,
				map[string]any{"name": name})
		}
	}
}

var validSchemaTypes = map[string]struct{}{
	TypeObject: {}, TypeArray: {}, TypeString: {}, TypeNumber: {},
	TypeInteger: {}, TypeBoolean: {}, TypeNull: {},
}

func (v *validator) dataSchema(path string, d *DataSchema) {
	if v.done || d == nil {
		return
	}
	v.multiLanguage(path+"/titles", d.Titles)
	v.multiLanguage(path+"/descriptions", d.Descriptions)

	if d.Type != "" {
		if _, ok := validSchemaTypes[d.Type]; !ok {
			v.add(path+"/type", CodeMalformedSchema, d.Type, map[string]any{"type": d.Type})
		}
	}
	for _, name := range d.Required {
		if _, ok := d.Properties[name]; !ok {
			v.add(path+"/required", CodeMalformedSchema, name, map[string]any{"name": name})
		}
	}
	if d.Const != nil {
		if d.Type != "" && !matchesType(d.Const, d.Type) {
			v.add(path+"/const", CodeMalformedSchema, "const does not satisfy type", nil)
		}
		if len(d.Enum) > 0 && !containsValue(d.Enum, d.Const) {
			v.add(path+"/const", CodeMalformedSchema, "const is not an enum member", nil)
		}
	}
	if d.Type != "" {
		for i, e := range d.Enum {
			if !matchesType(e, d.Type) {
				v.add(fmt.Sprintf("%s/enum/%d", path, i), CodeMalformedSchema, "enum member does not satisfy type", nil)
			}
		}
	}
	v.bounds(path, d.Minimum, d.Maximum)
	v.bounds(path, d.ExclusiveMinimum, d.ExclusiveMaximum)
	if d.MultipleOf != nil && *d.MultipleOf <= 0 {
		v.add(path+"/multipleOf", CodeInvalidMultipleOf, "", nil)
	}
	if d.MinLength != nil && d.MaxLength != nil && *d.MinLength > *d.MaxLength {
		v.add(path+"/minLength", CodeInvalidMinMax, "", nil)
	}
	if d.MinItems != nil && d.MaxItems != nil && *d.MinItems > *d.MaxItems {
		v.add(path+"/minItems", CodeInvalidMinMax, "", nil)
	}

	for _, name := range d.PropertyOrder() {
		v.dataSchema(path+"/properties/"+escapeToken(name), d.Properties[name])
	}
	if d.Items != nil {
		v.dataSchema(path+"/items", d.Items)
	}
	for i, alt := range d.OneOf {
		v.dataSchema(fmt.Sprintf("%s/oneOf/%d", path, i), alt)
	}
}

func (v *validator) bounds(path string, min, max *float64) {
	if min != nil && math.IsNaN(*min) || max != nil && math.IsNaN(*max) {
		v.add(path+"/minimum", CodeNaNMinMax, "", nil)
		return
	}
	if min != nil && max != nil && *min > *max {
		v.add(path+"/minimum", CodeInvalidMinMax, "", nil)
	}
}

var validSchemes = map[string]struct{}{
	SchemeNoSec: {}, SchemeBasic: {}, SchemeDigest: {}, SchemeAPIKey: {},
	SchemeBearer: {}, SchemeOAuth2: {}, SchemePSK: {},
}

var validLocations = map[string]struct{}{
	InHeader: {}, InQuery: {}, InBody: {}, InCookie: {}, "auto": {}, "uri": {},
}

var validFlows = map[string]struct{}{
	FlowCode: {}, FlowClient: {}, FlowDevice: {},
}

func (v *validator) securityScheme(path string, s *SecurityScheme) {
	if v.done || s == nil {
		return
	}
	v.multiLanguage(path+"/descriptions", s.Descriptions)
	if s.Proxy != "" {
		v.uri(path+"/proxy", s.Proxy, true)
	}
	if _, ok := validSchemes[s.Scheme]; !ok {
		v.add(path+"/scheme", CodeInvalidScheme, s.Scheme, map[string]any{"scheme": s.Scheme})
		return
	}
	if s.In != "" {
		if _, ok := validLocations[s.In]; !ok {
			v.add(path+"/in", CodeMissingSchemeField, s.In, map[string]any{"in": s.In})
		}
	}
	if s.Authorization != "" {
		v.uri(path+"/authorization", s.Authorization, true)
	}
	switch s.Scheme {
	case SchemeAPIKey:
		if s.In == "" {
			v.add(path+"/in", CodeMissingSchemeField, "apikey requires in", nil)
		}
	case SchemeOAuth2:
		if _, ok := validFlows[s.Flow]; !ok {
			v.add(path+"/flow", CodeMissingSchemeField, "oauth2 requires a flow of code, client or device", nil)
			break
		}
		if s.Flow == FlowCode && s.Authorization == "" {
			v.add(path+"/authorization", CodeMissingSchemeField, "code flow requires an authorization server", nil)
		}
		if s.Token == "" {
			v.add(path+"/token", CodeMissingSchemeField, "oauth2 requires a token server", nil)
		}
		if s.Token != "" {
			v.uri(path+"/token", s.Token, true)
		}
		if s.Refresh != "" {
			v.uri(path+"/refresh", s.Refresh, true)
		}
	}
}

func (v *validator) multiLanguage(path string, ml MultiLanguage) {
	for _, tag := range sortedKeys(ml) {
		if _, err := language.Parse(tag); err != nil {
			v.add(path+"/"+escapeToken(tag), CodeInvalidLanguageTag, tag, map[string]any{"tag": tag})
		}
	}
}

// uri validates a URI-shaped field; absolute demands a scheme.
func (v *validator) uri(path, raw string, absolute bool) {
	u, err := url.Parse(raw)
	if err != nil || (absolute && !u.IsAbs()) {
		v.add(path, CodeInvalidURI, raw, map[string]any{"uri": raw})
	}
}

// sortedKeys yields deterministic issue ordering over Go's unordered maps.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// escapeToken escapes a JSON Pointer reference token.
func escapeToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// matchesType reports whether a const/enum value agrees with the schema's
// declared type. Decoded values follow the generic JSON mapping; built values
// may use native Go numerics.
func matchesType(v any, typ string) bool {
	switch typ {
	case TypeObject:
		_, ok := v.(map[string]any)
		return ok
	case TypeArray:
		_, ok := v.([]any)
		return ok
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeNull:
		return v == nil
	case TypeNumber:
		_, ok := asFloat(v)
		return ok
	case TypeInteger:
		f, ok := asFloat(v)
		return ok && f == math.Trunc(f)
	default:
		return true
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// containsValue reports whether list has an element structurally equal to v.
func containsValue(list []any, v any) bool {
	for _, e := range list {
		if reflect.DeepEqual(e, v) {
			return true
		}
	}
	return false
}
