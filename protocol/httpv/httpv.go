// Package httpv carries the HTTP binding template vocabulary (htv: terms).
// The terms ride in the Extra maps of forms and expected responses; this
// package provides typed views over them.
package httpv

import (
	json "github.com/goccy/go-json"

	td "github.com/wotkit/td"
	"github.com/wotkit/td/internal/jsonx"
)

// Method is an HTTP request method name as it appears in htv:methodName.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPut    Method = "PUT"
	MethodPost   Method = "POST"
	MethodDelete Method = "DELETE"
	MethodPatch  Method = "PATCH"
)

// Header is one htv:headers entry.
type Header struct {
	FieldName  string `json:"htv:fieldName,omitempty"`
	FieldValue string `json:"htv:fieldValue,omitempty"`
}

// FormFields are the htv: terms legal on a Form.
type FormFields struct {
	MethodName Method `json:"htv:methodName,omitempty"`
}

// ResponseFields are the htv: terms legal on an expected response.
type ResponseFields struct {
	Headers         []Header `json:"htv:headers,omitempty"`
	StatusCodeValue *int     `json:"htv:statusCodeValue,omitempty"`
}

// ApplyForm writes the htv: terms into the form's extension fields.
func ApplyForm(f *td.Form, ff FormFields) error {
	extra, err := jsonx.ExtraFrom(ff)
	if err != nil {
		return err
	}
	if f.Extra == nil {
		f.Extra = map[string]json.RawMessage{}
	}
	for k, v := range extra {
		f.Extra[k] = v
	}
	return nil
}

// FormOf reads the htv: terms from the form's extension fields.
func FormOf(f td.Form) (FormFields, error) {
	var ff FormFields
	err := jsonx.ExtraInto(f.Extra, &ff)
	return ff, err
}

// ApplyResponse writes the htv: terms into the response's extension fields.
func ApplyResponse(r *td.ExpectedResponse, rf ResponseFields) error {
	extra, err := jsonx.ExtraFrom(rf)
	if err != nil {
		return err
	}
	if r.Extra == nil {
		r.Extra = map[string]json.RawMessage{}
	}
	for k, v := range extra {
		r.Extra[k] = v
	}
	return nil
}

// ResponseOf reads the htv: terms from the response's extension fields.
func ResponseOf(r td.ExpectedResponse) (ResponseFields, error) {
	var rf ResponseFields
	err := jsonx.ExtraInto(r.Extra, &rf)
	return rf, err
}
