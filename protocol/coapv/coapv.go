// Package coapv carries the CoAP binding template vocabulary (cov: terms).
// The terms ride in the Extra maps of forms and expected responses; this
// package provides typed views over them.
package coapv

import (
	"fmt"

	json "github.com/goccy/go-json"

	td "github.com/wotkit/td"
	"github.com/wotkit/td/internal/jsonx"
)

// Method is a CoAP request method name as it appears in cov:method.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPut    Method = "PUT"
	MethodPost   Method = "POST"
	MethodDelete Method = "DELETE"
	MethodPatch  Method = "PATCH"
	MethodFetch  Method = "FETCH"
	MethodIPatch Method = "iPATCH"
)

// BlockSize is a block-wise transfer block size in bytes. Only powers of two
// between 16 and 1024 are representable on the wire.
type BlockSize uint16

const (
	Size16   BlockSize = 16
	Size32   BlockSize = 32
	Size64   BlockSize = 64
	Size128  BlockSize = 128
	Size256  BlockSize = 256
	Size512  BlockSize = 512
	Size1024 BlockSize = 1024
)

// UnmarshalJSON rejects block sizes outside the RFC 7959 set.
func (b *BlockSize) UnmarshalJSON(data []byte) error {
	var n uint16
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	switch BlockSize(n) {
	case Size16, Size32, Size64, Size128, Size256, Size512, Size1024:
		*b = BlockSize(n)
		return nil
	}
	return fmt.Errorf("coapv: invalid block size %d", n)
}

// BlockWise carries block-wise transfer parameters per RFC 7959 or RFC 9177.
type BlockWise struct {
	Block1Size *BlockSize `json:"cov:block1Size,omitempty"`
	Block2Size *BlockSize `json:"cov:block2Size,omitempty"`
}

// FormFields are the cov: terms legal on a Form.
type FormFields struct {
	Method        Method     `json:"cov:method,omitempty"`
	Blockwise     *BlockWise `json:"cov:blockwise,omitempty"`
	QBlockwise    *BlockWise `json:"cov:qblockwise,omitempty"`
	HopLimit      *uint8     `json:"cov:hopLimit,omitempty"`
	Accept        *uint16    `json:"cov:accept,omitempty"`
	ContentFormat *uint16    `json:"cov:contentFormat,omitempty"`
}

// ResponseFields are the cov: terms legal on an expected response.
type ResponseFields struct {
	ContentFormat *uint16 `json:"cov:contentFormat,omitempty"`
}

// ApplyForm writes the cov: terms into the form's extension fields.
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

// FormOf reads the cov: terms from the form's extension fields.
func FormOf(f td.Form) (FormFields, error) {
	var ff FormFields
	err := jsonx.ExtraInto(f.Extra, &ff)
	return ff, err
}

// ApplyResponse writes the cov: terms into the response's extension fields.
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

// ResponseOf reads the cov: terms from the response's extension fields.
func ResponseOf(r td.ExpectedResponse) (ResponseFields, error) {
	var rf ResponseFields
	err := jsonx.ExtraInto(r.Extra, &rf)
	return rf, err
}
