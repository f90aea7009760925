package resource

import (
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
)

// Payload carries the fields of a create or update submission. A field
// that was never set is not sent at all, so the server leaves it
// untouched; setting an empty string clears the field server-side.
type Payload struct {
	fields map[string]string
	files  []rest.FileField
}

// NewPayload returns an empty payload.
func NewPayload() *Payload {
	return &Payload{fields: make(map[string]string)}
}

// Set records a string field.
func (p *Payload) Set(field, value string) *Payload {
	p.fields[field] = value
	return p
}

// SetInt records an integer field.
func (p *Payload) SetInt(field string, value int64) *Payload {
	return p.Set(field, strconv.FormatInt(value, 10))
}

// SetBool records a boolean field as "1"/"0".
func (p *Payload) SetBool(field string, value bool) *Payload {
	if value {
		return p.Set(field, "1")
	}
	return p.Set(field, "0")
}

// SetDecimal records a decimal field.
func (p *Payload) SetDecimal(field string, value decimal.Decimal) *Payload {
	return p.Set(field, value.String())
}

// AttachFile adds a file attachment. Payloads with attachments are sent
// as multipart form data. Edit flows must not attach a file the user
// did not change, so the server keeps the existing asset.
func (p *Payload) AttachFile(param, name string, r io.Reader) *Payload {
	p.files = append(p.files, rest.FileField{Param: param, Name: name, Reader: r})
	return p
}

// HasFiles reports whether the payload must go out as multipart.
func (p *Payload) HasFiles() bool {
	return len(p.files) > 0
}

// Fields returns the recorded fields.
func (p *Payload) Fields() map[string]string {
	return p.fields
}

// Files returns the recorded attachments.
func (p *Payload) Files() []rest.FileField {
	return p.files
}
