// Package request turns logical API operations into fully shaped HTTP
// request descriptors: device headers, signed envelopes and multipart bodies.
package request

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
)

// BodyKind tells how a descriptor's body is encoded
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyForm
	BodyMultipart
)

// Header is a single request header. Headers keep insertion order.
type Header struct {
	Name  string
	Value string
}

// Field is a form field
type Field struct {
	Name  string
	Value string
}

// FilePart is a file attached to a multipart body
type FilePart struct {
	Field    string
	FileName string
	Data     []byte
	Headers  []Header
}

// Descriptor is an immutable, fully shaped request. It is produced by a
// Builder and consumed by a transport.
type Descriptor struct {
	Method  string
	URI     string
	Headers []Header
	Kind    BodyKind
	Fields  []Field
	Files   []FilePart
	// Boundary is the multipart boundary; empty means a random one
	Boundary string
	// Payload holds the canonical bytes that were signed, if any
	Payload []byte
}

// Header returns the first value of the named header
func (d *Descriptor) Header(name string) string {
	for _, h := range d.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// Field returns the value of the named body field
func (d *Descriptor) Field(name string) string {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Signed reports whether the body carries a signed envelope
func (d *Descriptor) Signed() bool {
	return d.Payload != nil
}

// Idempotent reports whether the request can be replayed safely
func (d *Descriptor) Idempotent() bool {
	return d.Method == "GET" || d.Method == "HEAD"
}

// Encode renders the body in full and returns it with its content type.
// Bodies are never streamed, so a cancelled send cannot leave half a body behind.
func (d *Descriptor) Encode() ([]byte, string, error) {
	switch d.Kind {
	case BodyNone:
		return nil, "", nil
	case BodyForm:
		return []byte(encodeForm(d.Fields)), "application/x-www-form-urlencoded; charset=UTF-8", nil
	case BodyMultipart:
		return d.encodeMultipart()
	default:
		return nil, "", fmt.Errorf("unknown body kind %d", d.Kind)
	}
}

// encodeForm keeps field order, unlike url.Values.Encode
func encodeForm(fields []Field) string {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(f.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(f.Value))
	}
	return sb.String()
}

func (d *Descriptor) encodeMultipart() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if d.Boundary != "" {
		if err := w.SetBoundary(d.Boundary); err != nil {
			return nil, "", fmt.Errorf("invalid multipart boundary: %w", err)
		}
	}

	for _, f := range d.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.Name, err)
		}
	}

	for _, file := range d.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.Field, file.FileName))
		for _, ph := range file.Headers {
			h.Set(ph.Name, ph.Value)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", file.Field, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write part %s: %w", file.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
