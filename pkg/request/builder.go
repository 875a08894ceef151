package request

import (
	"encoding/json"

	"igmobile/pkg/device"
	"igmobile/pkg/errors"
	"igmobile/pkg/signature"
)

// Default header values sent by the mobile application
const (
	HeaderAcceptLanguage = "Accept-Language"
	HeaderCapabilities   = "X-IG-Capabilities"
	HeaderConnectionType = "X-IG-Connection-Type"
	HeaderUserAgent      = "User-Agent"

	acceptLanguage = "en-US"
	capabilities   = "3brTBw=="
	connectionType = "WIFI"
)

// Option adjusts a descriptor while it is being built
type Option func(*Descriptor)

// WithHeader appends a request header
func WithHeader(name, value string) Option {
	return func(d *Descriptor) {
		d.Headers = append(d.Headers, Header{Name: name, Value: value})
	}
}

// WithBoundary fixes the multipart boundary
func WithBoundary(boundary string) Option {
	return func(d *Descriptor) {
		d.Boundary = boundary
	}
}

// Builder creates descriptors for one device. It never reads session state:
// callers place the csrf token and user id inside the payload themselves.
type Builder struct {
	device *device.Identity
	signer *signature.Signer
}

// NewBuilder creates a request builder
func NewBuilder(d *device.Identity, s *signature.Signer) *Builder {
	return &Builder{device: d, signer: s}
}

func (b *Builder) base(method, uri string, opts []Option) *Descriptor {
	d := &Descriptor{
		Method: method,
		URI:    uri,
		Headers: []Header{
			{Name: HeaderAcceptLanguage, Value: acceptLanguage},
			{Name: HeaderCapabilities, Value: capabilities},
			{Name: HeaderConnectionType, Value: connectionType},
			{Name: HeaderUserAgent, Value: b.device.UserAgent},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Plain creates a request with the standard device headers and no body
func (b *Builder) Plain(method, uri string, opts ...Option) *Descriptor {
	return b.base(method, uri, opts)
}

// Form creates an unsigned form request
func (b *Builder) Form(method, uri string, fields []Field, opts ...Option) *Descriptor {
	d := b.base(method, uri, opts)
	d.Kind = BodyForm
	d.Fields = fields
	return d
}

// Signed serializes payload once, signs the resulting bytes and places the
// envelope and key version in the form body. Both values are duplicated as
// headers.
func (b *Builder) Signed(method, uri string, payload interface{}, opts ...Option) (*Descriptor, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeInvalidArgument, err, "failed to serialize request payload")
	}

	envelope, err := b.signer.Envelope(data)
	if err != nil {
		return nil, err
	}

	d := b.base(method, uri, opts)
	d.Kind = BodyForm
	d.Payload = data
	d.Fields = []Field{
		{Name: signature.FieldSignedBody, Value: envelope},
		{Name: signature.FieldKeyVersion, Value: b.signer.Version()},
	}
	d.Headers = append(d.Headers,
		Header{Name: signature.FieldSignedBody, Value: envelope},
		Header{Name: signature.FieldKeyVersion, Value: b.signer.Version()},
	)
	return d, nil
}

// Multipart creates a multipart/form-data POST
func (b *Builder) Multipart(uri string, fields []Field, files []FilePart, opts ...Option) *Descriptor {
	d := b.base("POST", uri, opts)
	d.Kind = BodyMultipart
	d.Fields = fields
	d.Files = files
	return d
}
