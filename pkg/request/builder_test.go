package request

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"igmobile/pkg/device"
	"igmobile/pkg/signature"
)

const testKey = "937463b5272b5d60e9d20f0f8d7d192193dd95095a3ad43725d494300a5ea5fc"

type likePayload struct {
	UUID      string `json:"_uuid"`
	UID       string `json:"_uid"`
	CSRFToken string `json:"_csrftoken"`
	MediaID   string `json:"media_id"`
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	d, err := device.New("samsung-galaxy-s7-edge")
	require.NoError(t, err)
	return NewBuilder(d, signature.NewSigner(testKey, "4"))
}

func TestPlainHeaders(t *testing.T) {
	b := newTestBuilder(t)
	d := b.Plain("GET", "https://i.example.test/api/v1/feed/timeline/")

	assert.Equal(t, "en-US", d.Header("accept-language"))
	assert.Equal(t, "3brTBw==", d.Header(HeaderCapabilities))
	assert.Equal(t, "WIFI", d.Header(HeaderConnectionType))
	assert.Contains(t, d.Header(HeaderUserAgent), "Instagram 10.26.0 Android")
	assert.Equal(t, BodyNone, d.Kind)
	assert.True(t, d.Idempotent())

	body, ct, err := d.Encode()
	require.NoError(t, err)
	assert.Nil(t, body)
	assert.Empty(t, ct)
}

func TestSignedEnvelope(t *testing.T) {
	b := newTestBuilder(t)
	payload := likePayload{UUID: "u", UID: "42", CSRFToken: "tok", MediaID: "1_2"}

	d, err := b.Signed("POST", "https://i.example.test/api/v1/media/1_2/like/", payload)
	require.NoError(t, err)

	assert.True(t, d.Signed())
	assert.Equal(t, `{"_uuid":"u","_uid":"42","_csrftoken":"tok","media_id":"1_2"}`, string(d.Payload))

	sig, err := signature.Sign([]byte(testKey), d.Payload)
	require.NoError(t, err)
	want := sig + "." + string(d.Payload)

	assert.Equal(t, want, d.Field(signature.FieldSignedBody))
	assert.Equal(t, "4", d.Field(signature.FieldKeyVersion))
	assert.Equal(t, want, d.Header(signature.FieldSignedBody))
	assert.Equal(t, "4", d.Header(signature.FieldKeyVersion))
	assert.False(t, d.Idempotent())
}

func TestSignedIsDeterministic(t *testing.T) {
	b := newTestBuilder(t)
	payload := likePayload{UUID: "u", UID: "42", CSRFToken: "tok", MediaID: "1_2"}

	a, err := b.Signed("POST", "x", payload)
	require.NoError(t, err)
	c, err := b.Signed("POST", "x", payload)
	require.NoError(t, err)
	assert.Equal(t, a.Field(signature.FieldSignedBody), c.Field(signature.FieldSignedBody))

	payload.MediaID = "1_3"
	changed, err := b.Signed("POST", "x", payload)
	require.NoError(t, err)
	assert.NotEqual(t,
		strings.SplitN(a.Field(signature.FieldSignedBody), ".", 2)[0],
		strings.SplitN(changed.Field(signature.FieldSignedBody), ".", 2)[0])
}

func TestSignedRejectsUnserializable(t *testing.T) {
	b := newTestBuilder(t)
	_, err := b.Signed("POST", "x", map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestFormEncodingKeepsOrder(t *testing.T) {
	b := newTestBuilder(t)
	d := b.Form("POST", "x", []Field{{"zeta", "1"}, {"alpha", "a b"}})

	body, ct, err := d.Encode()
	require.NoError(t, err)
	assert.Equal(t, "zeta=1&alpha=a+b", string(body))
	assert.True(t, strings.HasPrefix(ct, "application/x-www-form-urlencoded"))

	values, err := url.ParseQuery(string(body))
	require.NoError(t, err)
	assert.Equal(t, "a b", values.Get("alpha"))
}

func TestMultipartEncoding(t *testing.T) {
	b := newTestBuilder(t)
	d := b.Multipart("https://upload.example.test/chunk",
		[]Field{{"Session-ID", "1500-123456789"}, {"job", "job-0"}},
		[]FilePart{{
			Field:    "video",
			FileName: "pending_media_1500.mp4",
			Data:     []byte("chunk-bytes"),
			Headers: []Header{
				{"Content-Type", "application/octet-stream"},
				{"Content-Range", "bytes 0-10/11"},
			},
		}},
		WithBoundary("1500-123456789"),
		WithHeader("job", "job-0"),
	)

	body, ct, err := d.Encode()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)
	assert.Equal(t, "1500-123456789", params["boundary"])
	assert.Equal(t, "job-0", d.Header("job"))

	r := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	p, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "Session-ID", p.FormName())

	p, err = r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "job", p.FormName())

	p, err = r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "video", p.FormName())
	assert.Equal(t, "pending_media_1500.mp4", p.FileName())
	assert.Equal(t, "bytes 0-10/11", p.Header.Get("Content-Range"))
	data, err := io.ReadAll(p)
	require.NoError(t, err)
	assert.Equal(t, "chunk-bytes", string(data))

	_, err = r.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestMultipartInvalidBoundary(t *testing.T) {
	b := newTestBuilder(t)
	d := b.Multipart("x", nil, nil, WithBoundary(strings.Repeat("a", 80)))
	_, _, err := d.Encode()
	assert.Error(t, err)
}
