// Package upload implements the upload-then-configure protocol for photos and
// the chunked variant used for videos.
package upload

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"igmobile/pkg/device"
	"igmobile/pkg/errors"
	"igmobile/pkg/logger"
	"igmobile/pkg/request"
	"igmobile/pkg/transport"
)

// State is a step of the upload state machine
type State int

const (
	StateNegotiating State = iota
	StateChunk0
	StateChunk1
	StateThumbnail
	StateConfiguring
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNegotiating:
		return "negotiating"
	case StateChunk0:
		return "chunk_uploading(0)"
	case StateChunk1:
		return "chunk_uploading(1)"
	case StateThumbnail:
		return "thumbnail_uploading"
	case StateConfiguring:
		return "configuring"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Catalog resolves the upload endpoints
type Catalog interface {
	UploadPhotoURL() string
	UploadVideoURL() string
	ConfigurePhotoURL() string
	ConfigureVideoURL() string
}

// Destination is where one chunk goes
type Destination struct {
	URL     string  `json:"url"`
	Job     string  `json:"job"`
	Expires float64 `json:"expires,omitempty"`
}

// Session is the state of one upload call. It is never reused.
type Session struct {
	UploadID     string
	SessionID    string
	Destinations []Destination
	// Acknowledged lists the chunk indexes the server accepted, in order
	Acknowledged []int
	State        State
	Reason       string
}

// Auth carries the session values the upload requests need
type Auth struct {
	CSRFToken string
	UserPk    string
}

// Video to upload. DurationMs of 0 means read it from the MP4 header.
type Video struct {
	Data       []byte
	Width      int
	Height     int
	DurationMs int64
}

type Image struct {
	Data   []byte
	Width  int
	Height int
}

// Result is the outcome of a successful upload
type Result struct {
	Session *Session
	// Body is the raw configure response
	Body []byte
}

// Engine runs uploads for one device
type Engine struct {
	transport    transport.Transport
	builder      *request.Builder
	device       *device.Identity
	catalog      Catalog
	chunkSize    int64
	logger       logger.Logger
	newSessionID func(uploadID string) string
	newUploadID  func() string
	now          func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

func WithChunkSize(n int64) Option {
	return func(e *Engine) { e.chunkSize = n }
}

// WithSessionIDFunc replaces the session id generator
func WithSessionIDFunc(f func(uploadID string) string) Option {
	return func(e *Engine) { e.newSessionID = f }
}

// WithUploadIDFunc replaces the upload id generator
func WithUploadIDFunc(f func() string) Option {
	return func(e *Engine) { e.newUploadID = f }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an upload engine
func NewEngine(t transport.Transport, b *request.Builder, d *device.Identity, c Catalog, log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		transport:    t,
		builder:      b,
		device:       d,
		catalog:      c,
		chunkSize:    DefaultChunkSize,
		logger:       logger.Or(log).WithField("component", "upload"),
		newSessionID: NewSessionID,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.newUploadID == nil {
		e.newUploadID = func() string {
			return strconv.FormatInt(e.now().UnixMilli(), 10)
		}
	}
	return e
}

func (e *Engine) transition(s *Session, to State) {
	logger.LogUploadState(e.logger, s.UploadID, s.State.String(), to.String())
	s.State = to
}

func (e *Engine) fail(s *Session, err error) error {
	s.Reason = err.Error()
	e.transition(s, StateFailed)
	return err
}

// send executes d and turns any non-2xx status into an unexpected_status
// error carrying the raw body.
func (e *Engine) send(ctx context.Context, d *request.Descriptor) (*transport.Response, error) {
	resp, err := e.transport.Send(ctx, d)
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, errors.UnexpectedStatus(resp.StatusCode, string(resp.Body))
	}
	return resp, nil
}

// UploadVideo negotiates destinations, uploads the two chunks in order, the
// thumbnail, and configures the video with caption. A failed thumbnail is
// logged and does not stop the upload.
func (e *Engine) UploadVideo(ctx context.Context, auth Auth, video Video, thumbnail Image, caption string) (*Result, error) {
	s := &Session{UploadID: e.newUploadID(), State: StateNegotiating}
	log := e.logger.WithField("upload_id", s.UploadID)

	if len(video.Data) == 0 {
		return nil, e.fail(s, errors.InvalidArgument("video payload is empty"))
	}
	chunks, err := PlanChunks(int64(len(video.Data)), e.chunkSize)
	if err != nil {
		return nil, e.fail(s, err)
	}
	durationMs := video.DurationMs
	if durationMs <= 0 {
		if durationMs, err = DurationFromMP4(video.Data); err != nil {
			return nil, e.fail(s, err)
		}
	}

	if err := e.negotiate(ctx, s, auth, video, durationMs); err != nil {
		return nil, e.fail(s, err)
	}

	s.SessionID = e.newSessionID(s.UploadID)
	for _, chunk := range chunks {
		e.transition(s, StateChunk0+State(chunk.Index))
		if err := e.uploadChunk(ctx, s, video.Data, chunk); err != nil {
			return nil, e.fail(s, err)
		}
		s.Acknowledged = append(s.Acknowledged, chunk.Index)
		log.DebugWithFields("Chunk accepted", map[string]interface{}{
			"index": chunk.Index,
			"range": chunk.ContentRange(),
		})
	}

	e.transition(s, StateThumbnail)
	if err := e.uploadImage(ctx, s.UploadID, auth, thumbnail); err != nil {
		log.WithError(err).Warn("Thumbnail upload failed, configuring anyway")
	}

	e.transition(s, StateConfiguring)
	body, err := e.configureVideo(ctx, s.UploadID, auth, caption, durationMs)
	if err != nil {
		return nil, e.fail(s, err)
	}

	e.transition(s, StateDone)
	log.Info("Video uploaded")
	return &Result{Session: s, Body: body}, nil
}

// UploadPhoto uploads image in a single request and configures it with caption
func (e *Engine) UploadPhoto(ctx context.Context, auth Auth, image Image, caption string) (*Result, error) {
	s := &Session{UploadID: e.newUploadID(), State: StateNegotiating}

	if len(image.Data) == 0 {
		return nil, e.fail(s, errors.InvalidArgument("image payload is empty"))
	}
	if err := e.uploadImage(ctx, s.UploadID, auth, image); err != nil {
		return nil, e.fail(s, err)
	}

	e.transition(s, StateConfiguring)
	body, err := e.configurePhoto(ctx, s.UploadID, auth, image, caption)
	if err != nil {
		return nil, e.fail(s, err)
	}

	e.transition(s, StateDone)
	e.logger.WithField("upload_id", s.UploadID).Info("Photo uploaded")
	return &Result{Session: s, Body: body}, nil
}

func (e *Engine) negotiate(ctx context.Context, s *Session, auth Auth, video Video, durationMs int64) error {
	d := e.builder.Multipart(e.catalog.UploadVideoURL(), []request.Field{
		{Name: "upload_id", Value: s.UploadID},
		{Name: "_uuid", Value: e.device.DeviceGUID.String()},
		{Name: "_csrftoken", Value: auth.CSRFToken},
		{Name: "media_type", Value: mediaTypeVideo},
		{Name: "upload_media_duration_ms", Value: strconv.FormatInt(durationMs, 10)},
		{Name: "upload_media_height", Value: strconv.Itoa(video.Height)},
		{Name: "upload_media_width", Value: strconv.Itoa(video.Width)},
	}, nil, request.WithBoundary(s.UploadID))

	resp, err := e.send(ctx, d)
	if err != nil {
		return err
	}

	var nr negotiationResponse
	if err := json.Unmarshal(resp.Body, &nr); err != nil {
		return errors.Wrap(errors.ErrorTypeParsing, err, "failed to decode upload negotiation")
	}
	if len(nr.VideoUploadURLs) < 2 {
		return errors.Protocol("upload negotiation returned %d destinations, need 2", len(nr.VideoUploadURLs))
	}
	for i := 0; i < 2; i++ {
		if nr.VideoUploadURLs[i].URL == "" || nr.VideoUploadURLs[i].Job == "" {
			return errors.Protocol("upload destination %d has no url or job", i)
		}
	}
	s.Destinations = nr.VideoUploadURLs
	return nil
}

func (e *Engine) uploadChunk(ctx context.Context, s *Session, data []byte, chunk ChunkRange) error {
	dest := s.Destinations[chunk.Index]
	d := e.builder.Multipart(dest.URL,
		[]request.Field{
			{Name: "Cookie2", Value: "$Version=1"},
			{Name: "Session-ID", Value: s.SessionID},
			{Name: "job", Value: dest.Job},
		},
		[]request.FilePart{{
			Field:    "video",
			FileName: "pending_media_" + s.UploadID + ".mp4",
			Data:     data[chunk.Start:chunk.End],
			Headers: []request.Header{
				{Name: "Content-Transfer-Encoding", Value: "binary"},
				{Name: "Content-Type", Value: "application/octet-stream"},
				{Name: "Content-Range", Value: chunk.ContentRange()},
			},
		}},
		request.WithBoundary(s.SessionID),
		request.WithHeader("Session-ID", s.SessionID),
		request.WithHeader("job", dest.Job),
	)

	_, err := e.send(ctx, d)
	return err
}

// uploadImage posts a photo (or a video thumbnail) to the photo upload endpoint
func (e *Engine) uploadImage(ctx context.Context, uploadID string, auth Auth, image Image) error {
	d := e.builder.Multipart(e.catalog.UploadPhotoURL(),
		[]request.Field{
			{Name: "upload_id", Value: uploadID},
			{Name: "_uuid", Value: e.device.DeviceGUID.String()},
			{Name: "_csrftoken", Value: auth.CSRFToken},
			{Name: "image_compression", Value: imageCompression},
		},
		[]request.FilePart{{
			Field:    "photo",
			FileName: "pending_media_" + uploadID + ".jpg",
			Data:     image.Data,
			Headers: []request.Header{
				{Name: "Content-Transfer-Encoding", Value: "binary"},
				{Name: "Content-Type", Value: "application/octet-stream"},
			},
		}},
		request.WithBoundary(uploadID),
	)

	_, err := e.send(ctx, d)
	return err
}

func (e *Engine) configurePhoto(ctx context.Context, uploadID string, auth Auth, image Image, caption string) ([]byte, error) {
	dev, err := describeDevice(e.device)
	if err != nil {
		return nil, err
	}

	payload := configurePhotoPayload{
		UUID:        e.device.DeviceGUID.String(),
		UID:         auth.UserPk,
		CSRFToken:   auth.CSRFToken,
		MediaFolder: "Camera",
		SourceType:  "4",
		Caption:     caption,
		UploadID:    uploadID,
		Device:      dev,
		Edits: photoEdits{
			CropOriginalSize: []int{image.Width, image.Height},
			CropCenter:       []float64{0, math.Copysign(0, -1)},
			CropZoom:         1,
		},
		Extra: photoExtra{SourceWidth: image.Width, SourceHeight: image.Height},
	}

	return e.configure(ctx, e.catalog.ConfigurePhotoURL(), payload)
}

func (e *Engine) configureVideo(ctx context.Context, uploadID string, auth Auth, caption string, durationMs int64) ([]byte, error) {
	dev, err := describeDevice(e.device)
	if err != nil {
		return nil, err
	}

	seconds := float64(durationMs) / 1000
	payload := configureVideoPayload{
		UUID:            e.device.DeviceGUID.String(),
		UID:             auth.UserPk,
		CSRFToken:       auth.CSRFToken,
		VideoResult:     "deprecated",
		Duration:        seconds,
		ClientTimestamp: strconv.FormatInt(e.now().Unix(), 10),
		Caption:         caption,
		SourceType:      "camera",
		MasOptIn:        "NOT_PROMPTED",
		Length:          seconds,
		CameraPosition:  "unknown",
		UploadID:        uploadID,
		Device:          dev,
		Edits:           videoEdits{FilterStrength: 1},
		Clips: []videoClip{{
			Length:         seconds,
			Cinema:         "unsupported",
			OriginalLength: seconds,
			SourceType:     "camera",
			CameraPosition: "back",
		}},
	}

	return e.configure(ctx, e.catalog.ConfigureVideoURL(), payload)
}

func (e *Engine) configure(ctx context.Context, uri string, payload interface{}) ([]byte, error) {
	d, err := e.builder.Signed("POST", uri, payload)
	if err != nil {
		return nil, err
	}
	resp, err := e.send(ctx, d)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
