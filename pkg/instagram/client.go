package instagram

import (
	"context"
	"net/http"
	"time"

	"igmobile/pkg/config"
	"igmobile/pkg/device"
	"igmobile/pkg/errors"
	"igmobile/pkg/logger"
	"igmobile/pkg/ratelimit"
	"igmobile/pkg/request"
	"igmobile/pkg/retry"
	"igmobile/pkg/session"
	"igmobile/pkg/signature"
	"igmobile/pkg/transport"
	"igmobile/pkg/upload"
)

const csrfCookie = "csrftoken"

// Client is a mobile API client bound to one device and one account.
//
// Operations may run concurrently. Login, Logout and LoadState change the
// session and must not overlap with each other.
type Client struct {
	cfg       *config.Config
	session   *session.Session
	device    *device.Identity
	builder   *request.Builder
	transport transport.Transport
	endpoints *Endpoints
	uploads   *upload.Engine
	logger    logger.Logger
	now       func() time.Time

	uploadOpts []upload.Option
}

type options struct {
	transport  transport.Transport
	logger     logger.Logger
	device     *device.Identity
	now        func() time.Time
	uploadOpts []upload.Option
}

// Option configures a Client
type Option func(*options)

// WithTransport replaces the HTTP transport built from the configuration
func WithTransport(t transport.Transport) Option {
	return func(o *options) { o.transport = t }
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDevice uses d instead of generating a fresh identity from the preset
func WithDevice(d *device.Identity) Option {
	return func(o *options) { o.device = d }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithUploadOptions passes options through to the upload engine
func WithUploadOptions(opts ...upload.Option) Option {
	return func(o *options) { o.uploadOpts = append(o.uploadOpts, opts...) }
}

// NewClient creates a client for the account and device in cfg
func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	log := logger.Or(o.logger)

	endpoints, err := NewEndpoints(cfg.API.BaseURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeInvalidArgument, err, "invalid API configuration")
	}

	dev := o.device
	if dev == nil {
		if dev, err = device.New(cfg.Device.Preset); err != nil {
			return nil, err
		}
	}

	t := o.transport
	if t == nil {
		ht, err := transport.New(cfg.API.Timeout, log,
			transport.WithLimiter(ratelimit.FromConfig(cfg.RateLimit)),
			transport.WithRetry(retry.FromConfig(cfg.Retry, log)),
		)
		if err != nil {
			return nil, err
		}
		t = ht
	}

	c := &Client{
		cfg:        cfg,
		session:    session.New(cfg.Account.Username, cfg.Account.Password),
		transport:  t,
		endpoints:  endpoints,
		logger:     log.WithField("component", "client"),
		now:        o.now,
		uploadOpts: o.uploadOpts,
	}
	c.setDevice(dev)
	return c, nil
}

// setDevice wires everything that depends on the device identity
func (c *Client) setDevice(d *device.Identity) {
	c.device = d
	c.builder = request.NewBuilder(d, signature.NewSigner(c.cfg.API.SignatureKey, c.cfg.API.SignatureKeyVersion))

	opts := []upload.Option{upload.WithClock(c.now)}
	if c.cfg.Upload.ChunkSize > 0 {
		opts = append(opts, upload.WithChunkSize(c.cfg.Upload.ChunkSize))
	}
	opts = append(opts, c.uploadOpts...)
	c.uploads = upload.NewEngine(c.transport, c.builder, d, c.endpoints, c.logger, opts...)
}

// Device returns the emulated device
func (c *Client) Device() *device.Identity {
	return c.device
}

// Session returns a snapshot of the session
func (c *Client) Session() session.Data {
	return c.session.Snapshot()
}

func (c *Client) IsAuthenticated() bool {
	return c.session.Snapshot().Authenticated
}

// authenticated returns the session snapshot an authenticated call works
// with, or a precondition error before anything is sent.
func (c *Client) authenticated() (session.Data, error) {
	data := c.session.Snapshot()
	if err := data.RequireAuthenticated(); err != nil {
		return data, err
	}
	return data, nil
}

func (c *Client) authFields(data session.Data) authFields {
	return authFields{
		UUID:      c.device.DeviceGUID.String(),
		UID:       data.LoggedInUser.Pk,
		CSRFToken: data.CSRFToken,
	}
}

// send executes d and maps a non-2xx status to an unexpected_status error
// carrying the raw body.
func (c *Client) send(ctx context.Context, d *request.Descriptor) ([]byte, error) {
	resp, err := c.transport.Send(ctx, d)
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		c.logger.WarnWithFields("Unexpected response status", map[string]interface{}{
			"method":      d.Method,
			"url":         d.URI,
			"status_code": resp.StatusCode,
		})
		return nil, errors.UnexpectedStatus(resp.StatusCode, string(resp.Body))
	}
	return resp.Body, nil
}

func getJSON[T any](ctx context.Context, c *Client, uri string) (*T, error) {
	body, err := c.send(ctx, c.builder.Plain(http.MethodGet, uri))
	if err != nil {
		return nil, err
	}
	return decode[T](body)
}

func postSigned[T any](ctx context.Context, c *Client, uri string, payload interface{}) (*T, error) {
	d, err := c.builder.Signed(http.MethodPost, uri, payload)
	if err != nil {
		return nil, err
	}
	body, err := c.send(ctx, d)
	if err != nil {
		return nil, err
	}
	return decode[T](body)
}

// Login authenticates the configured account. The session is written once,
// after the login response was accepted; a failed or cancelled login leaves
// it untouched.
func (c *Client) Login(ctx context.Context) error {
	data := c.session.Snapshot()
	if err := data.RequireCredentials(); err != nil {
		return err
	}
	log := c.logger.WithField("username", data.UserName)

	// The first contact hands out the csrf cookie
	root := c.endpoints.Root()
	if _, err := c.transport.Send(ctx, c.builder.Plain(http.MethodGet, root.String())); err != nil {
		return err
	}
	csrf := ""
	for _, ck := range c.transport.Cookies(root) {
		if ck.Name == csrfCookie {
			csrf = ck.Value
		}
	}
	if csrf == "" {
		log.Warn("No csrf cookie received, logging in without one")
	}

	payload := loginPayload{
		PhoneID:           c.device.PhoneGUID.String(),
		CSRFToken:         csrf,
		Username:          data.UserName,
		GUID:              c.device.DeviceGUID.String(),
		DeviceID:          c.device.DeviceID,
		Password:          data.Password,
		LoginAttemptCount: "0",
	}
	resp, err := postSigned[loginResponse](ctx, c, c.endpoints.Login(), payload)
	if err != nil {
		log.WithError(err).Error("Login failed")
		return err
	}
	if resp.LoggedInUser == nil {
		return errors.Protocol("login response has no logged_in_user")
	}
	if resp.LoggedInUser.UserName != data.UserName {
		return errors.Protocol("login returned user %q, expected %q", resp.LoggedInUser.UserName, data.UserName)
	}

	user := session.User{
		Pk:       string(resp.LoggedInUser.Pk),
		UserName: resp.LoggedInUser.UserName,
		FullName: resp.LoggedInUser.FullName,
	}
	c.session.Commit(csrf, session.RankToken(user.Pk, c.device.PhoneGUID.String()), user)

	log.WithField("user_pk", user.Pk).Info("Logged in")
	return nil
}

// Logout ends the session on the server and forgets the authentication
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.authenticated(); err != nil {
		return err
	}

	resp, err := getJSON[statusResponse](ctx, c, c.endpoints.Logout())
	if err != nil {
		return err
	}
	if !resp.ok() {
		return errors.Protocol("logout returned status %q: %s", resp.Status, resp.Message)
	}

	c.session.Invalidate()
	c.logger.Info("Logged out")
	return nil
}

// Checkpoint visits a challenge URL returned by the server
func (c *Client) Checkpoint(ctx context.Context, checkpointURL string) error {
	if checkpointURL == "" {
		return errors.InvalidArgument("empty checkpoint URL")
	}
	_, err := c.send(ctx, c.builder.Plain(http.MethodGet, checkpointURL))
	return err
}
