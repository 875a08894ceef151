package instagram

import (
	"encoding/json"
	"io"
	"net/http"

	"igmobile/pkg/config"
	"igmobile/pkg/device"
	"igmobile/pkg/errors"
	"igmobile/pkg/session"
)

// StateData is the persisted form of a client: device, session and cookies,
// always read and written as one record.
type StateData struct {
	Device          *device.Identity `json:"device"`
	IsAuthenticated bool             `json:"is_authenticated"`
	Session         session.Data     `json:"session"`
	Cookies         []*http.Cookie   `json:"cookies"`
}

// State captures the current client state
func (c *Client) State() StateData {
	data := c.session.Snapshot()
	return StateData{
		Device:          c.device,
		IsAuthenticated: data.Authenticated,
		Session:         data,
		Cookies:         c.transport.Cookies(c.endpoints.Root()),
	}
}

// SaveState writes the client state to w as JSON
func (c *Client) SaveState(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.State()); err != nil {
		return errors.Wrap(errors.ErrorTypeInvalidArgument, err, "failed to write state")
	}
	return nil
}

// LoadState replaces the device, session and cookies with the state read
// from r. It must not run concurrently with other operations.
//
// Credentials from the configuration take precedence; a different user name
// drops the restored authentication.
func (c *Client) LoadState(r io.Reader) error {
	var st StateData
	if err := json.NewDecoder(r).Decode(&st); err != nil {
		return errors.Wrap(errors.ErrorTypeParsing, err, "failed to read state")
	}
	if st.Device == nil {
		return errors.Protocol("state has no device")
	}

	data := st.Session
	data.Authenticated = st.IsAuthenticated
	sess := session.Restore(data)
	if acc := c.cfg.Account; acc.Username != "" {
		password := acc.Password
		if password == "" && acc.Username == data.UserName {
			password = data.Password
		}
		sess.SetCredentials(acc.Username, password)
	}

	c.session = sess
	c.setDevice(st.Device)
	if len(st.Cookies) > 0 {
		c.transport.SetCookies(c.endpoints.Root(), st.Cookies)
	}

	c.logger.WithFields(map[string]interface{}{
		"username":      sess.Snapshot().UserName,
		"authenticated": sess.Snapshot().Authenticated,
	}).Debug("State loaded")
	return nil
}

// LoadClient creates a client from cfg and restores the state read from r
func LoadClient(cfg *config.Config, r io.Reader, opts ...Option) (*Client, error) {
	c, err := NewClient(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.LoadState(r); err != nil {
		return nil, err
	}
	return c, nil
}
