package state

import (
	"bytes"
	"errors"
	"fmt"

	"igmobile/pkg/config"
	"igmobile/pkg/instagram"
)

// SaveClient persists the state of c under key
func SaveClient(store Store, key string, c *instagram.Client) error {
	var buf bytes.Buffer
	if err := c.SaveState(&buf); err != nil {
		return err
	}
	if err := store.Save(key, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save client state: %w", err)
	}
	return nil
}

// LoadClient restores the client saved under key. A missing record yields a
// fresh client; found reports which of the two happened.
func LoadClient(store Store, key string, cfg *config.Config, opts ...instagram.Option) (c *instagram.Client, found bool, err error) {
	data, err := store.Load(key)
	switch {
	case errors.Is(err, ErrNotFound):
		c, err = instagram.NewClient(cfg, opts...)
		return c, false, err
	case err != nil:
		return nil, false, fmt.Errorf("failed to load client state: %w", err)
	}

	c, err = instagram.LoadClient(cfg, bytes.NewReader(data), opts...)
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}
