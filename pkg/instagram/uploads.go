package instagram

import (
	"context"

	"igmobile/pkg/errors"
	"igmobile/pkg/upload"
)

// UploadPhoto uploads a JPEG and publishes it with caption
func (c *Client) UploadPhoto(ctx context.Context, image upload.Image, caption string) (*Media, error) {
	data, err := c.authenticated()
	if err != nil {
		return nil, err
	}
	res, err := c.uploads.UploadPhoto(ctx, upload.Auth{CSRFToken: data.CSRFToken, UserPk: data.LoggedInUser.Pk}, image, caption)
	if err != nil {
		return nil, err
	}
	return configuredMedia(res.Body)
}

// UploadVideo uploads an MP4 in two chunks plus its thumbnail and publishes
// it with caption.
func (c *Client) UploadVideo(ctx context.Context, video upload.Video, thumbnail upload.Image, caption string) (*Media, error) {
	data, err := c.authenticated()
	if err != nil {
		return nil, err
	}
	res, err := c.uploads.UploadVideo(ctx, upload.Auth{CSRFToken: data.CSRFToken, UserPk: data.LoggedInUser.Pk}, video, thumbnail, caption)
	if err != nil {
		return nil, err
	}
	return configuredMedia(res.Body)
}

func configuredMedia(body []byte) (*Media, error) {
	resp, err := decode[configureResponse](body)
	if err != nil {
		return nil, err
	}
	if resp.Media == nil {
		return nil, errors.Protocol("configure response has no media (status %q)", resp.Status)
	}
	m := convertMedia(*resp.Media)
	return &m, nil
}
