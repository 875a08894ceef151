package instagram

import (
	"context"
	"math/rand"

	"github.com/google/uuid"

	"igmobile/pkg/errors"
	"igmobile/pkg/pagination"
	"igmobile/pkg/signature"
)

// GetMedia fetches a single media item
func (c *Client) GetMedia(ctx context.Context, mediaID string) (*Media, error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}
	resp, err := getJSON[mediaListResponse](ctx, c, c.endpoints.MediaInfo(mediaID))
	if err != nil {
		return nil, err
	}
	if len(resp.Items) != 1 {
		c.logger.WithField("media_id", mediaID).Info("Wrong media count in media info")
		return nil, errors.Protocol("got %d media items for media id %s, expected 1", len(resp.Items), mediaID)
	}
	m := convertMedia(resp.Items[0])
	return &m, nil
}

func (c *Client) GetMediaLikers(ctx context.Context, mediaID string) (*Likers, error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}
	resp, err := getJSON[likersResponse](ctx, c, c.endpoints.Likers(mediaID))
	if err != nil {
		return nil, err
	}
	return &Likers{Count: resp.UserCount, Users: convertUserShorts(resp.Users)}, nil
}

func (c *Client) Like(ctx context.Context, mediaID string) error {
	return c.likeOrUnlike(ctx, c.endpoints.Like(mediaID), mediaID)
}

func (c *Client) Unlike(ctx context.Context, mediaID string) error {
	return c.likeOrUnlike(ctx, c.endpoints.Unlike(mediaID), mediaID)
}

func (c *Client) likeOrUnlike(ctx context.Context, uri, mediaID string) error {
	data, err := c.authenticated()
	if err != nil {
		return err
	}
	_, err = postSigned[statusResponse](ctx, c, uri, mediaPayload{
		authFields: c.authFields(data),
		MediaID:    mediaID,
	})
	return err
}

// EditMedia replaces the caption of a post
func (c *Client) EditMedia(ctx context.Context, mediaID, caption string) error {
	data, err := c.authenticated()
	if err != nil {
		return err
	}
	_, err = postSigned[statusResponse](ctx, c, c.endpoints.EditMedia(mediaID), editMediaPayload{
		authFields:  c.authFields(data),
		CaptionText: caption,
	})
	return err
}

// DeleteMedia deletes a post and reports whether the server did
func (c *Client) DeleteMedia(ctx context.Context, mediaID string, mediaType MediaType) (bool, error) {
	data, err := c.authenticated()
	if err != nil {
		return false, err
	}
	resp, err := postSigned[deleteMediaResponse](ctx, c, c.endpoints.DeleteMedia(mediaID, mediaType), mediaPayload{
		authFields: c.authFields(data),
		MediaID:    mediaID,
	})
	if err != nil {
		return false, err
	}
	return resp.DidDelete, nil
}

// FetchComments walks the comments of a media item, newest page first
func (c *Client) FetchComments(ctx context.Context, mediaID string, maxPages int) (*pagination.Page[Comment], error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}
	return collect[Comment](ctx, c, "comments", maxPages, func(ctx context.Context, token string) ([]Comment, pagination.Cursor, error) {
		resp, err := getJSON[commentListResponse](ctx, c, c.endpoints.Comments(mediaID, token))
		if err != nil {
			return nil, pagination.Cursor{}, err
		}
		return convertComments(resp.Comments), pagination.Cursor{
			Token:         string(resp.NextMaxID),
			MoreAvailable: resp.MoreCommentsAvailable,
		}, nil
	})
}

// CommentMedia posts a comment
func (c *Client) CommentMedia(ctx context.Context, mediaID, text string) (*Comment, error) {
	data, err := c.authenticated()
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, errors.InvalidArgument("comment text is empty")
	}

	now := c.now()
	resp, err := postSigned[postCommentResponse](ctx, c, c.endpoints.Comment(mediaID), commentPayload{
		UserBreadcrumb:   signature.Breadcrumb(text, now, rand.New(rand.NewSource(now.UnixNano()))),
		IdempotenceToken: uuid.NewString(),
		authFields:       c.authFields(data),
		CommentText:      text,
		ContainerModule:  "comments_feed_timeline",
		RadioType:        "wifi-none",
	})
	if err != nil {
		return nil, err
	}
	if resp.Comment == nil {
		return nil, errors.Protocol("comment response has no comment")
	}
	comment := convertComment(*resp.Comment)
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, mediaID, commentID string) error {
	data, err := c.authenticated()
	if err != nil {
		return err
	}
	_, err = postSigned[statusResponse](ctx, c, c.endpoints.DeleteComment(mediaID, commentID), c.authFields(data))
	return err
}
