package instagram

import (
	"context"

	"igmobile/pkg/logger"
	"igmobile/pkg/pagination"
)

// pageFetcher fetches one page; an empty token means the first page
type pageFetcher[T any] func(ctx context.Context, token string) ([]T, pagination.Cursor, error)

// collect drives fetch through the pagination driver and logs partial results
func collect[T any](ctx context.Context, c *Client, collection string, maxPages int, fetch pageFetcher[T]) (*pagination.Page[T], error) {
	first := func(ctx context.Context) ([]T, pagination.Cursor, error) {
		return fetch(ctx, "")
	}

	page, err := pagination.Paginate[T](ctx, maxPages, first, pagination.FetchNext[T](fetch), nil)
	if err != nil {
		return nil, err
	}
	if page.Partial() {
		logger.LogPartialPages(c.logger, collection, page.Pages, page.Cause)
	}
	c.logger.DebugWithFields("Collection fetched", map[string]interface{}{
		"collection": collection,
		"pages":      page.Pages,
		"items":      len(page.Items),
	})
	return page, nil
}

// mediaPages adapts a media list endpoint to a page fetcher
func mediaPages(c *Client, uri func(token string) string) pageFetcher[Media] {
	return func(ctx context.Context, token string) ([]Media, pagination.Cursor, error) {
		resp, err := getJSON[mediaListResponse](ctx, c, uri(token))
		if err != nil {
			return nil, pagination.Cursor{}, err
		}
		items := append(resp.RankedItems, resp.Items...)
		return convertMediaList(items), pagination.Cursor{
			Token:         string(resp.NextMaxID),
			MoreAvailable: resp.MoreAvailable,
		}, nil
	}
}

// FetchTimelineFeed walks the home timeline. maxPages 0 means all pages.
func (c *Client) FetchTimelineFeed(ctx context.Context, maxPages int) (*pagination.Page[Media], error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}
	return collect[Media](ctx, c, "timeline", maxPages, func(ctx context.Context, token string) ([]Media, pagination.Cursor, error) {
		resp, err := getJSON[timelineResponse](ctx, c, c.endpoints.TimelineFeed(token))
		if err != nil {
			return nil, pagination.Cursor{}, err
		}
		return convertMediaList(resp.media()), pagination.Cursor{
			Token:         string(resp.NextMaxID),
			MoreAvailable: resp.MoreAvailable,
		}, nil
	})
}

// FetchUserMedia walks the posts of username
func (c *Client) FetchUserMedia(ctx context.Context, username string, maxPages int) (*pagination.Page[Media], error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}
	user, err := c.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return collect[Media](ctx, c, "user_media", maxPages, mediaPages(c, func(token string) string {
		return c.endpoints.UserFeed(user.Pk, token)
	}))
}

// FetchTagFeed walks the posts for a hashtag, ranked posts first
func (c *Client) FetchTagFeed(ctx context.Context, tag string, maxPages int) (*pagination.Page[Media], error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}
	return collect[Media](ctx, c, "tag", maxPages, mediaPages(c, func(token string) string {
		return c.endpoints.TagFeed(tag, token)
	}))
}

// FetchLikeFeed walks the posts the current user liked
func (c *Client) FetchLikeFeed(ctx context.Context, maxPages int) (*pagination.Page[Media], error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}
	return collect[Media](ctx, c, "liked", maxPages, mediaPages(c, c.endpoints.LikedFeed))
}

// FetchRecentActivity walks the current user's own activity inbox
func (c *Client) FetchRecentActivity(ctx context.Context, maxPages int) (*pagination.Page[Activity], error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}
	return collect[Activity](ctx, c, "recent_activity", maxPages, activityPages(c, c.endpoints.RecentActivity))
}

// FetchFollowingActivity walks the activity of the accounts the user follows
func (c *Client) FetchFollowingActivity(ctx context.Context, maxPages int) (*pagination.Page[Activity], error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}
	return collect[Activity](ctx, c, "following_activity", maxPages, activityPages(c, c.endpoints.FollowingActivity))
}

// activityPages continues for as long as a next_max_id is handed out
func activityPages(c *Client, uri func(token string) string) pageFetcher[Activity] {
	return func(ctx context.Context, token string) ([]Activity, pagination.Cursor, error) {
		resp, err := getJSON[activityResponse](ctx, c, uri(token))
		if err != nil {
			return nil, pagination.Cursor{}, err
		}
		next := string(resp.NextMaxID)
		return convertActivity(resp.all()), pagination.Cursor{Token: next, MoreAvailable: next != ""}, nil
	}
}
