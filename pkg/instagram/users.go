package instagram

import (
	"context"
	"net/http"

	"igmobile/pkg/errors"
	"igmobile/pkg/pagination"
	"igmobile/pkg/request"
)

// GetUser looks up a user by exact user name
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}

	resp, err := getJSON[searchUsersResponse](ctx, c, c.endpoints.SearchUsers(username))
	if err != nil {
		return nil, err
	}
	for _, u := range resp.Users {
		if u.UserName != username {
			continue
		}
		if u.Pk == "" {
			return nil, errors.Protocol("user %q has no pk", username)
		}
		return convertUser(u), nil
	}

	c.logger.WithField("username", username).Info("User not found")
	return nil, errors.NotFound("can't find user %q", username)
}

// GetCurrentUser returns the logged in account
func (c *Client) GetCurrentUser(ctx context.Context) (*CurrentUser, error) {
	data, err := c.authenticated()
	if err != nil {
		return nil, err
	}

	auth := c.authFields(data)
	d := c.builder.Form(http.MethodPost, c.endpoints.CurrentUser(), []request.Field{
		{Name: "_uuid", Value: auth.UUID},
		{Name: "_uid", Value: auth.UID},
		{Name: "_csrftoken", Value: auth.CSRFToken},
	})
	body, err := c.send(ctx, d)
	if err != nil {
		return nil, err
	}
	resp, err := decode[currentUserResponse](body)
	if err != nil {
		return nil, err
	}
	if resp.User == nil || resp.User.Pk == "" {
		return nil, errors.Protocol("current user response has no user pk")
	}

	u := resp.User
	return &CurrentUser{
		UserShort:   convertUserShort(u.userShortResponse),
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Biography:   u.Biography,
		ExternalURL: u.ExternalURL,
		Gender:      u.Gender,
	}, nil
}

// GetFriendshipStatus returns the relation between the current user and userID
func (c *Client) GetFriendshipStatus(ctx context.Context, userID string) (*FriendshipStatus, error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}
	resp, err := getJSON[friendshipResponse](ctx, c, c.endpoints.Friendship(userID))
	if err != nil {
		return nil, err
	}
	return convertFriendship(resp.fields()), nil
}

func (c *Client) Follow(ctx context.Context, userID string) (*FriendshipStatus, error) {
	return c.changeFriendship(ctx, c.endpoints.Follow(userID), userID)
}

func (c *Client) Unfollow(ctx context.Context, userID string) (*FriendshipStatus, error) {
	return c.changeFriendship(ctx, c.endpoints.Unfollow(userID), userID)
}

func (c *Client) changeFriendship(ctx context.Context, uri, userID string) (*FriendshipStatus, error) {
	data, err := c.authenticated()
	if err != nil {
		return nil, err
	}
	resp, err := postSigned[friendshipResponse](ctx, c, uri, friendshipPayload{
		authFields: c.authFields(data),
		UserID:     userID,
		RadioType:  "wifi-none",
	})
	if err != nil {
		return nil, err
	}
	return convertFriendship(resp.fields()), nil
}

// FetchFollowers walks the followers of username. Small accounts are
// answered in one page; only "big lists" are paginated.
func (c *Client) FetchFollowers(ctx context.Context, username string, maxPages int) (*pagination.Page[UserShort], error) {
	return c.fetchUserList(ctx, "followers", username, maxPages, c.endpoints.Followers)
}

// FetchFollowing walks the accounts username follows
func (c *Client) FetchFollowing(ctx context.Context, username string, maxPages int) (*pagination.Page[UserShort], error) {
	return c.fetchUserList(ctx, "following", username, maxPages, c.endpoints.Following)
}

func (c *Client) fetchUserList(ctx context.Context, collection, username string, maxPages int, uri func(pk, rankToken, maxID string) string) (*pagination.Page[UserShort], error) {
	data, err := c.authenticated()
	if err != nil {
		return nil, err
	}
	user, err := c.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	return collect[UserShort](ctx, c, collection, maxPages, func(ctx context.Context, token string) ([]UserShort, pagination.Cursor, error) {
		resp, err := getJSON[userListResponse](ctx, c, uri(user.Pk, data.RankToken, token))
		if err != nil {
			return nil, pagination.Cursor{}, err
		}
		return convertUserShorts(resp.Users), pagination.Cursor{
			Token:         string(resp.NextMaxID),
			MoreAvailable: resp.BigList,
		}, nil
	})
}
