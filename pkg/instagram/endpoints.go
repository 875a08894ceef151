package instagram

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the private API root the mobile application talks to
	DefaultBaseURL = "https://i.instagram.com/api/v1/"

	loginPath          = "accounts/login/"
	logoutPath         = "accounts/logout/"
	currentUserPath    = "accounts/current_user/"
	searchUsersPath    = "users/search/"
	timelineFeedPath   = "feed/timeline/"
	userFeedPath       = "feed/user/%s/"
	tagFeedPath        = "feed/tag/%s/"
	likedFeedPath      = "feed/liked/"
	mediaInfoPath      = "media/%s/info/"
	likePath           = "media/%s/like/"
	unlikePath         = "media/%s/unlike/"
	likersPath         = "media/%s/likers/"
	commentsPath       = "media/%s/comments/"
	commentPath        = "media/%s/comment/"
	deleteCommentPath  = "media/%s/comment/%s/delete/"
	editMediaPath      = "media/%s/edit_media/"
	deleteMediaPath    = "media/%s/delete/"
	followersPath      = "friendships/%s/followers/"
	followingPath      = "friendships/%s/following/"
	followPath         = "friendships/create/%s/"
	unfollowPath       = "friendships/destroy/%s/"
	friendshipPath     = "friendships/show/%s/"
	recentActivityPath = "news/inbox/"
	followingNewsPath  = "news/"
	uploadPhotoPath    = "upload/photo/"
	uploadVideoPath    = "upload/video/"
	configurePath      = "media/configure/"
)

// Endpoints resolves logical operations to absolute URLs under one API root
type Endpoints struct {
	base *url.URL
}

// NewEndpoints creates the catalog for baseURL, which must be absolute
func NewEndpoints(baseURL string) (*Endpoints, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &Endpoints{base: u}, nil
}

// Root returns the host root; the first contact with it yields the csrf cookie
func (e *Endpoints) Root() *url.URL {
	return &url.URL{Scheme: e.base.Scheme, Host: e.base.Host, Path: "/"}
}

func (e *Endpoints) resolve(path string, query url.Values) string {
	u := *e.base
	u.Path = e.base.Path + path
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// withMaxID adds the max_id continuation parameter when token is set
func withMaxID(q url.Values, token string) url.Values {
	if token == "" {
		return q
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("max_id", token)
	return q
}

func (e *Endpoints) Login() string       { return e.resolve(loginPath, nil) }
func (e *Endpoints) Logout() string      { return e.resolve(logoutPath, nil) }
func (e *Endpoints) CurrentUser() string { return e.resolve(currentUserPath, url.Values{"edit": {"true"}}) }

// SearchUsers returns the user search URL for query
func (e *Endpoints) SearchUsers(query string) string {
	return e.resolve(searchUsersPath, url.Values{"q": {query}})
}

func (e *Endpoints) TimelineFeed(maxID string) string {
	return e.resolve(timelineFeedPath, withMaxID(nil, maxID))
}

func (e *Endpoints) UserFeed(userPk, maxID string) string {
	return e.resolve(fmt.Sprintf(userFeedPath, userPk), withMaxID(nil, maxID))
}

func (e *Endpoints) TagFeed(tag, maxID string) string {
	return e.resolve(fmt.Sprintf(tagFeedPath, tag), withMaxID(nil, maxID))
}

func (e *Endpoints) LikedFeed(maxID string) string {
	return e.resolve(likedFeedPath, withMaxID(nil, maxID))
}

func (e *Endpoints) MediaInfo(mediaID string) string {
	return e.resolve(fmt.Sprintf(mediaInfoPath, mediaID), nil)
}

func (e *Endpoints) Like(mediaID string) string {
	return e.resolve(fmt.Sprintf(likePath, mediaID), nil)
}

func (e *Endpoints) Unlike(mediaID string) string {
	return e.resolve(fmt.Sprintf(unlikePath, mediaID), nil)
}

func (e *Endpoints) Likers(mediaID string) string {
	return e.resolve(fmt.Sprintf(likersPath, mediaID), nil)
}

func (e *Endpoints) Comments(mediaID, maxID string) string {
	return e.resolve(fmt.Sprintf(commentsPath, mediaID), withMaxID(nil, maxID))
}

func (e *Endpoints) Comment(mediaID string) string {
	return e.resolve(fmt.Sprintf(commentPath, mediaID), nil)
}

func (e *Endpoints) DeleteComment(mediaID, commentID string) string {
	return e.resolve(fmt.Sprintf(deleteCommentPath, mediaID, commentID), nil)
}

func (e *Endpoints) EditMedia(mediaID string) string {
	return e.resolve(fmt.Sprintf(editMediaPath, mediaID), nil)
}

// DeleteMedia returns the delete URL; the media type goes in the query
func (e *Endpoints) DeleteMedia(mediaID string, mediaType MediaType) string {
	return e.resolve(fmt.Sprintf(deleteMediaPath, mediaID),
		url.Values{"media_type": {mediaType.String()}})
}

// Followers returns a page of a user's followers; the rank token is required
func (e *Endpoints) Followers(userPk, rankToken, maxID string) string {
	return e.resolve(fmt.Sprintf(followersPath, userPk),
		withMaxID(url.Values{"rank_token": {rankToken}}, maxID))
}

func (e *Endpoints) Following(userPk, rankToken, maxID string) string {
	return e.resolve(fmt.Sprintf(followingPath, userPk),
		withMaxID(url.Values{"rank_token": {rankToken}}, maxID))
}

func (e *Endpoints) Follow(userPk string) string {
	return e.resolve(fmt.Sprintf(followPath, userPk), nil)
}

func (e *Endpoints) Unfollow(userPk string) string {
	return e.resolve(fmt.Sprintf(unfollowPath, userPk), nil)
}

func (e *Endpoints) Friendship(userPk string) string {
	return e.resolve(fmt.Sprintf(friendshipPath, userPk), nil)
}

func (e *Endpoints) RecentActivity(maxID string) string {
	return e.resolve(recentActivityPath, withMaxID(nil, maxID))
}

func (e *Endpoints) FollowingActivity(maxID string) string {
	return e.resolve(followingNewsPath, withMaxID(nil, maxID))
}

// The four methods below satisfy upload.Catalog.

func (e *Endpoints) UploadPhotoURL() string    { return e.resolve(uploadPhotoPath, nil) }
func (e *Endpoints) UploadVideoURL() string    { return e.resolve(uploadVideoPath, nil) }
func (e *Endpoints) ConfigurePhotoURL() string { return e.resolve(configurePath, nil) }

func (e *Endpoints) ConfigureVideoURL() string {
	return e.resolve(configurePath, url.Values{"video": {"1"}})
}

// IsValidUsername checks if a username is valid according to Instagram rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 30 {
		return false
	}

	// Instagram usernames can only contain letters, numbers, periods, and underscores
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}

// SanitizeUsername strips a leading @ and trailing slashes or spaces
func SanitizeUsername(username string) string {
	username = strings.TrimPrefix(username, "@")
	return strings.TrimRight(username, "/ ")
}
