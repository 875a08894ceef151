package instagram

import (
	"bytes"
	"encoding/json"
	"strings"

	"igmobile/pkg/errors"
)

// ID decodes identifiers the backend sends either as JSON numbers or strings
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// statusMessage is either a plain string or {"errors": [...]}
type statusMessage string

func (m *statusMessage) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = statusMessage(s)
		return nil
	}
	var wrapped struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*m = statusMessage(strings.Join(wrapped.Errors, "\n"))
	return nil
}

// statusResponse is the envelope every response carries
type statusResponse struct {
	Status    string        `json:"status"`
	Message   statusMessage `json:"message,omitempty"`
	ErrorType string        `json:"error_type,omitempty"`
}

func (s statusResponse) ok() bool {
	return s.Status == "ok"
}

type userShortResponse struct {
	Pk            ID     `json:"pk"`
	UserName      string `json:"username"`
	FullName      string `json:"full_name"`
	IsPrivate     bool   `json:"is_private"`
	IsVerified    bool   `json:"is_verified"`
	ProfilePicURL string `json:"profile_pic_url"`
}

type userResponse struct {
	userShortResponse
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	MediaCount     int    `json:"media_count"`
	Biography      string `json:"biography"`
}

type loginResponse struct {
	statusResponse
	LoggedInUser *userShortResponse `json:"logged_in_user"`
}

type searchUsersResponse struct {
	statusResponse
	NumResults int            `json:"num_results"`
	Users      []userResponse `json:"users"`
}

type currentUserResponse struct {
	statusResponse
	User *struct {
		userShortResponse
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
		Biography   string `json:"biography"`
		ExternalURL string `json:"external_url"`
		Gender      int    `json:"gender"`
	} `json:"user"`
}

type imageCandidate struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type captionResponse struct {
	Text string `json:"text"`
}

type mediaItemResponse struct {
	Pk             ID                `json:"pk"`
	ID             string            `json:"id"`
	Code           string            `json:"code"`
	MediaType      int               `json:"media_type"`
	TakenAt        int64             `json:"taken_at"`
	User           userShortResponse `json:"user"`
	Caption        *captionResponse  `json:"caption"`
	LikeCount      int               `json:"like_count"`
	CommentCount   int               `json:"comment_count"`
	HasLiked       bool              `json:"has_liked"`
	VideoDuration  float64           `json:"video_duration"`
	ImageVersions2 *struct {
		Candidates []imageCandidate `json:"candidates"`
	} `json:"image_versions2"`
	VideoVersions []imageCandidate    `json:"video_versions"`
	CarouselMedia []mediaItemResponse `json:"carousel_media"`
}

// mediaListResponse covers user feeds, the liked feed, tag feeds and media info
type mediaListResponse struct {
	statusResponse
	Items         []mediaItemResponse `json:"items"`
	RankedItems   []mediaItemResponse `json:"ranked_items"`
	NumResults    int                 `json:"num_results"`
	MoreAvailable bool                `json:"more_available"`
	NextMaxID     ID                  `json:"next_max_id"`
}

// timelineResponse wraps media in feed_items; older versions use items
type timelineResponse struct {
	mediaListResponse
	FeedItems []struct {
		MediaOrAd *mediaItemResponse `json:"media_or_ad"`
	} `json:"feed_items"`
}

func (r *timelineResponse) media() []mediaItemResponse {
	items := r.Items
	for _, fi := range r.FeedItems {
		if fi.MediaOrAd != nil {
			items = append(items, *fi.MediaOrAd)
		}
	}
	return items
}

type userListResponse struct {
	statusResponse
	Users     []userShortResponse `json:"users"`
	BigList   bool                `json:"big_list"`
	PageSize  int                 `json:"page_size"`
	NextMaxID ID                  `json:"next_max_id"`
}

type commentResponse struct {
	Pk        ID                `json:"pk"`
	Text      string            `json:"text"`
	CreatedAt int64             `json:"created_at"`
	User      userShortResponse `json:"user"`
	LikeCount int               `json:"comment_like_count"`
}

type commentListResponse struct {
	statusResponse
	Comments              []commentResponse `json:"comments"`
	CommentCount          int               `json:"comment_count"`
	MoreCommentsAvailable bool              `json:"has_more_comments"`
	NextMaxID             ID                `json:"next_max_id"`
}

type postCommentResponse struct {
	statusResponse
	Comment *commentResponse `json:"comment"`
}

type activityStory struct {
	Pk   ID  `json:"pk"`
	Type int `json:"type"`
	Args struct {
		Text      string  `json:"text"`
		ProfileID ID      `json:"profile_id"`
		Timestamp float64 `json:"timestamp"`
	} `json:"args"`
}

// activityResponse serves both news feeds. The own inbox splits stories into
// new and old; the following feed uses stories.
type activityResponse struct {
	statusResponse
	Stories    []activityStory `json:"stories"`
	NewStories []activityStory `json:"new_stories"`
	OldStories []activityStory `json:"old_stories"`
	NextMaxID  ID              `json:"next_max_id"`
}

func (r *activityResponse) all() []activityStory {
	out := make([]activityStory, 0, len(r.NewStories)+len(r.OldStories)+len(r.Stories))
	out = append(out, r.NewStories...)
	out = append(out, r.OldStories...)
	return append(out, r.Stories...)
}

type likersResponse struct {
	statusResponse
	Users     []userShortResponse `json:"users"`
	UserCount int                 `json:"user_count"`
}

type friendshipStatusFields struct {
	Following       bool `json:"following"`
	FollowedBy      bool `json:"followed_by"`
	Blocking        bool `json:"blocking"`
	IsPrivate       bool `json:"is_private"`
	IncomingRequest bool `json:"incoming_request"`
	OutgoingRequest bool `json:"outgoing_request"`
}

// friendshipResponse is flat for friendships/show and nested under
// friendship_status for create and destroy.
type friendshipResponse struct {
	statusResponse
	friendshipStatusFields
	FriendshipStatus *friendshipStatusFields `json:"friendship_status"`
}

func (r *friendshipResponse) fields() friendshipStatusFields {
	if r.FriendshipStatus != nil {
		return *r.FriendshipStatus
	}
	return r.friendshipStatusFields
}

type deleteMediaResponse struct {
	statusResponse
	DidDelete bool `json:"did_delete"`
}

type configureResponse struct {
	statusResponse
	Media *mediaItemResponse `json:"media"`
}

// decode parses body into a new T
func decode[T any](body []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeParsing, err, "failed to parse JSON response")
	}
	return &v, nil
}
