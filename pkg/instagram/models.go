package instagram

import "time"

// MediaType is the kind of a media item
type MediaType int

const (
	MediaTypeImage    MediaType = 1
	MediaTypeVideo    MediaType = 2
	MediaTypeCarousel MediaType = 8
)

func (t MediaType) String() string {
	switch t {
	case MediaTypeImage:
		return "PHOTO"
	case MediaTypeVideo:
		return "VIDEO"
	case MediaTypeCarousel:
		return "CAROUSEL"
	}
	return "UNKNOWN"
}

// UserShort is the compact user record embedded in lists
type UserShort struct {
	Pk            string `json:"pk"`
	UserName      string `json:"username"`
	FullName      string `json:"full_name"`
	IsPrivate     bool   `json:"is_private"`
	IsVerified    bool   `json:"is_verified"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
}

// User is a user found by search
type User struct {
	UserShort
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count,omitempty"`
	MediaCount     int    `json:"media_count,omitempty"`
	Biography      string `json:"biography,omitempty"`
}

// CurrentUser is the logged in account with its private fields
type CurrentUser struct {
	UserShort
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Biography   string `json:"biography,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
	Gender      int    `json:"gender,omitempty"`
}

// Image is one rendition of a picture
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Media is a post in a feed
type Media struct {
	Pk           string        `json:"pk"`
	ID           string        `json:"id"`
	Code         string        `json:"code"`
	Type         MediaType     `json:"media_type"`
	TakenAt      time.Time     `json:"taken_at"`
	User         UserShort     `json:"user"`
	Caption      string        `json:"caption,omitempty"`
	LikeCount    int           `json:"like_count"`
	CommentCount int           `json:"comment_count"`
	HasLiked     bool          `json:"has_liked"`
	Images       []Image       `json:"images,omitempty"`
	Videos       []Image       `json:"videos,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Carousel     []Media       `json:"carousel,omitempty"`
}

// Comment on a media item
type Comment struct {
	Pk        string    `json:"pk"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	User      UserShort `json:"user"`
	LikeCount int       `json:"like_count"`
}

// Activity is one entry of an activity (news) feed
type Activity struct {
	Pk        string    `json:"pk"`
	Type      int       `json:"type"`
	Text      string    `json:"text"`
	ProfileID string    `json:"profile_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Likers of a media item
type Likers struct {
	Count int         `json:"count"`
	Users []UserShort `json:"users"`
}

// FriendshipStatus describes the relation between the current user and another
type FriendshipStatus struct {
	Following       bool `json:"following"`
	FollowedBy      bool `json:"followed_by"`
	Blocking        bool `json:"blocking"`
	IsPrivate       bool `json:"is_private"`
	IncomingRequest bool `json:"incoming_request"`
	OutgoingRequest bool `json:"outgoing_request"`
}
