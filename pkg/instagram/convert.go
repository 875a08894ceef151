package instagram

import (
	"math"
	"time"
)

func convertUserShort(r userShortResponse) UserShort {
	return UserShort{
		Pk:            string(r.Pk),
		UserName:      r.UserName,
		FullName:      r.FullName,
		IsPrivate:     r.IsPrivate,
		IsVerified:    r.IsVerified,
		ProfilePicURL: r.ProfilePicURL,
	}
}

func convertUserShorts(rs []userShortResponse) []UserShort {
	out := make([]UserShort, 0, len(rs))
	for _, r := range rs {
		out = append(out, convertUserShort(r))
	}
	return out
}

func convertUser(r userResponse) *User {
	return &User{
		UserShort:      convertUserShort(r.userShortResponse),
		FollowerCount:  r.FollowerCount,
		FollowingCount: r.FollowingCount,
		MediaCount:     r.MediaCount,
		Biography:      r.Biography,
	}
}

func convertCandidates(cs []imageCandidate) []Image {
	if len(cs) == 0 {
		return nil
	}
	out := make([]Image, 0, len(cs))
	for _, c := range cs {
		out = append(out, Image{URL: c.URL, Width: c.Width, Height: c.Height})
	}
	return out
}

func convertMedia(r mediaItemResponse) Media {
	m := Media{
		Pk:           string(r.Pk),
		ID:           r.ID,
		Code:         r.Code,
		Type:         MediaType(r.MediaType),
		User:         convertUserShort(r.User),
		LikeCount:    r.LikeCount,
		CommentCount: r.CommentCount,
		HasLiked:     r.HasLiked,
		Videos:       convertCandidates(r.VideoVersions),
	}
	if r.TakenAt > 0 {
		m.TakenAt = time.Unix(r.TakenAt, 0).UTC()
	}
	if r.Caption != nil {
		m.Caption = r.Caption.Text
	}
	if r.ImageVersions2 != nil {
		m.Images = convertCandidates(r.ImageVersions2.Candidates)
	}
	if r.VideoDuration > 0 {
		m.Duration = time.Duration(math.Round(r.VideoDuration * float64(time.Second)))
	}
	for _, c := range r.CarouselMedia {
		m.Carousel = append(m.Carousel, convertMedia(c))
	}
	return m
}

func convertMediaList(rs []mediaItemResponse) []Media {
	out := make([]Media, 0, len(rs))
	for _, r := range rs {
		out = append(out, convertMedia(r))
	}
	return out
}

func convertComment(r commentResponse) Comment {
	c := Comment{
		Pk:        string(r.Pk),
		Text:      r.Text,
		User:      convertUserShort(r.User),
		LikeCount: r.LikeCount,
	}
	if r.CreatedAt > 0 {
		c.CreatedAt = time.Unix(r.CreatedAt, 0).UTC()
	}
	return c
}

func convertComments(rs []commentResponse) []Comment {
	out := make([]Comment, 0, len(rs))
	for _, r := range rs {
		out = append(out, convertComment(r))
	}
	return out
}

func convertActivity(rs []activityStory) []Activity {
	out := make([]Activity, 0, len(rs))
	for _, r := range rs {
		a := Activity{
			Pk:        string(r.Pk),
			Type:      r.Type,
			Text:      r.Args.Text,
			ProfileID: string(r.Args.ProfileID),
		}
		if r.Args.Timestamp > 0 {
			sec, frac := math.Modf(r.Args.Timestamp)
			a.Timestamp = time.Unix(int64(sec), int64(frac*1e9)).UTC()
		}
		out = append(out, a)
	}
	return out
}

func convertFriendship(f friendshipStatusFields) *FriendshipStatus {
	return &FriendshipStatus{
		Following:       f.Following,
		FollowedBy:      f.FollowedBy,
		Blocking:        f.Blocking,
		IsPrivate:       f.IsPrivate,
		IncomingRequest: f.IncomingRequest,
		OutgoingRequest: f.OutgoingRequest,
	}
}
