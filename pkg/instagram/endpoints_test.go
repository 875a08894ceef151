package instagram

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEndpoints(t *testing.T) *Endpoints {
	t.Helper()
	e, err := NewEndpoints("https://i.example.test/api/v1")
	require.NoError(t, err)
	return e
}

func TestEndpointURLs(t *testing.T) {
	e := newTestEndpoints(t)

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"login", e.Login(), "https://i.example.test/api/v1/accounts/login/"},
		{"timeline first page", e.TimelineFeed(""), "https://i.example.test/api/v1/feed/timeline/"},
		{"timeline next page", e.TimelineFeed("abc"), "https://i.example.test/api/v1/feed/timeline/?max_id=abc"},
		{"user feed", e.UserFeed("42", ""), "https://i.example.test/api/v1/feed/user/42/"},
		{"media info", e.MediaInfo("1_2"), "https://i.example.test/api/v1/media/1_2/info/"},
		{"delete comment", e.DeleteComment("1_2", "9"), "https://i.example.test/api/v1/media/1_2/comment/9/delete/"},
		{"delete video", e.DeleteMedia("1_2", MediaTypeVideo), "https://i.example.test/api/v1/media/1_2/delete/?media_type=VIDEO"},
		{"follow", e.Follow("42"), "https://i.example.test/api/v1/friendships/create/42/"},
		{"configure video", e.ConfigureVideoURL(), "https://i.example.test/api/v1/media/configure/?video=1"},
		{"upload photo", e.UploadPhotoURL(), "https://i.example.test/api/v1/upload/photo/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestFollowersURLCarriesRankToken(t *testing.T) {
	e := newTestEndpoints(t)

	u, err := url.Parse(e.Followers("42", "42_phone", "next"))
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/friendships/42/followers/", u.Path)
	assert.Equal(t, "42_phone", u.Query().Get("rank_token"))
	assert.Equal(t, "next", u.Query().Get("max_id"))

	u, err = url.Parse(e.Following("42", "42_phone", ""))
	require.NoError(t, err)
	assert.False(t, u.Query().Has("max_id"))
}

func TestSearchUsersEscapesQuery(t *testing.T) {
	e := newTestEndpoints(t)
	u, err := url.Parse(e.SearchUsers("a b&c"))
	require.NoError(t, err)
	assert.Equal(t, "a b&c", u.Query().Get("q"))
}

func TestRoot(t *testing.T) {
	e := newTestEndpoints(t)
	assert.Equal(t, "https://i.example.test/", e.Root().String())
}

func TestNewEndpointsRejectsRelativeURL(t *testing.T) {
	_, err := NewEndpoints("/api/v1/")
	assert.Error(t, err)
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected bool
	}{
		{"valid simple username", "testuser", true},
		{"valid with dots and underscores", "test.user_1", true},
		{"empty", "", false},
		{"too long", "abcdefghijklmnopqrstuvwxyz12345", false},
		{"with dash", "test-user", false},
		{"with at sign", "@testuser", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidUsername(tt.username))
		})
	}
}

func TestSanitizeUsername(t *testing.T) {
	assert.Equal(t, "testuser", SanitizeUsername("@testuser"))
	assert.Equal(t, "testuser", SanitizeUsername("testuser/ "))
	assert.Equal(t, "", SanitizeUsername(""))
}
