// Package session holds the authentication state of one client.
package session

import (
	"fmt"
	"sync"

	"igmobile/pkg/errors"
)

// User is the account the session is logged in as
type User struct {
	Pk       string `json:"pk"`
	UserName string `json:"username"`
	FullName string `json:"full_name"`
}

// Data is an immutable view of the session
type Data struct {
	UserName      string `json:"username"`
	Password      string `json:"password"`
	CSRFToken     string `json:"csrf_token"`
	RankToken     string `json:"rank_token"`
	LoggedInUser  User   `json:"logged_in_user"`
	Authenticated bool   `json:"is_authenticated"`
}

// Session is the mutable session state. Reads go through Snapshot; writes
// happen only through Commit and Invalidate, which the client calls from
// Login and Logout.
type Session struct {
	mu   sync.RWMutex
	data Data
}

// New creates an unauthenticated session for the given credentials
func New(userName, password string) *Session {
	return &Session{data: Data{UserName: userName, Password: password}}
}

// Restore creates a session from persisted data
func Restore(d Data) *Session {
	return &Session{data: d}
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// SetCredentials replaces the user name and password. It drops any
// authentication, since it no longer belongs to these credentials.
func (s *Session) SetCredentials(userName, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.UserName != userName {
		s.data = Data{}
	}
	s.data.UserName = userName
	s.data.Password = password
}

// Commit records a successful login in one step
func (s *Session) Commit(csrfToken, rankToken string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.CSRFToken = csrfToken
	s.data.RankToken = rankToken
	s.data.LoggedInUser = user
	s.data.Authenticated = user.UserName == s.data.UserName
}

// Invalidate forgets the authentication but keeps the credentials
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = Data{UserName: s.data.UserName, Password: s.data.Password}
}

// RankToken builds the rank token for a user pk and phone id
func RankToken(userPk, phoneID string) string {
	return fmt.Sprintf("%s_%s", userPk, phoneID)
}

// RequireCredentials fails unless a user name and password are set
func (d Data) RequireCredentials() error {
	if d.UserName == "" || d.Password == "" {
		return errors.Precondition("user name and password must be set")
	}
	return nil
}

// RequireAuthenticated fails unless the session is logged in
func (d Data) RequireAuthenticated() error {
	if err := d.RequireCredentials(); err != nil {
		return err
	}
	if !d.Authenticated {
		return errors.Precondition("user must be authenticated")
	}
	return nil
}
