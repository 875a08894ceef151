package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threePages serves pages "a", "b", "c" linked by tokens t1 and t2. A page
// listed in failOn returns an error instead.
type threePages struct {
	calls  int
	tokens []string
	failOn map[string]bool
}

func (s *threePages) first(ctx context.Context) ([]string, Cursor, error) {
	s.calls++
	if s.failOn[""] {
		return nil, Cursor{}, errors.New("first page failed")
	}
	return []string{"a"}, Cursor{Token: "t1", MoreAvailable: true}, nil
}

func (s *threePages) next(ctx context.Context, token string) ([]string, Cursor, error) {
	s.calls++
	s.tokens = append(s.tokens, token)
	if s.failOn[token] {
		return nil, Cursor{}, errors.New("boom")
	}
	switch token {
	case "t1":
		return []string{"b"}, Cursor{Token: "t2", MoreAvailable: true}, nil
	case "t2":
		return []string{"c"}, Cursor{MoreAvailable: false}, nil
	}
	return nil, Cursor{}, errors.New("unknown token")
}

func TestPaginateUnbounded(t *testing.T) {
	s := &threePages{}
	page, err := Paginate[string](context.Background(), 0, s.first, s.next, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, page.Items)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, []string{"t1", "t2"}, s.tokens)
	assert.False(t, page.Partial())
	assert.Empty(t, page.Warning)
}

func TestPaginateMaxPages(t *testing.T) {
	s := &threePages{}
	page, err := Paginate[string](context.Background(), 2, s.first, s.next, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, page.Items)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 2, s.calls)
	assert.Equal(t, Cursor{Token: "t2", MoreAvailable: true}, page.Cursor)
}

func TestPaginateMaxPagesOne(t *testing.T) {
	s := &threePages{}
	page, err := Paginate[string](context.Background(), 1, s.first, s.next, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, page.Items)
	assert.Equal(t, 1, s.calls)
}

func TestPaginateLaterPageFailureIsPartial(t *testing.T) {
	s := &threePages{failOn: map[string]bool{"t1": true}}
	page, err := Paginate[string](context.Background(), 0, s.first, s.next, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, page.Items)
	assert.Equal(t, 1, page.Pages)
	assert.True(t, page.Partial())
	assert.Equal(t, "not all pages were downloaded: boom", page.Warning)
	assert.EqualError(t, page.Cause, "boom")
}

func TestPaginateFirstPageFailureIsError(t *testing.T) {
	s := &threePages{failOn: map[string]bool{"": true}}
	page, err := Paginate[string](context.Background(), 0, s.first, s.next, nil)

	require.EqualError(t, err, "first page failed")
	assert.Nil(t, page)
}

func TestPaginateStopsOnEmptyToken(t *testing.T) {
	first := func(ctx context.Context) ([]int, Cursor, error) {
		return []int{1, 2}, Cursor{Token: "", MoreAvailable: true}, nil
	}
	next := func(ctx context.Context, token string) ([]int, Cursor, error) {
		t.Fatal("next must not be called")
		return nil, Cursor{}, nil
	}

	page, err := Paginate(context.Background(), 0, first, next, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, page.Items)
	assert.Equal(t, 1, page.Pages)
}

func TestPaginateCustomMerge(t *testing.T) {
	s := &threePages{}
	seen := map[string]bool{}
	dedupe := func(acc, page []string) []string {
		for _, item := range page {
			if !seen[item] {
				seen[item] = true
				acc = append(acc, item)
			}
		}
		return acc
	}

	page, err := Paginate[string](context.Background(), 0, s.first, s.next, dedupe)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, page.Items)
}

func TestCursorDone(t *testing.T) {
	assert.True(t, Cursor{}.Done())
	assert.True(t, Cursor{Token: "x"}.Done())
	assert.True(t, Cursor{MoreAvailable: true}.Done())
	assert.False(t, Cursor{Token: "x", MoreAvailable: true}.Done())
}
