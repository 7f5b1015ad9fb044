package session

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharecal/internal/storage"
)

func TestGenerateShareToken(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		token, err := generateShareToken(ShareTokenLength)
		require.NoError(t, err)
		require.Len(t, token, ShareTokenLength)

		for _, r := range token {
			assert.True(t, strings.ContainsRune(shareTokenAlphabet, r),
				"token %q contains %q outside the alphabet", token, r)
		}

		assert.False(t, seen[token], "token %q generated twice in 100 draws", token)
		seen[token] = true
	}
}

// collidingCalendarStore wraps a real store and reports a share-token
// collision for the first `collisions` update attempts.
type collidingCalendarStore struct {
	storage.CalendarStore
	collisions int
	attempts   int
}

func (c *collidingCalendarStore) UpdateShareURL(ctx context.Context, calendarID int64, token *string) error {
	c.attempts++
	if c.attempts <= c.collisions {
		return storage.ErrShareTokenTaken
	}
	return c.CalendarStore.UpdateShareURL(ctx, calendarID, token)
}

func TestSession_NewShareURL_RetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	s := registerTestUser(t, ctx, repo, "alice", "pw123secret")

	colliding := &collidingCalendarStore{CalendarStore: repo.Calendars, collisions: 3}
	repo.Calendars = colliding

	token, err := s.NewShareURL(ctx)
	require.NoError(t, err)
	assert.Len(t, token, ShareTokenLength)
	assert.Equal(t, 4, colliding.attempts, "three collisions then one success")

	// The persisted token matches what the session reports
	cal, err := repo.Calendars.GetCalendarByShareURL(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, s.Calendar().ID, cal.ID)
}

func TestSession_NewShareURL_GivesUpPastTheCap(t *testing.T) {
	ctx := context.Background()
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	s := registerTestUser(t, ctx, repo, "alice", "pw123secret")

	// Storage that never accepts a token must not spin forever
	colliding := &collidingCalendarStore{CalendarStore: repo.Calendars, collisions: maxShareTokenAttempts + 10}
	repo.Calendars = colliding

	_, err := s.NewShareURL(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrShareTokenTaken)
	assert.LessOrEqual(t, colliding.attempts, maxShareTokenAttempts+1)
}

func TestSession_NewShareURL_RotatesToken(t *testing.T) {
	ctx := context.Background()
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	s := registerTestUser(t, ctx, repo, "alice", "pw123secret")

	first, err := s.NewShareURL(ctx)
	require.NoError(t, err)

	second, err := s.NewShareURL(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// The old token stops resolving once rotated
	_, err = repo.Calendars.GetCalendarByShareURL(ctx, first)
	assert.ErrorIs(t, err, storage.ErrCalendarNotFound)
}

func TestSession_ShareTokens_UniqueAcrossCalendars(t *testing.T) {
	ctx := context.Background()
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	alice := registerTestUser(t, ctx, repo, "alice", "pw123secret")
	bob := registerTestUser(t, ctx, repo, "bobby", "pw123secret")

	aliceToken, err := alice.NewShareURL(ctx)
	require.NoError(t, err)
	bobToken, err := bob.NewShareURL(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, aliceToken, bobToken)
}
