package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ana := seedUser(t, db, "anabela", "ana@example.com")
	bia := seedUser(t, db, "biancam", "bia@example.com")

	require.NoError(t, svc.Follow(ana.ID, bia.ID))
	require.NoError(t, svc.Follow(ana.ID, bia.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFollowRejectsSelfAndUnknown(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ana := seedUser(t, db, "anabela", "ana@example.com")

	assert.ErrorIs(t, svc.Follow(ana.ID, ana.ID), ErrSelfFollow)
	assert.ErrorIs(t, svc.Follow(ana.ID, uuid.New()), ErrUserNotFound)
}

func TestUnfollowMissingEdgeSucceeds(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ana := seedUser(t, db, "anabela", "ana@example.com")
	bia := seedUser(t, db, "biancam", "bia@example.com")

	require.NoError(t, svc.Unfollow(ana.ID, bia.ID))

	require.NoError(t, svc.Follow(ana.ID, bia.ID))
	require.NoError(t, svc.Unfollow(ana.ID, bia.ID))

	following, err := svc.IsFollowing(ana.ID, bia.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestAmiguesRequiresMutualFollow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ana := seedUser(t, db, "anabela", "ana@example.com")
	bia := seedUser(t, db, "biancam", "bia@example.com")
	caio := seedUser(t, db, "caiozin", "caio@example.com")

	// ana <-> bia mutual, ana -> caio one-way.
	require.NoError(t, svc.Follow(ana.ID, bia.ID))
	require.NoError(t, svc.Follow(bia.ID, ana.ID))
	require.NoError(t, svc.Follow(ana.ID, caio.ID))

	amigues, err := svc.Amigues(ana.ID)
	require.NoError(t, err)
	require.Len(t, amigues, 1)
	assert.Equal(t, "biancam", amigues[0].Username)

	counts, err := svc.Counts(ana.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.Followers)
	assert.EqualValues(t, 2, counts.Following)
	assert.EqualValues(t, 1, counts.Amigues)
}

func TestFollowersAndFollowing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ana := seedUser(t, db, "anabela", "ana@example.com")
	bia := seedUser(t, db, "biancam", "bia@example.com")

	require.NoError(t, svc.Follow(bia.ID, ana.ID))

	followers, err := svc.Followers(ana.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "biancam", followers[0].Username)

	following, err := svc.Following(bia.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "anabela", following[0].Username)
}
