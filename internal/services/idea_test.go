package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/ideabox-backend/internal/data/repos/testutil"
	types "github.com/yungbote/ideabox-backend/internal/domain"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/validation"
)

func meditationInput() validation.IdeaInput {
	return validation.IdeaInput{
		Title:       str("Meditation App"),
		Description: str("Gamified meditation"),
		Category:    str("health"),
		Subcategory: str("wellness"),
		Priority:    str("media"),
	}
}

func TestIdeaLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	svc := NewIdeaService(testutil.Logger(t), f.ideas, newStepClock(time.Now(), time.Millisecond).Now)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, meditationInput())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, types.StatusNew, created.Status)
	assert.False(t, created.IsFavorite)
	assert.Equal(t, types.LevelMedium, created.Priority)
	assert.Equal(t, []string{}, created.TagList())

	toggled, err := svc.ToggleFavorite(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)

	deleted, err := svc.Delete(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.Get(ctx, created.ID, owner)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	deleted, err = svc.Delete(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestIdeaCreateIgnoresClientStatus(t *testing.T) {
	f := newFixture(t)
	svc := NewIdeaService(testutil.Logger(t), f.ideas, nil)
	in := meditationInput()
	in.Status = str("completed")
	created, err := svc.Create(context.Background(), uuid.New(), in)
	require.NoError(t, err)
	assert.Equal(t, types.StatusNew, created.Status)
}

func TestIdeaOwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	svc := NewIdeaService(testutil.Logger(t), f.ideas, nil)
	ctx := context.Background()
	u1, u2 := uuid.New(), uuid.New()

	a, err := svc.Create(ctx, u1, meditationInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, a.ID, u2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Update(ctx, a.ID, u2, validation.IdeaInput{Title: str("hijacked")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.ToggleFavorite(ctx, a.ID, u2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	deleted, err := svc.Delete(ctx, a.ID, u2)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := svc.Get(ctx, a.ID, u1)
	require.NoError(t, err)
	assert.Equal(t, "Meditation App", got.Title)
	assert.False(t, got.IsFavorite)
	assert.True(t, got.UpdatedAt.Equal(a.UpdatedAt))

	list, err := svc.List(ctx, u2, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIdeaUpdateMonotonicTimestamp(t *testing.T) {
	f := newFixture(t)
	pinned := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := NewIdeaService(testutil.Logger(t), f.ideas, fixedClock(pinned))
	ctx := context.Background()
	owner := uuid.New()

	a, err := svc.Create(ctx, owner, meditationInput())
	require.NoError(t, err)

	prev := a.UpdatedAt
	for i := 0; i < 3; i++ {
		up, err := svc.Update(ctx, a.ID, owner, validation.IdeaInput{Status: str("in_progress")})
		require.NoError(t, err)
		assert.True(t, up.UpdatedAt.After(prev), "updated_at must strictly increase even with a frozen clock")
		assert.True(t, up.CreatedAt.Equal(a.CreatedAt))
		prev = up.UpdatedAt
	}

	got, err := svc.Get(ctx, a.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, types.StatusInProgress, got.Status)
	assert.True(t, got.UpdatedAt.Equal(prev))
}

func TestIdeaValidationAbortsWrite(t *testing.T) {
	f := newFixture(t)
	svc := NewIdeaService(testutil.Logger(t), f.ideas, nil)
	ctx := context.Background()
	owner := uuid.New()

	in := meditationInput()
	in.Title = str("")
	_, err := svc.Create(ctx, owner, in)
	ve, ok := apperrors.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "title", ve.Field)

	in = meditationInput()
	in.Priority = str("urgent")
	_, err = svc.Create(ctx, owner, in)
	ve, ok = apperrors.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "priority", ve.Field)

	list, err := svc.List(ctx, owner, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIdeaListSearch(t *testing.T) {
	f := newFixture(t)
	svc := NewIdeaService(testutil.Logger(t), f.ideas, newStepClock(time.Now(), time.Second).Now)
	ctx := context.Background()
	owner := uuid.New()

	for _, title := range []string{"Meditation App", "Garden planner", "Sleep meditation"} {
		in := meditationInput()
		in.Title = str(title)
		_, err := svc.Create(ctx, owner, in)
		require.NoError(t, err)
	}
	list, err := svc.List(ctx, owner, "medit")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Sleep meditation", list[0].Title)
}

func TestIdeaRequiresOwner(t *testing.T) {
	f := newFixture(t)
	svc := NewIdeaService(testutil.Logger(t), f.ideas, nil)
	_, err := svc.List(context.Background(), uuid.Nil, "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
