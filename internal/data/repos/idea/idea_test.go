package idea

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/ideabox-backend/internal/data/repos/testutil"
	types "github.com/yungbote/ideabox-backend/internal/domain"
	"github.com/yungbote/ideabox-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
)

func seed(t *testing.T, repo IdeaRepo, owner uuid.UUID, title string, status types.IdeaStatus, at time.Time) *types.Idea {
	t.Helper()
	row := &types.Idea{
		OwnerID:         owner,
		Title:           title,
		Description:     "d",
		Category:        "c",
		Subcategory:     "s",
		Status:          status,
		Priority:        types.LevelMedium,
		EstimatedEffort: types.LevelMedium,
		PotentialImpact: types.LevelMedium,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
	row.SetTags([]string{"x"})
	require.NoError(t, repo.Create(dbctx.Context{Ctx: context.Background()}, row))
	require.NotZero(t, row.ID)
	return row
}

func TestIdeaRepoOwnerScoping(t *testing.T) {
	db := testutil.DB(t)
	repo := NewIdeaRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	alice, bob := uuid.New(), uuid.New()
	now := time.Now().UTC()

	a := seed(t, repo, alice, "Alpha", types.StatusNew, now)

	got, err := repo.GetByID(dbc, a.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got.TagList())

	_, err = repo.GetByID(dbc, a.ID, bob)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	a.Title = "stolen"
	a.OwnerID = bob
	ok, err := repo.Save(dbc, a)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := repo.Delete(dbc, a.ID, bob)
	require.NoError(t, err)
	assert.False(t, deleted)

	list, err := repo.List(dbc, bob, "")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestIdeaRepoListOrderAndSearch(t *testing.T) {
	db := testutil.DB(t)
	repo := NewIdeaRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	owner := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seed(t, repo, owner, "Solar roof", types.StatusNew, base)
	seed(t, repo, owner, "Wind farm", types.StatusNew, base.Add(time.Hour))
	seed(t, repo, owner, "100% solar", types.StatusNew, base.Add(2*time.Hour))

	list, err := repo.List(dbc, owner, "")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "100% solar", list[0].Title)
	assert.Equal(t, "Solar roof", list[2].Title)

	list, err = repo.List(dbc, owner, "SOLAR")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = repo.List(dbc, owner, "0%")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "100% solar", list[0].Title)
}

func TestIdeaRepoAggregates(t *testing.T) {
	db := testutil.DB(t)
	repo := NewIdeaRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	owner := uuid.New()
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	seed(t, repo, owner, "a", types.StatusNew, base)
	seed(t, repo, owner, "b", types.StatusInProgress, base.AddDate(0, 1, 0))
	seed(t, repo, owner, "c", types.StatusCompleted, base.AddDate(0, 2, 0))
	seed(t, repo, owner, "d", types.StatusCompleted, base.AddDate(0, 3, 0))
	seed(t, repo, uuid.New(), "other", types.StatusCompleted, base)

	counts, err := repo.CountByStatus(dbc, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[types.StatusNew])
	assert.EqualValues(t, 2, counts[types.StatusCompleted])

	recent, err := repo.ListRecentCreated(dbc, owner, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].Title)

	timeline, err := repo.ListTimeline(dbc, owner)
	require.NoError(t, err)
	require.Len(t, timeline, 4)
	assert.Equal(t, types.StatusNew, timeline[0].Status)
	assert.Equal(t, 2026, timeline[0].CreatedAt.Year())
}

func TestIdeaRepoSaveAndDelete(t *testing.T) {
	db := testutil.DB(t)
	repo := NewIdeaRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	owner := uuid.New()
	row := seed(t, repo, owner, "a", types.StatusNew, time.Now().UTC())

	row.IsFavorite = true
	row.UpdatedAt = row.UpdatedAt.Add(time.Second)
	ok, err := repo.Save(dbc, row)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(dbc, row.ID, owner)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)

	deleted, err := repo.Delete(dbc, row.ID, owner)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = repo.GetByID(dbc, row.ID, owner)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
