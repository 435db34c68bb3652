package chat

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
)

func TestChatMessageRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewChatMessageRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	owner := uuid.New()
	now := time.Now().UTC()

	parent := &types.Idea{OwnerID: owner, Title: "t", Description: "d", Category: "c", Subcategory: "s",
		Status: types.StatusNew, Priority: types.LevelLow, EstimatedEffort: types.LevelLow, PotentialImpact: types.LevelLow,
		CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.Create(parent).Error)

	last, err := repo.LastCreatedAt(dbc, parent.ID, owner)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	_, err = repo.Create(dbc, []*types.ChatMessage{
		{IdeaID: parent.ID, OwnerID: owner, Content: "second", Type: types.MessageTypeAI, CreatedAt: now.Add(2 * time.Millisecond)},
		{IdeaID: parent.ID, OwnerID: owner, Content: "first", Type: types.MessageTypeUser, CreatedAt: now.Add(time.Millisecond)},
	})
	require.NoError(t, err)

	msgs, err := repo.ListByIdea(dbc, parent.ID, owner)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)

	other, err := repo.ListByIdea(dbc, parent.ID, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)

	last, err = repo.LastCreatedAt(dbc, parent.ID, owner)
	require.NoError(t, err)
	assert.True(t, last.Equal(now.Add(2*time.Millisecond)))

	// deleting the idea cascades to its messages
	require.NoError(t, db.Delete(&types.Idea{}, parent.ID).Error)
	msgs, err = repo.ListByIdea(dbc, parent.ID, owner)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestChatMessageRepoRejectsOrphans(t *testing.T) {
	db := testutil.DB(t)
	repo := NewChatMessageRepo(db, testutil.Logger(t))
	_, err := repo.Create(dbctx.Context{Ctx: context.Background()}, []*types.ChatMessage{{OwnerID: uuid.New(), Content: "x", Type: types.MessageTypeUser}})
	assert.Error(t, err)
}
