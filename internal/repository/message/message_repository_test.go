package message

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quetzal-chat/quetzal/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Message{}))
	return db
}

func TestAppendThenListKeepsOrder(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))
	ctx := context.Background()

	// Same-timestamp appends must come back in insertion order.
	a, err := repo.Create(ctx, &domain.Message{ConversationID: 1, Role: domain.RoleUser, Text: "A"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &domain.Message{ConversationID: 1, Role: domain.RoleBot, Text: "B"})
	require.NoError(t, err)

	messages, err := repo.FindByConversationID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, a.ID, messages[0].ID)
	assert.Equal(t, "A", messages[0].Text)
	assert.Equal(t, b.ID, messages[1].ID)
	assert.Equal(t, "B", messages[1].Text)
}

func TestListScopedToConversation(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Message{ConversationID: 1, Role: domain.RoleUser, Text: "mía"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Message{ConversationID: 2, Role: domain.RoleUser, Text: "ajena"})
	require.NoError(t, err)

	messages, err := repo.FindByConversationID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "mía", messages[0].Text)

	count, err := repo.CountByConversationID(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCreateRejectsBadInput(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Message{ConversationID: 0, Role: domain.RoleUser, Text: "x"})
	assert.Error(t, err)

	_, err = repo.Create(ctx, &domain.Message{ConversationID: 1, Role: "assistant", Text: "x"})
	assert.Error(t, err)

	_, err = repo.Create(ctx, &domain.Message{ConversationID: 1, Role: domain.RoleBot, Text: ""})
	assert.Error(t, err)
}
