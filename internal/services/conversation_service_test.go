package services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quetzal-chat/quetzal/internal/domain"
	"github.com/quetzal-chat/quetzal/internal/repository/conversation"
	"github.com/quetzal-chat/quetzal/internal/repository/message"
	"github.com/quetzal-chat/quetzal/internal/repository/user"
)

func newConversationService(t *testing.T) (*ConversationService, *UserService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Conversation{}, &domain.Message{}))

	userRepo := user.NewGormUserRepository(db)
	convSvc := NewConversationService(
		conversation.NewConversationRepository(db),
		message.NewMessageRepository(db),
		userRepo,
		NoOpLogger{},
	)
	return convSvc, NewUserService(userRepo, NoOpLogger{})
}

func registerTestUser(t *testing.T, users *UserService) *domain.User {
	t.Helper()
	u, err := users.Register(context.Background(), "maria", "maria@example.com")
	require.NoError(t, err)
	return u
}

func TestCreateConversationForUnknownUser(t *testing.T) {
	svc, _ := newConversationService(t)

	_, err := svc.CreateConversation(context.Background(), 99, "titulo")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAppendMessageToUnknownConversation(t *testing.T) {
	svc, _ := newConversationService(t)

	_, err := svc.AppendMessage(context.Background(), 12345, domain.RoleUser, "hola")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAppendMessageValidation(t *testing.T) {
	svc, users := newConversationService(t)
	ctx := context.Background()
	u := registerTestUser(t, users)

	conv, err := svc.CreateConversation(ctx, u.ID, "chat")
	require.NoError(t, err)

	_, err = svc.AppendMessage(ctx, conv.ID, "assistant", "hola")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.AppendMessage(ctx, conv.ID, domain.RoleUser, "   ")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestExchangeFlowAndOrdering(t *testing.T) {
	svc, users := newConversationService(t)
	ctx := context.Background()
	u := registerTestUser(t, users)

	conv, err := svc.CreateConversation(ctx, u.ID, "plagas")
	require.NoError(t, err)

	_, err = svc.AppendMessage(ctx, conv.ID, domain.RoleUser, "¿cómo trato el pulgón?")
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, conv.ID, domain.RoleBot, "Usa aceite de neem.")
	require.NoError(t, err)

	messages, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, domain.RoleBot, messages[1].Role)
}

func TestDeleteConversationCascades(t *testing.T) {
	svc, users := newConversationService(t)
	ctx := context.Background()
	u := registerTestUser(t, users)

	conv, err := svc.CreateConversation(ctx, u.ID, "a borrar")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = svc.AppendMessage(ctx, conv.ID, domain.RoleUser, "mensaje")
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteConversation(ctx, conv.ID))

	convs, err := svc.ListConversations(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, convs)

	_, err = svc.ListMessages(ctx, conv.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeleteUnknownConversation(t *testing.T) {
	svc, _ := newConversationService(t)

	err := svc.DeleteConversation(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListConversationsNewestFirst(t *testing.T) {
	svc, users := newConversationService(t)
	ctx := context.Background()
	u := registerTestUser(t, users)

	_, err := svc.CreateConversation(ctx, u.ID, "primera")
	require.NoError(t, err)
	second, err := svc.CreateConversation(ctx, u.ID, "segunda")
	require.NoError(t, err)

	convs, err := svc.ListConversations(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, second.ID, convs[0].ID)
}
