package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	messageDomain "github.com/harborview-hospitality/service-reservation/internal/domain/message"
)

func newMessageFixture() (*mockMessageRepo, *MessageService) {
	repo := &mockMessageRepo{}
	return repo, NewMessageService(repo, testClock{now: fixedNow}, testLogger())
}

func makeMessage(t *testing.T) *messageDomain.Message {
	t.Helper()
	msg, err := messageDomain.NewMessage(
		messageDomain.Sender{Name: "Alice Tan", Email: "alice@example.com"},
		"Late arrival",
		"We land at midnight, can the front desk hold the room?",
		messageDomain.TypeInquiry,
		messageDomain.PriorityNormal,
		nil,
		fixedNow,
	)
	require.NoError(t, err)
	return msg
}

func TestSendMessage_UnknownTypeFiledAsOther(t *testing.T) {
	repo, svc := newMessageFixture()
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	dto, err := svc.SendMessage(context.Background(), SendMessageRequest{
		Name:    "Alice Tan",
		Email:   "alice@example.com",
		Content: "hello",
		Type:    "TELEGRAM",
	})
	require.NoError(t, err)

	assert.Equal(t, "OTHER", dto.Type)
	assert.Equal(t, "NEW", dto.Status)
	assert.Equal(t, "NORMAL", dto.Priority, "missing priority defaults to NORMAL")
}

func TestSendMessage_ContentRequired(t *testing.T) {
	repo, svc := newMessageFixture()

	_, err := svc.SendMessage(context.Background(), SendMessageRequest{
		Name:  "Alice Tan",
		Email: "alice@example.com",
	})
	assert.True(t, domain.IsValidation(err))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGetMessage_MarksReadOnFirstOpen(t *testing.T) {
	repo, svc := newMessageFixture()
	msg := makeMessage(t)

	repo.On("FindByID", mock.Anything, msg.ID()).Return(msg, nil)
	repo.On("Update", mock.Anything, msg).Return(nil)

	dto, err := svc.GetMessage(context.Background(), msg.ID())
	require.NoError(t, err)

	assert.Equal(t, "READ", dto.Status)
	require.NotNil(t, dto.ReadAt)

	// A second open does not rewrite the message.
	_, err = svc.GetMessage(context.Background(), msg.ID())
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Update", 1)
}

func TestRespondToMessage(t *testing.T) {
	repo, svc := newMessageFixture()
	msg := makeMessage(t)

	repo.On("FindByID", mock.Anything, msg.ID()).Return(msg, nil)
	repo.On("Update", mock.Anything, msg).Return(nil)

	dto, err := svc.RespondToMessage(context.Background(), msg.ID(), "frontdesk", RespondMessageRequest{
		Response: "Of course, the night clerk will have your key ready.",
	})
	require.NoError(t, err)

	assert.Equal(t, "RESPONDED", dto.Status)
	assert.Equal(t, "frontdesk", dto.RespondedBy)
	require.NotNil(t, dto.RespondedAt)

	// Responding twice is rejected.
	_, err = svc.RespondToMessage(context.Background(), msg.ID(), "frontdesk", RespondMessageRequest{Response: "again"})
	assert.True(t, domain.IsValidation(err))
}

func TestMarkMessageUnread_BlockedAfterResponse(t *testing.T) {
	repo, svc := newMessageFixture()
	msg := makeMessage(t)
	require.NoError(t, msg.Respond("done", "frontdesk", fixedNow))

	repo.On("FindByID", mock.Anything, msg.ID()).Return(msg, nil)
	repo.On("Update", mock.Anything, msg).Return(nil)

	dto, err := svc.MarkMessageUnread(context.Background(), msg.ID())
	require.NoError(t, err)
	assert.Equal(t, "RESPONDED", dto.Status, "responded messages stay responded")
}

func TestCountUnread(t *testing.T) {
	repo, svc := newMessageFixture()
	repo.On("FindByStatus", mock.Anything, messageDomain.StatusNew).
		Return([]*messageDomain.Message{makeMessage(t), makeMessage(t)}, nil)

	count, err := svc.CountUnread(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListMessagesByStatus_UnknownStatus(t *testing.T) {
	_, svc := newMessageFixture()
	_, err := svc.ListMessagesByStatus(context.Background(), "ARCHIVED")
	assert.True(t, domain.IsValidation(err))
}
