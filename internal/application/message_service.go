package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	"github.com/harborview-hospitality/service-reservation/internal/domain/identity"
	messageDomain "github.com/harborview-hospitality/service-reservation/internal/domain/message"
)

// SendMessageRequest holds the data for an inbound guest message.
type SendMessageRequest struct {
	Name      string     `json:"name" binding:"required"`
	Email     string     `json:"email" binding:"required,email"`
	Phone     string     `json:"phone"`
	Subject   string     `json:"subject"`
	Content   string     `json:"content" binding:"required"`
	Type      string     `json:"type"`
	Priority  string     `json:"priority"`
	BookingID *uuid.UUID `json:"booking_id"`
}

// RespondMessageRequest holds the admin response to a message.
type RespondMessageRequest struct {
	Response string `json:"response" binding:"required"`
}

// MessageDTO is the response representation of a guest message.
type MessageDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Subject     string     `json:"subject,omitempty"`
	Content     string     `json:"content"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	BookingID   *uuid.UUID `json:"booking_id,omitempty"`
	Response    string     `json:"response,omitempty"`
	RespondedBy string     `json:"responded_by,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MessageService is the application service for the guest-support inbox.
type MessageService struct {
	messages messageDomain.Repository
	clock    identity.Clock
	logger   *zap.Logger
}

// NewMessageService creates a new MessageService.
func NewMessageService(messages messageDomain.Repository, clock identity.Clock, logger *zap.Logger) *MessageService {
	return &MessageService{messages: messages, clock: clock, logger: logger}
}

// SendMessage records an inbound guest message. Unrecognized message types
// are filed as OTHER rather than rejected.
func (s *MessageService) SendMessage(ctx context.Context, req SendMessageRequest) (*MessageDTO, error) {
	msgType, known := messageDomain.ParseType(req.Type)
	if !known && req.Type != "" {
		s.logger.Debug("unknown message type, filing as OTHER", zap.String("type", req.Type))
	}

	msg, err := messageDomain.NewMessage(
		messageDomain.Sender{Name: req.Name, Email: req.Email, Phone: req.Phone},
		req.Subject,
		req.Content,
		msgType,
		messageDomain.Priority(req.Priority),
		req.BookingID,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, err
	}

	result := toMessageDTO(msg)
	return &result, nil
}

// GetMessage retrieves a single message and marks it read as a side effect,
// mirroring how opening a message in an inbox works.
func (s *MessageService) GetMessage(ctx context.Context, messageID uuid.UUID) (*MessageDTO, error) {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if msg.Status() == messageDomain.StatusNew {
		msg.MarkRead(s.clock.Now())
		if err := s.messages.Update(ctx, msg); err != nil {
			return nil, err
		}
	}

	result := toMessageDTO(msg)
	return &result, nil
}

// ListMessages retrieves all messages, newest first.
func (s *MessageService) ListMessages(ctx context.Context) ([]MessageDTO, error) {
	messages, err := s.messages.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toMessageDTOs(messages), nil
}

// ListMessagesByStatus retrieves the messages in the given workflow status.
func (s *MessageService) ListMessagesByStatus(ctx context.Context, status string) ([]MessageDTO, error) {
	st, err := messageDomain.ParseStatus(status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	messages, err := s.messages.FindByStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	return toMessageDTOs(messages), nil
}

// CountUnread returns the number of unread messages.
func (s *MessageService) CountUnread(ctx context.Context) (int64, error) {
	messages, err := s.messages.FindByStatus(ctx, messageDomain.StatusNew)
	if err != nil {
		return 0, err
	}
	return int64(len(messages)), nil
}

// RespondToMessage records an admin response against a message.
func (s *MessageService) RespondToMessage(ctx context.Context, messageID uuid.UUID, respondedBy string, req RespondMessageRequest) (*MessageDTO, error) {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if err := msg.Respond(req.Response, respondedBy, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.messages.Update(ctx, msg); err != nil {
		return nil, err
	}

	result := toMessageDTO(msg)
	return &result, nil
}

// MarkMessageRead marks a message as read without returning its content.
func (s *MessageService) MarkMessageRead(ctx context.Context, messageID uuid.UUID) (*MessageDTO, error) {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	msg.MarkRead(s.clock.Now())
	if err := s.messages.Update(ctx, msg); err != nil {
		return nil, err
	}

	result := toMessageDTO(msg)
	return &result, nil
}

// MarkMessageUnread moves a message back to NEW unless it has been responded to.
func (s *MessageService) MarkMessageUnread(ctx context.Context, messageID uuid.UUID) (*MessageDTO, error) {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	msg.MarkUnread(s.clock.Now())
	if err := s.messages.Update(ctx, msg); err != nil {
		return nil, err
	}

	result := toMessageDTO(msg)
	return &result, nil
}

// --- Helpers ---

func toMessageDTO(msg *messageDomain.Message) MessageDTO {
	sender := msg.Sender()
	response := msg.AdminResponse()
	return MessageDTO{
		ID:          msg.ID(),
		Name:        sender.Name,
		Email:       sender.Email,
		Phone:       sender.Phone,
		Subject:     msg.Subject(),
		Content:     msg.Content(),
		Type:        string(msg.MessageType()),
		Status:      string(msg.Status()),
		Priority:    string(msg.Priority()),
		BookingID:   msg.BookingID(),
		Response:    response.Text,
		RespondedBy: response.RespondedBy,
		RespondedAt: response.RespondedAt,
		ReadAt:      msg.ReadAt(),
		CreatedAt:   msg.CreatedAt(),
		UpdatedAt:   msg.UpdatedAt(),
	}
}

func toMessageDTOs(messages []*messageDomain.Message) []MessageDTO {
	dtos := make([]MessageDTO, len(messages))
	for i, msg := range messages {
		dtos[i] = toMessageDTO(msg)
	}
	return dtos
}
