package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	messageDomain "github.com/harborview-hospitality/service-reservation/internal/domain/message"
)

// MessageModel is the GORM model for the messages table.
type MessageModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SenderName  string     `gorm:"not null;size:200"`
	SenderEmail string     `gorm:"not null;size:200;index"`
	SenderPhone string     `gorm:"size:50"`
	Subject     string     `gorm:"size:200"`
	Content     string     `gorm:"not null;size:2000"`
	MessageType string     `gorm:"not null;size:20"`
	Status      string     `gorm:"not null;size:20;index"`
	Priority    string     `gorm:"not null;size:10"`
	BookingID   *uuid.UUID `gorm:"type:uuid;index"`

	ResponseText string     `gorm:"size:2000"`
	RespondedBy  string     `gorm:"size:100"`
	RespondedAt  *time.Time `gorm:""`

	ReadAt    *time.Time `gorm:""`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (MessageModel) TableName() string {
	return "messages"
}

// GormMessageRepository is the GORM-based implementation of message.Repository.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// FindByID retrieves a message by its unique identifier.
func (r *GormMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*messageDomain.Message, error) {
	var model MessageModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Message", id.String())
		}
		return nil, fmt.Errorf("failed to find message by ID: %w", err)
	}
	return toDomainMessage(&model)
}

// ListAll retrieves all messages, newest first.
func (r *GormMessageRepository) ListAll(ctx context.Context) ([]*messageDomain.Message, error) {
	var models []MessageModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return toDomainMessages(models)
}

// FindByStatus retrieves all messages in the given workflow status, newest first.
func (r *GormMessageRepository) FindByStatus(ctx context.Context, status messageDomain.Status) ([]*messageDomain.Message, error) {
	var models []MessageModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find messages by status: %w", err)
	}
	return toDomainMessages(models)
}

// Save persists a new message.
func (r *GormMessageRepository) Save(ctx context.Context, m *messageDomain.Message) error {
	if err := r.db.WithContext(ctx).Create(toMessageModel(m)).Error; err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// Update persists changes to an existing message.
func (r *GormMessageRepository) Update(ctx context.Context, m *messageDomain.Message) error {
	model := toMessageModel(m)
	result := r.db.WithContext(ctx).Where("id = ?", model.ID).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Message", model.ID.String())
	}
	return nil
}

// --- Conversion helpers ---

func toMessageModel(m *messageDomain.Message) *MessageModel {
	sender := m.Sender()
	response := m.AdminResponse()
	return &MessageModel{
		ID:           m.ID(),
		SenderName:   sender.Name,
		SenderEmail:  sender.Email,
		SenderPhone:  sender.Phone,
		Subject:      m.Subject(),
		Content:      m.Content(),
		MessageType:  string(m.MessageType()),
		Status:       string(m.Status()),
		Priority:     string(m.Priority()),
		BookingID:    m.BookingID(),
		ResponseText: response.Text,
		RespondedBy:  response.RespondedBy,
		RespondedAt:  response.RespondedAt,
		ReadAt:       m.ReadAt(),
		CreatedAt:    m.CreatedAt(),
		UpdatedAt:    m.UpdatedAt(),
	}
}

func toDomainMessage(m *MessageModel) (*messageDomain.Message, error) {
	status, err := messageDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	msgType, _ := messageDomain.ParseType(m.MessageType)

	return messageDomain.Reconstruct(
		m.ID,
		messageDomain.Sender{Name: m.SenderName, Email: m.SenderEmail, Phone: m.SenderPhone},
		m.Subject,
		m.Content,
		msgType,
		status,
		messageDomain.Priority(m.Priority),
		m.BookingID,
		messageDomain.Response{Text: m.ResponseText, RespondedBy: m.RespondedBy, RespondedAt: m.RespondedAt},
		m.ReadAt,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainMessages(models []MessageModel) ([]*messageDomain.Message, error) {
	messages := make([]*messageDomain.Message, len(models))
	for i, m := range models {
		msg, err := toDomainMessage(&m)
		if err != nil {
			return nil, err
		}
		messages[i] = msg
	}
	return messages, nil
}
