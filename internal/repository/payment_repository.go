package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	paymentDomain "github.com/harborview-hospitality/service-reservation/internal/domain/payment"
)

// PaymentModel is the GORM model for the payments table.
type PaymentModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount        float64   `gorm:"not null"`
	Currency      string    `gorm:"not null;size:3"`
	Method        string    `gorm:"not null;size:20"`
	Status        string    `gorm:"not null;size:20;index"`
	TransactionID string    `gorm:"uniqueIndex;not null;size:40"`

	Card    datatypes.JSON `gorm:"type:jsonb"`
	Billing datatypes.JSON `gorm:"type:jsonb"`

	RefundAmount float64    `gorm:"not null;default:0"`
	RefundReason string     `gorm:"size:500"`
	RefundedAt   *time.Time `gorm:""`

	Notes       string     `gorm:"size:500"`
	ProcessedAt *time.Time `gorm:""`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PaymentModel) TableName() string {
	return "payments"
}

// GormPaymentRepository is the GORM-based implementation of payment.Repository.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID retrieves a payment by its unique identifier.
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*paymentDomain.Payment, error) {
	var model PaymentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Payment", id.String())
		}
		return nil, fmt.Errorf("failed to find payment by ID: %w", err)
	}
	return toDomainPayment(&model)
}

// FindByBookingID retrieves all payments for a booking, oldest first.
func (r *GormPaymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*paymentDomain.Payment, error) {
	var models []PaymentModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find payments by booking: %w", err)
	}
	return toDomainPayments(models)
}

// ListAll retrieves all payments with pagination, newest first.
func (r *GormPaymentRepository) ListAll(ctx context.Context, page, limit int) ([]*paymentDomain.Payment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&PaymentModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var models []PaymentModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	payments, err := toDomainPayments(models)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// FindByStatus retrieves all payments in the given settlement status.
func (r *GormPaymentRepository) FindByStatus(ctx context.Context, status paymentDomain.Status) ([]*paymentDomain.Payment, error) {
	var models []PaymentModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find payments by status: %w", err)
	}
	return toDomainPayments(models)
}

// Save persists a new payment.
func (r *GormPaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	model, err := toPaymentModel(p)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// Update persists changes to an existing payment.
func (r *GormPaymentRepository) Update(ctx context.Context, p *paymentDomain.Payment) error {
	model, err := toPaymentModel(p)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("id = ?", model.ID).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Payment", model.ID.String())
	}
	return nil
}

// --- Conversion helpers ---

func toPaymentModel(p *paymentDomain.Payment) (*PaymentModel, error) {
	card, err := json.Marshal(p.Card())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal card details: %w", err)
	}
	billing, err := json.Marshal(p.Billing())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal billing address: %w", err)
	}

	refund := p.RefundDetails()
	return &PaymentModel{
		ID:            p.ID(),
		BookingID:     p.BookingID(),
		Amount:        p.Amount(),
		Currency:      p.Currency(),
		Method:        string(p.Method()),
		Status:        string(p.Status()),
		TransactionID: p.TransactionID(),
		Card:          datatypes.JSON(card),
		Billing:       datatypes.JSON(billing),
		RefundAmount:  refund.Amount,
		RefundReason:  refund.Reason,
		RefundedAt:    refund.RefundedAt,
		Notes:         p.Notes(),
		ProcessedAt:   p.ProcessedAt(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}, nil
}

func toDomainPayment(m *PaymentModel) (*paymentDomain.Payment, error) {
	method, err := paymentDomain.ParseMethod(m.Method)
	if err != nil {
		return nil, err
	}
	status, err := paymentDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	var card paymentDomain.CardDetails
	if len(m.Card) > 0 {
		if err := json.Unmarshal(m.Card, &card); err != nil {
			return nil, fmt.Errorf("failed to unmarshal card details: %w", err)
		}
	}
	var billing paymentDomain.BillingAddress
	if len(m.Billing) > 0 {
		if err := json.Unmarshal(m.Billing, &billing); err != nil {
			return nil, fmt.Errorf("failed to unmarshal billing address: %w", err)
		}
	}

	return paymentDomain.Reconstruct(
		m.ID,
		m.BookingID,
		m.Amount,
		m.Currency,
		method,
		status,
		m.TransactionID,
		card,
		billing,
		paymentDomain.Refund{Amount: m.RefundAmount, Reason: m.RefundReason, RefundedAt: m.RefundedAt},
		m.Notes,
		m.ProcessedAt,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainPayments(models []PaymentModel) ([]*paymentDomain.Payment, error) {
	payments := make([]*paymentDomain.Payment, len(models))
	for i, m := range models {
		p, err := toDomainPayment(&m)
		if err != nil {
			return nil, err
		}
		payments[i] = p
	}
	return payments, nil
}
