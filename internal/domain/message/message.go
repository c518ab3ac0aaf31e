package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
)

// Type categorizes an inbound guest message.
type Type string

const (
	TypeInquiry        Type = "INQUIRY"
	TypeComplaint      Type = "COMPLAINT"
	TypeFeedback       Type = "FEEDBACK"
	TypeRequest        Type = "REQUEST"
	TypeBookingRelated Type = "BOOKING_RELATED"
	TypeOther          Type = "OTHER"
)

// ParseType converts a string to a message Type. Unrecognized input falls
// back to TypeOther; the second return reports whether the input matched a
// known type.
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TypeInquiry, TypeComplaint, TypeFeedback, TypeRequest, TypeBookingRelated, TypeOther:
		return t, true
	}
	return TypeOther, false
}

// Status represents where a message sits in the support workflow.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusRead       Status = "READ"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResponded  Status = "RESPONDED"
	StatusClosed     Status = "CLOSED"
)

// IsValid returns true if the message status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusRead, StatusInProgress, StatusResponded, StatusClosed:
		return true
	}
	return false
}

// ParseStatus converts a string to a message Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid message status: %s", s)
	}
	return st, nil
}

// Priority ranks how urgently a message needs attention.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// IsValid returns true if the priority is recognized.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Sender holds the contact details of the person who sent the message.
type Sender struct {
	Name  string
	Email string
	Phone string
}

// Response holds the admin response recorded against a message.
type Response struct {
	Text        string
	RespondedBy string
	RespondedAt *time.Time
}

// Message is the aggregate root for an inbound guest-support message. It may
// reference a booking but never participates in booking logic.
type Message struct {
	id        uuid.UUID
	sender    Sender
	subject   string
	content   string
	msgType   Type
	status    Status
	priority  Priority
	bookingID *uuid.UUID
	response  Response
	readAt    *time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewMessage creates a new message with status NEW.
func NewMessage(sender Sender, subject, content string, msgType Type, priority Priority, bookingID *uuid.UUID, now time.Time) (*Message, error) {
	if sender.Name == "" {
		return nil, domain.NewValidationError("sender name is required")
	}
	if sender.Email == "" {
		return nil, domain.NewValidationError("sender email is required")
	}
	if content == "" {
		return nil, domain.NewValidationError("message content is required")
	}
	if !priority.IsValid() {
		priority = PriorityNormal
	}

	return &Message{
		id:        uuid.New(),
		sender:    sender,
		subject:   subject,
		content:   content,
		msgType:   msgType,
		status:    StatusNew,
		priority:  priority,
		bookingID: bookingID,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Message from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	sender Sender,
	subject, content string,
	msgType Type,
	status Status,
	priority Priority,
	bookingID *uuid.UUID,
	response Response,
	readAt *time.Time,
	createdAt, updatedAt time.Time,
) *Message {
	return &Message{
		id:        id,
		sender:    sender,
		subject:   subject,
		content:   content,
		msgType:   msgType,
		status:    status,
		priority:  priority,
		bookingID: bookingID,
		response:  response,
		readAt:    readAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the message's unique identifier.
func (m *Message) ID() uuid.UUID { return m.id }

// Sender returns the sender contact details.
func (m *Message) Sender() Sender { return m.sender }

// Subject returns the message subject line.
func (m *Message) Subject() string { return m.subject }

// Content returns the message body.
func (m *Message) Content() string { return m.content }

// MessageType returns the message category.
func (m *Message) MessageType() Type { return m.msgType }

// Status returns the workflow status.
func (m *Message) Status() Status { return m.status }

// Priority returns the message priority.
func (m *Message) Priority() Priority { return m.priority }

// BookingID returns the optionally referenced booking id.
func (m *Message) BookingID() *uuid.UUID { return m.bookingID }

// AdminResponse returns the recorded admin response.
func (m *Message) AdminResponse() Response { return m.response }

// ReadAt returns when the message was first read, or nil.
func (m *Message) ReadAt() *time.Time { return m.readAt }

// CreatedAt returns the creation timestamp.
func (m *Message) CreatedAt() time.Time { return m.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (m *Message) UpdatedAt() time.Time { return m.updatedAt }

// MarkRead moves a NEW message to READ. Reading an already-read message is a
// no-op.
func (m *Message) MarkRead(now time.Time) {
	if m.status != StatusNew {
		return
	}
	m.status = StatusRead
	m.readAt = &now
	m.updatedAt = now
}

// MarkUnread moves a message back to NEW unless it has been responded to.
func (m *Message) MarkUnread(now time.Time) {
	if m.status == StatusResponded {
		return
	}
	m.status = StatusNew
	m.readAt = nil
	m.updatedAt = now
}

// Respond records an admin response. A message can only be responded to once.
func (m *Message) Respond(text, respondedBy string, now time.Time) error {
	if m.status == StatusResponded {
		return domain.NewValidationError("message has already been responded to")
	}
	if text == "" {
		return domain.NewValidationError("response text is required")
	}
	m.response = Response{Text: text, RespondedBy: respondedBy, RespondedAt: &now}
	m.status = StatusResponded
	m.updatedAt = now
	return nil
}
