package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	bookingDomain "github.com/harborview-hospitality/service-reservation/internal/domain/booking"
	guestDomain "github.com/harborview-hospitality/service-reservation/internal/domain/guest"
	messageDomain "github.com/harborview-hospitality/service-reservation/internal/domain/message"
	paymentDomain "github.com/harborview-hospitality/service-reservation/internal/domain/payment"
	roomDomain "github.com/harborview-hospitality/service-reservation/internal/domain/room"
	userDomain "github.com/harborview-hospitality/service-reservation/internal/domain/user"
	"github.com/harborview-hospitality/service-reservation/internal/events"
)

// testClock returns a fixed instant so date validation is deterministic.
type testClock struct{ now time.Time }

func (c testClock) Now() time.Time { return c.now }

// testGenerator produces predictable reference numbers.
type testGenerator struct{ seq int }

func (g *testGenerator) BookingNumber() string {
	g.seq++
	return fmt.Sprintf("BK-2024051510300%d", g.seq)
}

func (g *testGenerator) ConfirmationCode() (string, error) { return "CNF-TESTOK", nil }

func (g *testGenerator) TransactionID() (string, error) { return "TXN-1715769000000-TESTOK", nil }

// mockPublisher records published events.
type mockPublisher struct {
	mock.Mock
	published []events.CloudEvent
}

func (m *mockPublisher) Publish(ctx context.Context, topic, key string, event events.CloudEvent) error {
	args := m.Called(ctx, topic, key, event)
	m.published = append(m.published, event)
	return args.Error(0)
}

// mockBookingRepo is a testify mock of booking.Repository.
type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*bookingDomain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *mockBookingRepo) FindByGuestEmail(ctx context.Context, email string) ([]*bookingDomain.Booking, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Booking), args.Error(1)
}

func (m *mockBookingRepo) HasConflict(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) ExistsActiveForRoom(ctx context.Context, roomID uuid.UUID) (bool, error) {
	args := m.Called(ctx, roomID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockBookingRepo) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	args := m.Called(ctx, bk)
	return args.Error(0)
}

func (m *mockBookingRepo) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	args := m.Called(ctx, bk)
	return args.Error(0)
}

func (m *mockBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockRoomRepo is a testify mock of room.Repository.
type mockRoomRepo struct{ mock.Mock }

func (m *mockRoomRepo) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*roomDomain.Room), args.Error(1)
}

func (m *mockRoomRepo) ExistsByRoomNumber(ctx context.Context, roomNumber string) (bool, error) {
	args := m.Called(ctx, roomNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockRoomRepo) ListAll(ctx context.Context) ([]*roomDomain.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*roomDomain.Room), args.Error(1)
}

func (m *mockRoomRepo) ListAvailableBetween(ctx context.Context, checkIn, checkOut time.Time) ([]*roomDomain.Room, error) {
	args := m.Called(ctx, checkIn, checkOut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*roomDomain.Room), args.Error(1)
}

func (m *mockRoomRepo) Save(ctx context.Context, rm *roomDomain.Room) error {
	args := m.Called(ctx, rm)
	return args.Error(0)
}

func (m *mockRoomRepo) Update(ctx context.Context, rm *roomDomain.Room) error {
	args := m.Called(ctx, rm)
	return args.Error(0)
}

func (m *mockRoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockGuestRepo is a testify mock of guest.Repository.
type mockGuestRepo struct{ mock.Mock }

func (m *mockGuestRepo) FindByID(ctx context.Context, id uuid.UUID) (*guestDomain.Guest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*guestDomain.Guest), args.Error(1)
}

func (m *mockGuestRepo) FindByEmail(ctx context.Context, email string) (*guestDomain.Guest, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*guestDomain.Guest), args.Error(1)
}

func (m *mockGuestRepo) ListAll(ctx context.Context, page, limit int) ([]*guestDomain.Guest, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*guestDomain.Guest), args.Get(1).(int64), args.Error(2)
}

func (m *mockGuestRepo) Save(ctx context.Context, g *guestDomain.Guest) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGuestRepo) Update(ctx context.Context, g *guestDomain.Guest) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

// mockPaymentRepo is a testify mock of payment.Repository.
type mockPaymentRepo struct{ mock.Mock }

func (m *mockPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*paymentDomain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*paymentDomain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*paymentDomain.Payment), args.Error(1)
}

func (m *mockPaymentRepo) ListAll(ctx context.Context, page, limit int) ([]*paymentDomain.Payment, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*paymentDomain.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *mockPaymentRepo) FindByStatus(ctx context.Context, status paymentDomain.Status) ([]*paymentDomain.Payment, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*paymentDomain.Payment), args.Error(1)
}

func (m *mockPaymentRepo) Save(ctx context.Context, p *paymentDomain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPaymentRepo) Update(ctx context.Context, p *paymentDomain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// mockMessageRepo is a testify mock of the message repository.
type mockMessageRepo struct{ mock.Mock }

func (m *mockMessageRepo) FindByID(ctx context.Context, id uuid.UUID) (*messageDomain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messageDomain.Message), args.Error(1)
}

func (m *mockMessageRepo) ListAll(ctx context.Context) ([]*messageDomain.Message, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messageDomain.Message), args.Error(1)
}

func (m *mockMessageRepo) FindByStatus(ctx context.Context, status messageDomain.Status) ([]*messageDomain.Message, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messageDomain.Message), args.Error(1)
}

func (m *mockMessageRepo) Save(ctx context.Context, msg *messageDomain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockMessageRepo) Update(ctx context.Context, msg *messageDomain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// noopTransactor runs the function directly with no transaction, so unit
// tests exercise the service logic against plain mocks.
type noopTransactor struct{}

func (noopTransactor) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockUserRepo is a testify mock of user.Repository.
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*userDomain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Save(ctx context.Context, u *userDomain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// mockProcessor is a testify mock of payment.SettlementProcessor.
type mockProcessor struct{ mock.Mock }

func (m *mockProcessor) Process(ctx context.Context, p *paymentDomain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// --- Shared fixtures ---

var fixedNow = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

func testLogger() *zap.Logger { return zap.NewNop() }

func makeRoom(roomNumber string, price float64, capacity int) *roomDomain.Room {
	return roomDomain.Reconstruct(
		uuid.New(),
		roomDomain.Attributes{
			RoomNumber:    roomNumber,
			Type:          roomDomain.TypeDouble,
			PricePerNight: price,
			Capacity:      capacity,
		},
		true,
		roomDomain.MaintenanceAvailable,
		0, 0,
		fixedNow, fixedNow,
	)
}

func makeBooking(roomID uuid.UUID, checkIn, checkOut time.Time, totalPrice float64) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(
		uuid.New(),
		"BK-20240515103000",
		roomID,
		nil,
		bookingDomain.GuestContact{Name: "Alice Tan", Email: "alice@example.com"},
		bookingDomain.DateOnly(checkIn),
		bookingDomain.DateOnly(checkOut),
		2,
		bookingDomain.Nights(checkIn, checkOut),
		totalPrice, 0, totalPrice,
		bookingDomain.StatusPending,
		bookingDomain.PaymentPending,
		"", "",
		nil,
		bookingDomain.Cancellation{},
		1,
		fixedNow, fixedNow,
	)
}
