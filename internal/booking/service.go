package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/escape-room-backend/internal/organization"
	"github.com/nekogravitycat/escape-room-backend/internal/payment"
	"github.com/nekogravitycat/escape-room-backend/internal/pkg/clock"
	"github.com/nekogravitycat/escape-room-backend/internal/room"
)

// CreateRequest is a guest's booking submission. There is no guest account;
// the contact fields are all we know about the customer.
type CreateRequest struct {
	RoomID       string
	StartTime    time.Time
	EndTime      time.Time
	Name         string
	Email        string
	PhoneNumber  string
	Comment      *string
	Participants int
	PaymentToken *string
}

// RoomListRequest lists an operator's bookings for one room.
type RoomListRequest struct {
	RoomID   string
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// Selector values for the organization-wide listing.
const (
	SelectUpcoming   = "upcoming"
	SelectHistorical = "historical"
)

// OrganizationListRequest lists bookings across all rooms of an organization.
// Select narrows the view: upcoming keeps pending and accepted bookings whose
// interval intersects the window, historical filters on creation time.
type OrganizationListRequest struct {
	OrganizationID string
	Select         string
	From           time.Time
	To             time.Time
	Page           int
	PageSize       int
}

type Service interface {
	// Create handles a public booking request. When the room takes payments
	// the booking is charged up front and starts out accepted; otherwise it
	// starts pending and waits for the operator.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)

	// Availability returns the bookable slots per day for [from, to).
	Availability(ctx context.Context, roomID string, from, to time.Time) ([]DayAvailability, error)

	ListByRoom(ctx context.Context, req RoomListRequest, callerUserID string) ([]*Booking, int, error)
	ListByOrganization(ctx context.Context, req OrganizationListRequest, callerUserID string) ([]*Booking, int, error)

	Accept(ctx context.Context, id, callerUserID string) (*Booking, error)
	Reject(ctx context.Context, id, callerUserID string) (*Booking, error)
	Cancel(ctx context.Context, id, callerUserID string) (*Booking, error)
}

type service struct {
	repo        Repository
	roomService room.Service
	orgService  organization.Service
	gateway     payment.Gateway
	clock       clock.Clock
	logger      zerolog.Logger
}

func NewService(
	repo Repository,
	roomService room.Service,
	orgService organization.Service,
	gateway payment.Gateway,
	clk clock.Clock,
	logger zerolog.Logger,
) Service {
	return &service{
		repo:        repo,
		roomService: roomService,
		orgService:  orgService,
		gateway:     gateway,
		clock:       clk,
		logger:      logger,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	rm, err := s.roomService.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	start := req.StartTime.UTC()
	end := req.EndTime.UTC()

	if err := ValidateRequest(rm, start, end, req.Participants); err != nil {
		return nil, err
	}

	conflict, err := s.repo.HasOverlap(ctx, rm.ID, start, end, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrTimeConflict
	}

	price, currency := Price(rm, req.Participants)

	b := &Booking{
		RoomID:          rm.ID,
		RoomName:        rm.Name,
		OrganizationID:  rm.OrganizationID,
		StartTime:       start,
		EndTime:         end,
		Name:            req.Name,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Comment:         req.Comment,
		Participants:    req.Participants,
		Status:          StatusPending,
		PriceMinorUnits: price,
		Currency:        currency,
	}

	if rm.PaymentEnabled {
		refund, err := s.charge(ctx, rm, b, req.PaymentToken)
		if err != nil {
			return nil, err
		}
		b.Status = StatusAccepted

		if err := s.repo.Create(ctx, b); err != nil {
			// The charge was captured but the insert failed, typically
			// because a concurrent booking took the slot at commit time.
			// Reverse the charge so the customer is not billed for a
			// booking that never existed.
			if rerr := s.gateway.Refund(ctx, *refund); rerr != nil {
				s.logger.Error().Err(rerr).
					Str("charge_id", refund.ProviderChargeID).
					Msg("refund after failed booking insert did not go through")
			}
			return nil, err
		}
		return b, nil
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// charge runs the up-front payment for a payment-enabled room. It is called
// before the insert: a declined card leaves nothing behind. The returned
// refund handle is used to reverse the charge if the insert then fails.
func (s *service) charge(ctx context.Context, rm *room.Room, b *Booking, token *string) (*payment.RefundRequest, error) {
	if token == nil || *token == "" {
		return nil, ErrMissingPaymentToken
	}

	org, err := s.orgService.GetByID(ctx, rm.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !org.HasPaymentCredentials() {
		return nil, ErrPaymentNotEnabled
	}

	res, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		AmountMinorUnits: b.PriceMinorUnits,
		Currency:         b.Currency,
		Token:            *token,
		SecretKey:        *org.PaymentSecretKey,
		Description:      fmt.Sprintf("Escape room booking: %s", rm.Name),
	})
	if err != nil {
		return nil, err
	}

	return &payment.RefundRequest{
		ProviderChargeID: res.ProviderChargeID,
		SecretKey:        *org.PaymentSecretKey,
	}, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Availability(ctx context.Context, roomID string, from, to time.Time) ([]DayAvailability, error) {
	rm, err := s.roomService.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	// Widened by a day on each side: the planner resolves local midnights in
	// the room's timezone, which can fall outside the UTC query bounds.
	accepted, err := s.repo.FindAccepted(ctx, rm.ID, from.AddDate(0, 0, -1), to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return CalculateAvailability(rm, from, to, accepted, s.clock.Now())
}

func (s *service) ListByRoom(ctx context.Context, req RoomListRequest, callerUserID string) ([]*Booking, int, error) {
	rm, err := s.roomService.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return nil, 0, ErrRoomNotFound
		}
		return nil, 0, err
	}
	if err := s.requireMember(ctx, rm.OrganizationID, callerUserID); err != nil {
		return nil, 0, err
	}
	if err := checkRange(req.From, req.To, MaxAvailabilityDays); err != nil {
		return nil, 0, err
	}

	return s.repo.List(ctx, Filter{
		RoomID:   rm.ID,
		From:     &req.From,
		To:       &req.To,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

func (s *service) ListByOrganization(ctx context.Context, req OrganizationListRequest, callerUserID string) ([]*Booking, int, error) {
	if err := s.requireMember(ctx, req.OrganizationID, callerUserID); err != nil {
		return nil, 0, err
	}
	if err := checkRange(req.From, req.To, MaxOrganizationRangeDays); err != nil {
		return nil, 0, err
	}

	filter := Filter{
		OrganizationID: req.OrganizationID,
		Page:           req.Page,
		PageSize:       req.PageSize,
	}
	switch req.Select {
	case SelectUpcoming:
		filter.Statuses = []Status{StatusPending, StatusAccepted}
		filter.From = &req.From
		filter.To = &req.To
	case SelectHistorical:
		filter.CreatedFrom = &req.From
		filter.CreatedTo = &req.To
	default:
		filter.From = &req.From
		filter.To = &req.To
	}

	return s.repo.List(ctx, filter)
}

func (s *service) Accept(ctx context.Context, id, callerUserID string) (*Booking, error) {
	b, err := s.authorize(ctx, id, callerUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.Accept(ctx, b.ID)
}

func (s *service) Reject(ctx context.Context, id, callerUserID string) (*Booking, error) {
	return s.transition(ctx, id, callerUserID, StatusPending, StatusRejected)
}

func (s *service) Cancel(ctx context.Context, id, callerUserID string) (*Booking, error) {
	return s.transition(ctx, id, callerUserID, StatusAccepted, StatusCanceled)
}

func (s *service) transition(ctx context.Context, id, callerUserID string, from, to Status) (*Booking, error) {
	b, err := s.authorize(ctx, id, callerUserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, b.ID, from, to); err != nil {
		return nil, err
	}
	b.Status = to
	return b, nil
}

// authorize loads the booking and verifies the caller belongs to the owning
// organization. Guests never reach these paths; the status actions are
// operator-only.
func (s *service) authorize(ctx context.Context, id, callerUserID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, b.OrganizationID, callerUserID); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) requireMember(ctx context.Context, orgID, userID string) error {
	member, err := s.orgService.IsMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrPermissionDenied
	}
	return nil
}

func checkRange(from, to time.Time, maxDays int) error {
	days := calendarDaysBetween(from, to)
	if days < 0 {
		return ErrInvalidTimeRange
	}
	if days > maxDays {
		return ErrDateRangeTooLarge
	}
	return nil
}
