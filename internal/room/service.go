package room

import (
	"context"
	"strings"

	"github.com/nekogravitycat/escape-room-backend/internal/organization"
)

// CreateRequest carries all fields needed to publish a room.
type CreateRequest struct {
	OrganizationID  string
	Name            string
	Description     string
	Location        string
	Difficulty      int
	IntervalMinutes int
	MinParticipants int
	MaxParticipants int
	PricingMode     PricingMode
	PriceMinorUnits int64
	Currency        string
	Timezone        string
	PaymentEnabled  bool
	BusinessHours   []WeeklyWindow
}

// UpdateRequest carries optional field updates; nil fields are left unchanged.
type UpdateRequest struct {
	Name            *string
	Description     *string
	Location        *string
	Difficulty      *int
	IntervalMinutes *int
	MinParticipants *int
	MaxParticipants *int
	PricingMode     *PricingMode
	PriceMinorUnits *int64
	Currency        *string
	Timezone        *string
	PaymentEnabled  *bool
	BusinessHours   []WeeklyWindow // nil means unchanged
}

type Service interface {
	Create(ctx context.Context, req CreateRequest, creatorUserID string) (*Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	ListByOrganization(ctx context.Context, orgID string) ([]*Room, error)
	Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Room, error)
	Delete(ctx context.Context, id string, deleterUserID string) error
}

type service struct {
	repo       Repository
	orgService organization.Service
}

func NewService(repo Repository, orgService organization.Service) Service {
	return &service{
		repo:       repo,
		orgService: orgService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest, creatorUserID string) (*Room, error) {
	if _, err := s.orgService.GetByID(ctx, req.OrganizationID); err != nil {
		return nil, err
	}

	isMember, err := s.orgService.IsMember(ctx, req.OrganizationID, creatorUserID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrPermissionDenied
	}

	rm := &Room{
		OrganizationID:  req.OrganizationID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Location:        req.Location,
		Difficulty:      req.Difficulty,
		IntervalMinutes: req.IntervalMinutes,
		MinParticipants: req.MinParticipants,
		MaxParticipants: req.MaxParticipants,
		PricingMode:     req.PricingMode,
		PriceMinorUnits: req.PriceMinorUnits,
		Currency:        strings.ToUpper(strings.TrimSpace(req.Currency)),
		Timezone:        req.Timezone,
		PaymentEnabled:  req.PaymentEnabled,
	}

	schedule, err := NewWeekSchedule(req.BusinessHours)
	if err != nil {
		return nil, err
	}
	rm.BusinessHours = schedule

	if err := validateRoom(rm); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Room, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByOrganization(ctx context.Context, orgID string) ([]*Room, error) {
	if _, err := s.orgService.GetByID(ctx, orgID); err != nil {
		return nil, err
	}
	return s.repo.ListByOrganization(ctx, orgID)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Room, error) {
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireMember(ctx, rm.OrganizationID, updaterUserID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		rm.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		rm.Description = *req.Description
	}
	if req.Location != nil {
		rm.Location = *req.Location
	}
	if req.Difficulty != nil {
		rm.Difficulty = *req.Difficulty
	}
	if req.IntervalMinutes != nil {
		rm.IntervalMinutes = *req.IntervalMinutes
	}
	if req.MinParticipants != nil {
		rm.MinParticipants = *req.MinParticipants
	}
	if req.MaxParticipants != nil {
		rm.MaxParticipants = *req.MaxParticipants
	}
	if req.PricingMode != nil {
		rm.PricingMode = *req.PricingMode
	}
	if req.PriceMinorUnits != nil {
		rm.PriceMinorUnits = *req.PriceMinorUnits
	}
	if req.Currency != nil {
		rm.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.Timezone != nil {
		rm.Timezone = *req.Timezone
	}
	if req.PaymentEnabled != nil {
		rm.PaymentEnabled = *req.PaymentEnabled
	}
	if req.BusinessHours != nil {
		schedule, err := NewWeekSchedule(req.BusinessHours)
		if err != nil {
			return nil, err
		}
		rm.BusinessHours = schedule
	}

	if err := validateRoom(rm); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *service) Delete(ctx context.Context, id string, deleterUserID string) error {
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Deleting a room is restricted to the organization owner.
	isOwner, err := s.orgService.IsOwner(ctx, rm.OrganizationID, deleterUserID)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrPermissionDenied
	}

	return s.repo.SoftDelete(ctx, id)
}

func (s *service) requireMember(ctx context.Context, orgID, userID string) error {
	isMember, err := s.orgService.IsMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrPermissionDenied
	}
	return nil
}

func validateRoom(rm *Room) error {
	if rm.Name == "" {
		return ErrNameRequired
	}
	if rm.IntervalMinutes <= 0 {
		return ErrInvalidInterval
	}
	if rm.MinParticipants < 1 || rm.MinParticipants > rm.MaxParticipants {
		return ErrInvalidParticipants
	}
	if rm.PricingMode != PricingFlat && rm.PricingMode != PricingPerPerson {
		return ErrInvalidPricing
	}
	if rm.PriceMinorUnits < 0 || rm.Currency == "" {
		return ErrInvalidPricing
	}
	if rm.Difficulty < 1 || rm.Difficulty > 5 {
		return ErrInvalidDifficulty
	}
	if _, err := rm.TimeLocation(); err != nil {
		return err
	}
	return nil
}
