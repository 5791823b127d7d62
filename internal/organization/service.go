package organization

import (
	"context"
	"errors"
	"strings"

	"github.com/nekogravitycat/escape-room-backend/internal/user"
)

// CreateRequest defines fields for creating an organization.
type CreateRequest struct {
	Name     string
	Location *string
}

// UpdateRequest defines the fields that can be updated.
type UpdateRequest struct {
	Name     *string
	Location *string
}

// PaymentDetailsRequest carries the payment provider credentials for an
// organization. The secret key is stored but never returned over HTTP.
type PaymentDetailsRequest struct {
	ClientKey string
	SecretKey string
}

// Service defines business logic for organizations and memberships.
type Service interface {
	Create(ctx context.Context, req CreateRequest, creatorUserID string) (*Organization, error)
	GetByID(ctx context.Context, id string) (*Organization, error)
	ListByUser(ctx context.Context, userID string) ([]*Organization, error)
	Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Organization, error)
	SetPaymentDetails(ctx context.Context, id string, req PaymentDetailsRequest, updaterUserID string) (*Organization, error)

	ListMembers(ctx context.Context, orgID, callerUserID string) ([]*Member, error)
	AddMember(ctx context.Context, orgID, email, callerUserID string) error
	RemoveMember(ctx context.Context, orgID, memberUserID, callerUserID string) error

	// IsMember reports whether the user belongs to the organization.
	IsMember(ctx context.Context, orgID, userID string) (bool, error)
	// IsOwner reports whether the user is the organization's owner.
	IsOwner(ctx context.Context, orgID, userID string) (bool, error)
}

type service struct {
	repo        Repository
	userService user.Service
}

// NewService creates a new organization service.
func NewService(repo Repository, userService user.Service) Service {
	return &service{repo: repo, userService: userService}
}

func (s *service) Create(ctx context.Context, req CreateRequest, creatorUserID string) (*Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	org := &Organization{
		Name:     name,
		Location: req.Location,
	}

	if err := s.repo.CreateWithOwner(ctx, org, creatorUserID); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*Organization, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Organization, error) {
	if err := s.requireMember(ctx, id, updaterUserID); err != nil {
		return nil, err
	}

	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		newName := strings.TrimSpace(*req.Name)
		if newName == "" {
			return nil, ErrNameRequired
		}
		org.Name = newName
	}
	if req.Location != nil {
		org.Location = req.Location
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) SetPaymentDetails(ctx context.Context, id string, req PaymentDetailsRequest, updaterUserID string) (*Organization, error) {
	owner, err := s.IsOwner(ctx, id, updaterUserID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrNotOwner
	}

	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	clientKey := strings.TrimSpace(req.ClientKey)
	secretKey := strings.TrimSpace(req.SecretKey)
	org.PaymentClientKey = &clientKey
	org.PaymentSecretKey = &secretKey

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) ListMembers(ctx context.Context, orgID, callerUserID string) ([]*Member, error) {
	if err := s.requireMember(ctx, orgID, callerUserID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, orgID)
}

func (s *service) AddMember(ctx context.Context, orgID, email, callerUserID string) error {
	owner, err := s.IsOwner(ctx, orgID, callerUserID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrNotOwner
	}

	u, err := s.userService.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.repo.AddMember(ctx, orgID, u.ID, RoleMember)
}

func (s *service) RemoveMember(ctx context.Context, orgID, memberUserID, callerUserID string) error {
	owner, err := s.IsOwner(ctx, orgID, callerUserID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrNotOwner
	}

	member, err := s.repo.GetMember(ctx, orgID, memberUserID)
	if err != nil {
		return err
	}
	if member.Role == RoleOwner {
		return ErrOwnerIrremovable
	}

	return s.repo.RemoveMember(ctx, orgID, memberUserID)
}

func (s *service) IsMember(ctx context.Context, orgID, userID string) (bool, error) {
	_, err := s.repo.GetMember(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) IsOwner(ctx context.Context, orgID, userID string) (bool, error) {
	member, err := s.repo.GetMember(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	return member.Role == RoleOwner, nil
}

func (s *service) requireMember(ctx context.Context, orgID, userID string) error {
	ok, err := s.IsMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	return nil
}
