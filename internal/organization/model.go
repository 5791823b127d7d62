package organization

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/escape-room-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, apperror.KindNotFound, "organization not found")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, apperror.KindValidation, "organization name is required")
	ErrNotMember        = apperror.New(http.StatusForbidden, apperror.KindValidation, "user does not belong to this organization")
	ErrNotOwner         = apperror.New(http.StatusForbidden, apperror.KindValidation, "only the organization owner can do this")
	ErrAlreadyMember    = apperror.New(http.StatusConflict, apperror.KindConflict, "user is already a member of this organization")
	ErrMemberNotFound   = apperror.New(http.StatusNotFound, apperror.KindNotFound, "member not found")
	ErrUserNotFound     = apperror.New(http.StatusNotFound, apperror.KindNotFound, "no user with this email")
	ErrOwnerIrremovable = apperror.New(http.StatusBadRequest, apperror.KindConstraint, "the organization owner cannot be removed")
)

// Organization owns escape rooms and optionally holds payment credentials.
// A room with payments enabled requires its organization to have a secret key
// configured before bookings can be charged.
type Organization struct {
	ID               string
	Name             string
	Location         *string
	PaymentClientKey *string
	PaymentSecretKey *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasPaymentCredentials reports whether charges can be executed for this
// organization's rooms.
func (o *Organization) HasPaymentCredentials() bool {
	return o.PaymentSecretKey != nil && *o.PaymentSecretKey != ""
}

// Membership roles, matching the database enum.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Member represents a user with a role within an organization.
// It joins data from organization_members and users tables.
type Member struct {
	UserID      string
	Email       string
	DisplayName *string
	Role        string
	CreatedAt   time.Time
}
