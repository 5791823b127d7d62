package http

import (
	"time"

	"github.com/nekogravitycat/escape-room-backend/internal/organization"
)

type CreateOrganizationRequest struct {
	Name     string  `json:"name" binding:"required,max=200"`
	Location *string `json:"location" binding:"omitempty,max=500"`
}

type UpdateOrganizationRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=200"`
	Location *string `json:"location" binding:"omitempty,max=500"`
}

type PaymentDetailsRequest struct {
	ClientKey string `json:"payment_client_key" binding:"required"`
	SecretKey string `json:"payment_secret_key" binding:"required"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// OrganizationResponse never exposes the payment secret key; clients only see
// whether payments are configured.
type OrganizationResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Location          *string   `json:"location,omitempty"`
	PaymentClientKey  *string   `json:"payment_client_key,omitempty"`
	PaymentConfigured bool      `json:"payment_configured"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OrganizationTag is a minimal organization reference embedded in other responses.
type OrganizationTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MemberResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewOrganizationResponse(o *organization.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:                o.ID,
		Name:              o.Name,
		Location:          o.Location,
		PaymentClientKey:  o.PaymentClientKey,
		PaymentConfigured: o.HasPaymentCredentials(),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func NewMemberResponse(m *organization.Member) MemberResponse {
	return MemberResponse{
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        m.Role,
		CreatedAt:   m.CreatedAt,
	}
}
