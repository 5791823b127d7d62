package payment

import (
	"context"
	"net/http"

	"github.com/nekogravitycat/escape-room-backend/internal/pkg/apperror"
)

var (
	ErrChargeFailed = apperror.New(http.StatusPaymentRequired, apperror.KindPayment, "payment was declined")
)

// ChargeRequest describes a single synchronous charge. The secret key belongs
// to the room's organization; there is no process-wide provider account.
type ChargeRequest struct {
	AmountMinorUnits int64
	Currency         string
	Token            string
	SecretKey        string
	Description      string
}

// ChargeResult is the provider's reference to a captured charge.
type ChargeResult struct {
	ProviderChargeID string
}

// RefundRequest reverses a captured charge in full. Needed when a paid
// booking charges up front and then fails to persist.
type RefundRequest struct {
	ProviderChargeID string
	SecretKey        string
}

// Gateway executes charges. The booking engine only decides whether to call
// it and how to interpret the outcome.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, req RefundRequest) error
}
