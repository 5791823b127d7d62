package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/nekogravitycat/escape-room-backend/internal/pkg/apperror"
)

// StripeGateway charges cards through Stripe using each organization's own
// secret key. A fresh API client is initialized per charge because the key
// differs per organization.
type StripeGateway struct {
	logger zerolog.Logger
}

func NewStripeGateway(logger zerolog.Logger) *StripeGateway {
	return &StripeGateway{logger: logger}
}

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	sc := &client.API{}
	sc.Init(req.SecretKey, nil)

	params := &stripe.ChargeParams{
		Params:      stripe.Params{Context: ctx},
		Amount:      stripe.Int64(req.AmountMinorUnits),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Description),
	}
	if err := params.SetSource(req.Token); err != nil {
		return nil, apperror.Wrap(err, 400, apperror.KindPayment, "invalid payment token")
	}

	ch, err := sc.Charges.New(params)
	if err != nil {
		g.logger.Warn().Err(err).
			Int64("amount", req.AmountMinorUnits).
			Str("currency", req.Currency).
			Msg("stripe charge failed")
		return nil, apperror.Wrap(err, ErrChargeFailed.Code, apperror.KindPayment, ErrChargeFailed.Message)
	}

	g.logger.Info().
		Str("charge_id", ch.ID).
		Int64("amount", req.AmountMinorUnits).
		Str("currency", req.Currency).
		Msg("stripe charge captured")

	return &ChargeResult{ProviderChargeID: ch.ID}, nil
}

func (g *StripeGateway) Refund(ctx context.Context, req RefundRequest) error {
	sc := &client.API{}
	sc.Init(req.SecretKey, nil)

	params := &stripe.RefundParams{
		Params: stripe.Params{Context: ctx},
		Charge: stripe.String(req.ProviderChargeID),
	}

	ref, err := sc.Refunds.New(params)
	if err != nil {
		g.logger.Error().Err(err).
			Str("charge_id", req.ProviderChargeID).
			Msg("stripe refund failed")
		return fmt.Errorf("stripe refund failed: %w", err)
	}

	g.logger.Info().
		Str("charge_id", req.ProviderChargeID).
		Str("refund_id", ref.ID).
		Msg("stripe charge refunded")

	return nil
}
