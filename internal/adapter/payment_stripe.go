package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

const eventCheckoutSessionCompleted = "checkout.session.completed"

type stripeGateway struct {
	client        *client.API
	webhookSecret string
	currency      string
	logger        *logger.Logger
}

// NewStripeGateway constructs a Stripe-backed [PaymentGateway].
func NewStripeGateway(cfg config.Payment, log *logger.Logger) PaymentGateway {
	return newStripeGateway(cfg, nil, log)
}

// newStripeGateway allows the API backend to be replaced, nil keeps the
// default one.
func newStripeGateway(cfg config.Payment, backends *stripe.Backends, log *logger.Logger) *stripeGateway {
	sc := &client.API{}
	sc.Init(cfg.StripeSecretKey, backends)

	return &stripeGateway{
		client:        sc,
		webhookSecret: cfg.StripeWebhookSecret,
		currency:      cfg.Currency,
		logger:        log,
	}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (models.CheckoutSession, error) {
	log := logger.FromContext(ctx)

	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name:        stripe.String(fmt.Sprintf("%s Tour", req.Tour.Name)),
		Description: stripe.String(req.Tour.Summary),
	}
	if req.ImageURL != "" {
		product.Images = stripe.StringSlice([]string{req.ImageURL})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		CustomerEmail:      stripe.String(req.CustomerEmail),
		ClientReferenceID:  stripe.String(req.Tour.ID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(g.currency),
					UnitAmount:  stripe.Int64(toMinorUnits(req.Tour.Price)),
					ProductData: product,
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	session, err := g.client.CheckoutSessions.New(params)
	if err != nil {
		log.Err(err).Str("func", "stripeGateway.CreateCheckoutSession").Str("tour_id", req.Tour.ID).Msg("failed to create checkout session")
		return models.CheckoutSession{}, mapStripeError(err)
	}

	return models.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (g *stripeGateway) ParseWebhook(payload []byte, signature string) (models.CheckoutCompleted, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return models.CheckoutCompleted{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if event.Type != eventCheckoutSessionCompleted {
		return models.CheckoutCompleted{}, fmt.Errorf("%w: %s", ErrIgnoredEvent, event.Type)
	}

	var session stripe.CheckoutSession
	if err = json.Unmarshal(event.Data.Raw, &session); err != nil {
		return models.CheckoutCompleted{}, fmt.Errorf("%w: malformed checkout session: %w", ErrPaymentProvider, err)
	}

	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}

	return models.CheckoutCompleted{
		TourID:        session.ClientReferenceID,
		CustomerEmail: email,
		Price:         float64(session.AmountTotal) / 100,
	}, nil
}

// mapStripeError keeps stripe types out of the service layer.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("%w: %s (%d)", ErrPaymentProvider, stripeErr.Msg, stripeErr.HTTPStatusCode)
	}
	return fmt.Errorf("%w: %w", ErrPaymentProvider, err)
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
