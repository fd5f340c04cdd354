package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/plateful/plateful/internal/domain"
)

type Stripe struct {
	webhookSecret string
}

func New(secretKey, webhookSecret string) *Stripe {
	stripe.Key = secretKey
	return &Stripe{webhookSecret: webhookSecret}
}

// CreateCheckoutSession builds a Stripe-hosted payment page from the
// cart. Line items carry server-side prices, never client-supplied ones.
func (s *Stripe) CreateCheckoutSession(orderID string, items []domain.CartItem, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, it := range items {
		li := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
				UnitAmount: stripe.Int64(it.Price),
			},
			Quantity: stripe.Int64(int64(it.Quantity)),
		}
		if it.ImageURL != "" {
			li.PriceData.ProductData.Images = []*string{stripe.String(it.ImageURL)}
		}
		lineItems = append(lineItems, li)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.AddMetadata("order_id", orderID)

	return session.New(params)
}

// VerifyWebhook checks the Stripe-Signature header and decodes the event.
func (s *Stripe) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	if s.webhookSecret == "" {
		return stripe.Event{}, fmt.Errorf("stripe webhook secret is not configured")
	}
	return webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
}
