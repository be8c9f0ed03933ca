package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.stripe.com/v1"

var (
	// ErrCardDeclined - the processor refused the charge (card error).
	ErrCardDeclined = errors.New("payment declined")

	// ErrUnavailable - transport failure or processor outage, retryable.
	ErrUnavailable = errors.New("payment provider unavailable")
)

// Gateway is the payment processor boundary. One implementation talks to
// Stripe; tests substitute a mock.
type Gateway interface {
	CreateCustomer(ctx context.Context, email, name string) (*Customer, error)
	CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error)
	CreateRefund(ctx context.Context, paymentIntentID string) (*Refund, error)
	CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*SubscriptionInfo, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	CreateConnectAccount(ctx context.Context, email, country string) (*Account, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*AccountLink, error)
	CreateTransfer(ctx context.Context, amountCents int64, destinationAccountID, description string) (*Transfer, error)
}

type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type PaymentIntentRequest struct {
	AmountCents     int64
	CustomerID      string
	PaymentMethodID string
	Metadata        map[string]string
}

type PaymentIntent struct {
	ID     string `json:"id"`
	Status string `json:"status"` // succeeded, requires_action, ...
	Amount int64  `json:"amount"`
}

type Refund struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SubscriptionInfo struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
}

type Account struct {
	ID string `json:"id"`
}

type AccountLink struct {
	URL string `json:"url"`
}

type Transfer struct {
	ID string `json:"id"`
}

// stripeError is Stripe's error envelope.
type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// StripeClient implements Gateway against the Stripe REST API.
type StripeClient struct {
	http *resty.Client
}

// NewStripeClient builds a client. baseURL is overridable for tests; pass ""
// for the real API.
func NewStripeClient(secretKey, baseURL string) *StripeClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")

	return &StripeClient{http: client}
}

func (s *StripeClient) CreateCustomer(ctx context.Context, email, name string) (*Customer, error) {
	var customer Customer
	err := s.post(ctx, "/customers", map[string]string{
		"email": email,
		"name":  name,
	}, &customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *StripeClient) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	form := map[string]string{
		"amount":         strconv.FormatInt(req.AmountCents, 10),
		"currency":       "usd",
		"customer":       req.CustomerID,
		"payment_method": req.PaymentMethodID,
		"confirm":        "true",
		"automatic_payment_methods[enabled]":         "true",
		"automatic_payment_methods[allow_redirects]": "never",
	}
	for k, v := range req.Metadata {
		form[fmt.Sprintf("metadata[%s]", k)] = v
	}

	var intent PaymentIntent
	if err := s.post(ctx, "/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	if intent.Status != "succeeded" {
		return nil, fmt.Errorf("%w: payment intent status %s", ErrCardDeclined, intent.Status)
	}
	return &intent, nil
}

func (s *StripeClient) CreateRefund(ctx context.Context, paymentIntentID string) (*Refund, error) {
	var refund Refund
	err := s.post(ctx, "/refunds", map[string]string{
		"payment_intent": paymentIntentID,
	}, &refund)
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (s *StripeClient) CreateSubscription(ctx context.Context, customerID, priceID string, metadata map[string]string) (*SubscriptionInfo, error) {
	form := map[string]string{
		"customer":         customerID,
		"items[0][price]":  priceID,
		"payment_behavior": "default_incomplete",
		"payment_settings[save_default_payment_method]": "on_subscription",
	}
	for k, v := range metadata {
		form[fmt.Sprintf("metadata[%s]", k)] = v
	}

	var subscription SubscriptionInfo
	if err := s.post(ctx, "/subscriptions", form, &subscription); err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (s *StripeClient) CancelSubscription(ctx context.Context, subscriptionID string) error {
	resp, err := s.http.R().
		SetContext(ctx).
		Delete("/subscriptions/" + subscriptionID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return s.checkResponse(resp, nil)
}

func (s *StripeClient) CreateConnectAccount(ctx context.Context, email, country string) (*Account, error) {
	if country == "" {
		country = "US"
	}

	var account Account
	err := s.post(ctx, "/accounts", map[string]string{
		"type":    "express",
		"country": country,
		"email":   email,
		"capabilities[card_payments][requested]": "true",
		"capabilities[transfers][requested]":     "true",
	}, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *StripeClient) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*AccountLink, error) {
	var link AccountLink
	err := s.post(ctx, "/account_links", map[string]string{
		"account":     accountID,
		"refresh_url": refreshURL,
		"return_url":  returnURL,
		"type":        "account_onboarding",
	}, &link)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *StripeClient) CreateTransfer(ctx context.Context, amountCents int64, destinationAccountID, description string) (*Transfer, error) {
	var transfer Transfer
	err := s.post(ctx, "/transfers", map[string]string{
		"amount":      strconv.FormatInt(amountCents, 10),
		"currency":    "usd",
		"destination": destinationAccountID,
		"description": description,
	}, &transfer)
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (s *StripeClient) post(ctx context.Context, path string, form map[string]string, out interface{}) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return s.checkResponse(resp, out)
}

func (s *StripeClient) checkResponse(resp *resty.Response, out interface{}) error {
	if resp.StatusCode() >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	if resp.StatusCode() >= 400 {
		var stripeErr stripeError
		if err := json.Unmarshal(resp.Body(), &stripeErr); err == nil && stripeErr.Error.Type == "card_error" {
			return fmt.Errorf("%w: %s", ErrCardDeclined, stripeErr.Error.Message)
		}
		return fmt.Errorf("stripe request failed: status %d: %s", resp.StatusCode(), resp.String())
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode stripe response: %w", err)
	}
	return nil
}
