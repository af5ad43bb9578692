package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/rs/zerolog/log"

	"servihub/internal/usecase/interfaces"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

// MercadoPagoGateway implements IPaymentGateway on top of the Mercado Pago
// payments API. Mock mode (PAYMENT_GATEWAY_MOCK) keeps intents in memory and
// approves them immediately, which keeps local runs independent of the
// provider sandbox.
type MercadoPagoGateway struct {
	client payment.Client

	mockMode bool
	mockMu   sync.Mutex
	mockSeen map[string]interfaces.PaymentIntent
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if isPaymentGatewayMockEnabled() {
		log.Info().Msg("payment gateway mock mode enabled")
		return &MercadoPagoGateway{mockMode: true, mockSeen: map[string]interfaces.PaymentIntent{}}, nil
	}

	if accessToken == "" {
		log.Error().Msg("missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Error().Err(err).Msg("mercado pago sdk config failed")
		return nil, err
	}
	log.Info().Msg("mercado pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

func (g *MercadoPagoGateway) CreateIntent(ctx context.Context, in interfaces.CreateIntentInput) (interfaces.PaymentIntent, error) {
	if g != nil && g.mockMode {
		return g.mockCreate(in), nil
	}

	if g == nil || g.client == nil {
		return interfaces.PaymentIntent{}, ErrMercadoPagoGatewayNotConfigured
	}

	payload := map[string]any{
		"transaction_amount": float64(in.AmountCents) / 100,
		"description":        in.Description,
		"external_reference": in.Reference,
	}
	if in.PayerEmail != "" {
		payload["payer"] = map[string]any{"email": in.PayerEmail}
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return interfaces.PaymentIntent{}, err
	}
	var req payment.Request
	if err := json.Unmarshal(b, &req); err != nil {
		return interfaces.PaymentIntent{}, err
	}

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("reference", in.Reference).Msg("mercado pago create failed")
		return interfaces.PaymentIntent{}, err
	}

	intent, err := intentFromResponse(resp)
	if err != nil {
		return interfaces.PaymentIntent{}, err
	}
	log.Info().
		Str("intentId", intent.ID).
		Str("status", string(intent.Status)).
		Int64("amountCents", intent.AmountCents).
		Msg("mercado pago intent created")
	return intent, nil
}

func (g *MercadoPagoGateway) GetIntent(ctx context.Context, id string) (interfaces.PaymentIntent, error) {
	if g != nil && g.mockMode {
		return g.mockGet(id)
	}

	if g == nil || g.client == nil {
		return interfaces.PaymentIntent{}, ErrMercadoPagoGatewayNotConfigured
	}

	numericID, err := strconv.Atoi(id)
	if err != nil {
		return interfaces.PaymentIntent{}, fmt.Errorf("invalid payment intent id %q: %w", id, err)
	}

	resp, err := g.client.Get(ctx, numericID)
	if err != nil {
		log.Error().Err(err).Str("intentId", id).Msg("mercado pago get failed")
		return interfaces.PaymentIntent{}, err
	}
	return intentFromResponse(resp)
}

func (g *MercadoPagoGateway) CancelIntent(ctx context.Context, id string) error {
	if g != nil && g.mockMode {
		g.mockCancel(id)
		return nil
	}

	if g == nil || g.client == nil {
		return ErrMercadoPagoGatewayNotConfigured
	}

	numericID, err := strconv.Atoi(id)
	if err != nil {
		return fmt.Errorf("invalid payment intent id %q: %w", id, err)
	}

	if _, err := g.client.Cancel(ctx, numericID); err != nil {
		log.Error().Err(err).Str("intentId", id).Msg("mercado pago cancel failed")
		return err
	}
	log.Info().Str("intentId", id).Msg("mercado pago intent canceled")
	return nil
}

// intentFromResponse normalizes a provider response into the gateway-neutral
// shape. Amount and approval date are read from the serialized payload so the
// adapter depends only on the documented wire fields.
func intentFromResponse(resp *payment.Response) (interfaces.PaymentIntent, error) {
	if resp == nil {
		return interfaces.PaymentIntent{}, errors.New("empty mercado pago response")
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return interfaces.PaymentIntent{}, err
	}

	var wire struct {
		TransactionAmount float64 `json:"transaction_amount"`
		DateApproved      string  `json:"date_approved"`
	}
	_ = json.Unmarshal(raw, &wire)

	intent := interfaces.PaymentIntent{
		ID:          strconv.Itoa(resp.ID),
		Status:      mapProviderStatus(resp.Status),
		AmountCents: int64(math.Round(wire.TransactionAmount * 100)),
		Raw:         raw,
	}
	if wire.DateApproved != "" {
		if t, err := time.Parse(time.RFC3339Nano, wire.DateApproved); err == nil {
			intent.ApprovedAt = &t
		}
	}
	return intent, nil
}

func mapProviderStatus(status string) interfaces.IntentStatus {
	switch strings.ToLower(status) {
	case "approved":
		return interfaces.IntentStatusSucceeded
	case "rejected", "refunded", "charged_back":
		return interfaces.IntentStatusFailed
	case "cancelled":
		return interfaces.IntentStatusCanceled
	default:
		// pending, in_process, authorized, in_mediation
		return interfaces.IntentStatusPending
	}
}

func (g *MercadoPagoGateway) mockCreate(in interfaces.CreateIntentInput) interfaces.PaymentIntent {
	g.mockMu.Lock()
	defer g.mockMu.Unlock()

	id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	now := time.Now().UTC()
	raw, _ := json.Marshal(map[string]any{
		"id":                 id,
		"status":             "approved",
		"status_detail":      "accredited",
		"transaction_amount": float64(in.AmountCents) / 100,
		"external_reference": in.Reference,
		"date_created":       now.Format(time.RFC3339Nano),
		"date_approved":      now.Format(time.RFC3339Nano),
	})

	intent := interfaces.PaymentIntent{
		ID:          id,
		Status:      interfaces.IntentStatusSucceeded,
		AmountCents: in.AmountCents,
		ApprovedAt:  &now,
		Raw:         raw,
	}
	g.mockSeen[id] = intent
	log.Info().Str("intentId", id).Int64("amountCents", in.AmountCents).Msg("mock payment intent approved")
	return intent
}

func (g *MercadoPagoGateway) mockGet(id string) (interfaces.PaymentIntent, error) {
	g.mockMu.Lock()
	defer g.mockMu.Unlock()

	intent, ok := g.mockSeen[id]
	if !ok {
		return interfaces.PaymentIntent{}, fmt.Errorf("payment intent %s not found", id)
	}
	return intent, nil
}

func (g *MercadoPagoGateway) mockCancel(id string) {
	g.mockMu.Lock()
	defer g.mockMu.Unlock()

	if intent, ok := g.mockSeen[id]; ok {
		intent.Status = interfaces.IntentStatusCanceled
		g.mockSeen[id] = intent
	}
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
