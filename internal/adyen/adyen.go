package adyen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"shopcore-payments/internal/logger"
)

const (
	testBaseURL    = "https://checkout-test.adyen.com/v71"
	apiKeyHeader   = "X-API-Key"
	requestTimeout = 15 * time.Second
)

// Gateway is the Checkout API client. The built request payloads go out
// through it; the wallet session initializer shares it for its
// certificate-bound client plumbing.
type Gateway struct {
	apiKey          string
	merchantAccount string
	baseURL         string
	httpClient      *http.Client

	// walletClient builds the HTTP client holding the Apple Pay merchant
	// identity certificate. Swapped out in tests.
	walletClient func(certPath string) (*http.Client, error)
}

func NewGateway(apiKey, merchantAccount, baseURL string) *Gateway {
	if apiKey == "" {
		logger.L().Warn("Adyen API key is empty")
	}
	if baseURL == "" {
		baseURL = testBaseURL
	}

	return &Gateway{
		apiKey:          apiKey,
		merchantAccount: merchantAccount,
		baseURL:         baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		walletClient: newWalletClient,
	}
}

func (g *Gateway) MerchantAccount() string {
	return g.merchantAccount
}

// CreatePayment posts a built payment request to /payments.
func (g *Gateway) CreatePayment(ctx context.Context, req *PaymentRequest) (*GatewayResult, error) {
	return g.post(ctx, "/payments", req)
}

// PaymentMethods fetches method availability and configuration for a
// checkout via /paymentMethods.
func (g *Gateway) PaymentMethods(ctx context.Context, req GatewayConfigRequest) (*GatewayResult, error) {
	return g.post(ctx, "/paymentMethods", req)
}

func (g *Gateway) post(ctx context.Context, path string, payload interface{}) (*GatewayResult, error) {
	log := logger.FromCtx(ctx).With(zap.String("path", path))

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("Failed to marshal gateway request", zap.Error(err))
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, g.apiKey)

	log.Info("Sending request to Adyen")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		log.Error("Adyen request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read adyen response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error("Adyen returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("adyen error: %s", string(bodyBytes))
	}

	return parseGatewayResult(bodyBytes)
}

// parseGatewayResult keeps the whole decoded body as Message and pulls out
// the fields the service acts on.
func parseGatewayResult(body []byte) (*GatewayResult, error) {
	var message map[string]interface{}
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, fmt.Errorf("failed decoding adyen response: %w", err)
	}

	result := &GatewayResult{
		ResultCode:   cast.ToString(message["resultCode"]),
		PSPReference: cast.ToString(message["pspReference"]),
		Message:      message,
		Raw:          json.RawMessage(body),
	}

	if action, ok := message["action"].(map[string]interface{}); ok {
		result.Action = Action(action)
	}
	if details, ok := message["details"].([]interface{}); ok {
		for _, d := range details {
			m, ok := d.(map[string]interface{})
			if !ok {
				continue
			}
			result.Details = append(result.Details, ActionDetail{
				Key:  cast.ToString(m["key"]),
				Type: cast.ToString(m["type"]),
			})
		}
	}

	return result, nil
}
