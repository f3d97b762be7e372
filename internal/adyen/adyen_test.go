package adyen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopcore-payments/internal/checkout"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestNewGateway(t *testing.T) {
	t.Run("DefaultBaseURL", func(t *testing.T) {
		gw := NewGateway("key", "MerchantAccount", "")
		assert.Equal(t, testBaseURL, gw.baseURL)
		assert.Equal(t, "MerchantAccount", gw.MerchantAccount())
	})

	t.Run("EmptyKey", func(t *testing.T) {
		gw := NewGateway("", "MerchantAccount", "")
		assert.NotNil(t, gw)
	})
}

func TestGateway_CreatePayment(t *testing.T) {
	gw := NewGateway("test-key", "MerchantAccount", "https://checkout.example.com/v71")

	builder := NewRequestBuilder(checkout.FlatCalculator{})
	req, err := builder.BuildPaymentRequest(testPaymentData(), "https://shop.example.com/", "MerchantAccount", false)
	require.NoError(t, err)

	t.Run("Authorised", func(t *testing.T) {
		respBody := `{
			"resultCode": "Authorised",
			"pspReference": "882595494831959A",
			"additionalData": {"paymentMethod": "mc"}
		}`

		gw.httpClient.Transport = MockRoundTripper(func(r *http.Request) *http.Response {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "https://checkout.example.com/v71/payments", r.URL.String())
			assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var sent map[string]interface{}
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &sent))
			assert.Equal(t, "pay-1", sent["reference"])

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(respBody)),
				Header:     make(http.Header),
			}
		})

		result, err := gw.CreatePayment(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Authorised", result.ResultCode)
		assert.Equal(t, "882595494831959A", result.PSPReference)
		assert.Nil(t, result.Action)
		assert.JSONEq(t, respBody, string(result.Raw))
	})

	t.Run("ActionRequired", func(t *testing.T) {
		respBody := `{
			"resultCode": "RedirectShopper",
			"action": {
				"type": "redirect",
				"paymentData": "Ab02b4c0",
				"url": "https://checkout.example.com/redirect"
			},
			"details": [
				{"key": "MD", "type": "text"},
				{"key": "PaRes", "type": "text"}
			]
		}`

		gw.httpClient.Transport = MockRoundTripper(func(r *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(respBody)),
				Header:     make(http.Header),
			}
		})

		result, err := gw.CreatePayment(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "RedirectShopper", result.ResultCode)
		require.NotNil(t, result.Action)
		assert.Equal(t, "Ab02b4c0", result.Action.PaymentData())
		assert.Equal(t, []ActionDetail{{Key: "MD", Type: "text"}, {Key: "PaRes", Type: "text"}}, result.Details)
	})

	t.Run("APIError", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripper(func(r *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusUnauthorized,
				Body:       io.NopCloser(bytes.NewBufferString(`{"errorCode": "901"}`)),
				Header:     make(http.Header),
			}
		})

		_, err := gw.CreatePayment(context.Background(), req)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "adyen error")
	})

	t.Run("NetworkError", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripperWithError(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})

		_, err := gw.CreatePayment(context.Background(), req)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("InvalidJSONResponse", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripper(func(r *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(`{invalid-json`)),
				Header:     make(http.Header),
			}
		})

		_, err := gw.CreatePayment(context.Background(), req)
		assert.Error(t, err)
	})
}

func TestGateway_PaymentMethods(t *testing.T) {
	gw := NewGateway("test-key", "MerchantAccount", "https://checkout.example.com/v71")

	t.Run("Success", func(t *testing.T) {
		respBody := `{
			"paymentMethods": [
				{"type": "scheme", "name": "Cards"},
				{"type": "klarna", "name": "Klarna"}
			]
		}`

		gw.httpClient.Transport = MockRoundTripper(func(r *http.Request) *http.Response {
			assert.Equal(t, "https://checkout.example.com/v71/paymentMethods", r.URL.String())

			var sent map[string]interface{}
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &sent))
			assert.Equal(t, "US", sent["countryCode"])
			assert.Equal(t, "web", sent["channel"])

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(respBody)),
				Header:     make(http.Header),
			}
		})

		result, err := gw.PaymentMethods(context.Background(), BuildGatewayConfigRequest(testCheckout(), "MerchantAccount"))
		require.NoError(t, err)
		assert.Contains(t, result.Message, "paymentMethods")
		assert.JSONEq(t, respBody, string(result.Raw))
	})

	t.Run("APIError", func(t *testing.T) {
		gw.httpClient.Transport = MockRoundTripper(func(r *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusForbidden,
				Body:       io.NopCloser(bytes.NewBufferString(`{"errorCode": "010"}`)),
				Header:     make(http.Header),
			}
		})

		_, err := gw.PaymentMethods(context.Background(), BuildGatewayConfigRequest(testCheckout(), "MerchantAccount"))
		assert.Error(t, err)
	})
}
