package adyen

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	pkcs12 "software.sslmate.com/src/go-pkcs12"

	"shopcore-payments/internal/logger"
)

const (
	walletInitiative = "web"
	walletTimeout    = 15 * time.Second
)

// appleWalletDomains holds the validation endpoints Apple publishes for
// merchant validation. Anything else is refused before the merchant
// certificate ever touches the wire.
var appleWalletDomains = []string{
	"apple-pay-gateway.apple.com",
	"cn-apple-pay-gateway.apple.com",
	"apple-pay-gateway-nc-pod1.apple.com",
	"apple-pay-gateway-nc-pod2.apple.com",
	"apple-pay-gateway-nc-pod3.apple.com",
	"apple-pay-gateway-nc-pod4.apple.com",
	"apple-pay-gateway-nc-pod5.apple.com",
	"apple-pay-gateway-pr-pod1.apple.com",
	"apple-pay-gateway-pr-pod2.apple.com",
	"apple-pay-gateway-pr-pod3.apple.com",
	"apple-pay-gateway-pr-pod4.apple.com",
	"apple-pay-gateway-pr-pod5.apple.com",
	"cn-apple-pay-gateway-sh-pod1.apple.com",
	"cn-apple-pay-gateway-sh-pod2.apple.com",
	"cn-apple-pay-gateway-sh-pod3.apple.com",
	"cn-apple-pay-gateway-tj-pod1.apple.com",
	"cn-apple-pay-gateway-tj-pod2.apple.com",
	"cn-apple-pay-gateway-tj-pod3.apple.com",
	"apple-pay-gateway-cert.apple.com",
	"cn-apple-pay-gateway-cert.apple.com",
}

// WalletSessionParams are the five inputs a merchant session request needs.
// Certificate is the merchant identity certificate and key as one combined
// PEM string.
type WalletSessionParams struct {
	ValidationURL      string
	MerchantIdentifier string
	Domain             string
	DisplayName        string
	Certificate        string
}

// WalletSession is a merchant session issued by the wallet provider. Raw
// carries the full payload, which the storefront must hand to the browser
// untouched.
type WalletSession struct {
	EpochTimestamp            int64           `json:"epochTimestamp"`
	ExpiresAt                 int64           `json:"expiresAt"`
	MerchantSessionIdentifier string          `json:"merchantSessionIdentifier"`
	Raw                       json.RawMessage `json:"-"`
}

// ValidateAppleWalletParams checks the five session inputs. The checks are
// independent; the first failing one is reported.
func ValidateAppleWalletParams(p WalletSessionParams) error {
	if !isAppleValidationURL(p.ValidationURL) {
		return ErrWalletValidationURL
	}
	if p.MerchantIdentifier == "" {
		return ErrWalletMerchantID
	}
	if p.Domain == "" {
		return ErrWalletDomain
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return ErrWalletDisplayName
	}
	if p.Certificate == "" {
		return ErrWalletCertificate
	}
	return nil
}

func isAppleValidationURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := u.Hostname()
	for _, d := range appleWalletDomains {
		if host == d {
			return true
		}
	}
	return false
}

// InitializeAppleWalletSession obtains a merchant session from the wallet
// provider. The merchant certificate is staged in a scoped temp file that is
// removed on every exit path.
func (g *Gateway) InitializeAppleWalletSession(ctx context.Context, p WalletSessionParams) (*WalletSession, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("domain", p.Domain),
		zap.String("merchant_identifier", p.MerchantIdentifier),
	)

	certFile, err := os.CreateTemp("", "apple-pay-cert-*.pem")
	if err != nil {
		return nil, fmt.Errorf("failed to stage merchant certificate: %w", err)
	}
	defer os.Remove(certFile.Name())

	if _, err := certFile.WriteString(p.Certificate); err != nil {
		certFile.Close()
		return nil, fmt.Errorf("failed to stage merchant certificate: %w", err)
	}
	if err := certFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage merchant certificate: %w", err)
	}

	client, err := g.walletClient(certFile.Name())
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{
		"merchantIdentifier": p.MerchantIdentifier,
		"displayName":        p.DisplayName,
		"initiative":         walletInitiative,
		"initiativeContext":  p.Domain,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.ValidationURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Info("Requesting apple pay merchant session")

	resp, err := client.Do(req)
	if err != nil {
		log.Error("Apple pay session request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read apple pay response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error("Apple pay session rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("%w: status %d", ErrWalletSessionRejected, resp.StatusCode)
	}

	var session WalletSession
	if err := json.Unmarshal(bodyBytes, &session); err != nil {
		return nil, fmt.Errorf("failed decoding apple pay session: %w", err)
	}
	session.Raw = json.RawMessage(bodyBytes)

	log.Info("Apple pay merchant session created",
		zap.String("merchant_session_identifier", session.MerchantSessionIdentifier),
	)
	return &session, nil
}

// newWalletClient builds an HTTP client holding the merchant identity
// certificate from the combined PEM file at certPath.
func newWalletClient(certPath string) (*http.Client, error) {
	cert, err := tls.LoadX509KeyPair(certPath, certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load merchant certificate: %w", err)
	}
	return &http.Client{
		Timeout: walletTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
		},
	}, nil
}

// CertificateFromP12 converts a PKCS#12 merchant identity bundle into the
// combined PEM form the session initializer consumes.
func CertificateFromP12(data []byte, password string) (string, error) {
	key, leaf, caCerts, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return "", fmt.Errorf("failed to decode p12 certificate: %w", err)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to encode private key: %w", err)
	}

	var buf bytes.Buffer
	if err := pem.Encode(&buf, &pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}); err != nil {
		return "", err
	}
	if err := pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: leaf.Raw}); err != nil {
		return "", err
	}
	for _, c := range caCerts {
		if err := pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: c.Raw}); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
