package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shopcore-payments/internal/adyen"
	"shopcore-payments/internal/checkout"
	"shopcore-payments/internal/config"
	"shopcore-payments/internal/logger"
	"shopcore-payments/internal/middleware"
	"shopcore-payments/internal/payment"
	"shopcore-payments/internal/utils"
)

// Handler exposes the payment gateway over REST for the storefront.
type Handler struct {
	cfg          *config.Config
	gateway      *adyen.Gateway
	builder      *adyen.RequestBuilder
	payments     payment.Repository
	checkouts    checkout.Repository
	applePayCert string
}

func NewHandler(
	cfg *config.Config,
	gateway *adyen.Gateway,
	builder *adyen.RequestBuilder,
	payments payment.Repository,
	checkouts checkout.Repository,
	applePayCert string,
) *Handler {
	return &Handler{
		cfg:          cfg,
		gateway:      gateway,
		builder:      builder,
		payments:     payments,
		checkouts:    checkouts,
		applePayCert: applePayCert,
	}
}

func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(
		logger.RequestIDMiddleware,
		logger.LoggingMiddleware,
		middleware.CORS,
		middleware.AuthMiddleware,
		middleware.RateLimitMiddleware,
	)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/payments", h.CreatePayment).Methods(http.MethodPost)
	r.HandleFunc("/payments/{reference}", h.GetPayment).Methods(http.MethodGet)
	r.HandleFunc("/gateway-config", h.GatewayConfig).Methods(http.MethodPost)
	r.HandleFunc("/wallet/sessions", h.CreateWalletSession).Methods(http.MethodPost)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

type createPaymentRequest struct {
	CheckoutID string                 `json:"checkout_id"`
	Reference  string                 `json:"reference"`
	Amount     decimal.Decimal        `json:"amount"`
	Currency   string                 `json:"currency"`
	Email      string                 `json:"email"`
	Data       map[string]interface{} `json:"data"`
}

type paymentResponse struct {
	Reference     string                  `json:"reference"`
	Status        string                  `json:"status"`
	ResultCode    string                  `json:"result_code"`
	PSPReference  string                  `json:"psp_reference,omitempty"`
	Action        adyen.Action            `json:"action,omitempty"`
	PaymentMethod adyen.PaymentMethodInfo `json:"payment_method"`
}

// CreatePayment drives one payment attempt end to end: build the gateway
// request from the submitted drop-in data, post it, and record the outcome.
// When the gateway demands another shopper step the action is appended to the
// payment's history before it is returned.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	checkoutID, err := uuid.Parse(req.CheckoutID)
	if err != nil {
		utils.WriteJSONError(w, "invalid checkout_id", http.StatusBadRequest)
		return
	}
	if req.Reference == "" {
		utils.WriteJSONError(w, "reference is required", http.StatusBadRequest)
		return
	}

	chk, err := h.checkouts.GetByID(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.WriteJSONError(w, "checkout not found", http.StatusNotFound)
			return
		}
		log.Error("Failed to load checkout", zap.Error(err))
		utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	email := req.Email
	if email == "" {
		email = chk.Email
	}

	data := &adyen.PaymentData{
		Amount:        req.Amount,
		Currency:      req.Currency,
		Reference:     req.Reference,
		CustomerEmail: email,
		Data:          req.Data,
		Checkout:      chk,
	}

	gatewayReq, err := h.builder.BuildPaymentRequest(
		data, h.cfg.ReturnURL, h.gateway.MerchantAccount(), h.cfg.NativeThreeDSecure,
	)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p := &payment.Payment{
		CheckoutID: checkoutID,
		Reference:  req.Reference,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Status:     payment.StatusPending,
	}
	if err := h.payments.Save(ctx, p); err != nil {
		log.Error("Failed to save payment", zap.Error(err))
		utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	result, err := h.gateway.CreatePayment(ctx, gatewayReq)
	if err != nil {
		log.Error("Gateway payment failed", zap.Error(err))
		utils.WriteJSONError(w, "gateway error", http.StatusBadGateway)
		return
	}

	status := statusFromResultCode(result.ResultCode)
	if result.Action != nil {
		status = payment.StatusActionRequired
		record := payment.NewActionRecord(result.Action, result.Details)
		if err := h.payments.AppendActionRecord(ctx, req.Reference, record); err != nil {
			log.Error("Failed to record pending action", zap.Error(err))
			utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	if err := h.payments.UpdateStatus(ctx, req.Reference, status, result.PSPReference); err != nil {
		log.Error("Failed to update payment status", zap.Error(err))
		utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, paymentResponse{
		Reference:     req.Reference,
		Status:        status,
		ResultCode:    result.ResultCode,
		PSPReference:  result.PSPReference,
		Action:        result.Action,
		PaymentMethod: adyen.ExtractPaymentMethodInfo(data, result),
	}, http.StatusCreated)
}

func statusFromResultCode(resultCode string) string {
	switch resultCode {
	case "Authorised":
		return payment.StatusAuthorized
	case "Refused", "Error", "Cancelled":
		return payment.StatusRefused
	default:
		return payment.StatusPending
	}
}

type paymentDetails struct {
	Reference  string            `json:"reference"`
	CheckoutID string            `json:"checkout_id"`
	Amount     decimal.Decimal   `json:"amount"`
	Currency   string            `json:"currency"`
	Status     string            `json:"status"`
	Actions    []json.RawMessage `json:"actions,omitempty"`
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]

	p, err := h.payments.GetByReference(r.Context(), reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.WriteJSONError(w, "payment not found", http.StatusNotFound)
			return
		}
		logger.FromCtx(r.Context()).Error("Failed to load payment", zap.Error(err))
		utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, paymentDetails{
		Reference:  p.Reference,
		CheckoutID: p.CheckoutID.String(),
		Amount:     p.Amount,
		Currency:   p.Currency,
		Status:     p.Status,
		Actions:    payment.ActionHistory(p.ExtraData),
	}, http.StatusOK)
}

type gatewayConfigRequest struct {
	CheckoutID string `json:"checkout_id"`
}

// GatewayConfig proxies method availability and configuration for a checkout
// straight from the gateway.
func (h *Handler) GatewayConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req gatewayConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	checkoutID, err := uuid.Parse(req.CheckoutID)
	if err != nil {
		utils.WriteJSONError(w, "invalid checkout_id", http.StatusBadRequest)
		return
	}

	chk, err := h.checkouts.GetByID(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.WriteJSONError(w, "checkout not found", http.StatusNotFound)
			return
		}
		logger.FromCtx(ctx).Error("Failed to load checkout", zap.Error(err))
		utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}

	result, err := h.gateway.PaymentMethods(ctx, adyen.BuildGatewayConfigRequest(chk, h.gateway.MerchantAccount()))
	if err != nil {
		logger.FromCtx(ctx).Error("Gateway config request failed", zap.Error(err))
		utils.WriteJSONError(w, "gateway error", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Raw)
}

type walletSessionRequest struct {
	ValidationURL      string `json:"validation_url"`
	MerchantIdentifier string `json:"merchant_identifier"`
	Domain             string `json:"domain"`
	DisplayName        string `json:"display_name"`
}

// CreateWalletSession validates the storefront's Apple Pay session inputs and
// exchanges them for a merchant session. The raw session is passed back
// untouched for the browser to consume.
func (h *Handler) CreateWalletSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req walletSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	params := adyen.WalletSessionParams{
		ValidationURL:      req.ValidationURL,
		MerchantIdentifier: req.MerchantIdentifier,
		Domain:             req.Domain,
		DisplayName:        req.DisplayName,
		Certificate:        h.applePayCert,
	}

	if err := adyen.ValidateAppleWalletParams(params); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.gateway.InitializeAppleWalletSession(ctx, params)
	if err != nil {
		logger.FromCtx(ctx).Error("Wallet session failed", zap.Error(err))
		utils.WriteJSONError(w, "wallet session rejected", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(session.Raw)
}
