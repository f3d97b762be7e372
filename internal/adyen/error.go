package adyen

import "errors"

// Configuration errors surfaced to callers. Each one means the payment
// cannot proceed as requested; nothing here retries.
var (
	// -- Payment request construction --
	ErrInvalidPaymentData = errors.New("payment data are not valid")
	ErrCheckoutNotFound   = errors.New("checkout not found for payment")

	// -- Apple Pay session inputs --
	ErrWalletValidationURL = errors.New("apple pay validation url is missing or not allow-listed")
	ErrWalletMerchantID    = errors.New("apple pay merchant identifier is missing")
	ErrWalletDomain        = errors.New("apple pay domain is missing")
	ErrWalletDisplayName   = errors.New("apple pay display name is missing")
	ErrWalletCertificate   = errors.New("apple pay merchant certificate is missing")

	// -- Remote failures --
	ErrWalletSessionRejected = errors.New("apple pay session request was rejected")
)
