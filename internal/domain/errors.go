package domain

import "errors"

var (
	ErrInvalidDirection    = errors.New("invalid direction")
	ErrInvalidTierSet      = errors.New("invalid tier set")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrRatesLoading        = errors.New("rates are still loading")
	ErrRatesUnavailable    = errors.New("rates unavailable")
	ErrQuoteUnresolved     = errors.New("no rate available for amount")
	ErrQuoteNotFound       = errors.New("quote not found or expired")
	ErrQuoteOwner          = errors.New("quote was locked by another user")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidNetwork      = errors.New("invalid network")
	ErrInvalidPayoutMethod = errors.New("invalid payout method")
	ErrMissingField        = errors.New("missing required field")
)
