package handlers

import (
	"errors"
	"net/http"

	exchangeResponse "github.com/LavaJover/shvark-exchange-service/internal/delivery/http/dto/exchange/response"
	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnresolved       = "QUOTE_UNRESOLVED"
	CodeRatesLoading     = "RATES_LOADING"
	CodeRatesUnavailable = "RATES_UNAVAILABLE"
	CodeQuoteExpired     = "QUOTE_EXPIRED"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeInternal         = "INTERNAL"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, exchangeResponse.ErrorResponse{
		Success: false,
		Code:    code,
		Error:   message,
	})
}

// statusFromError переводит доменные ошибки в HTTP, все остальное - 500
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidTierSet),
		errors.Is(err, domain.ErrInvalidNetwork),
		errors.Is(err, domain.ErrInvalidPayoutMethod),
		errors.Is(err, domain.ErrMissingField):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, domain.ErrQuoteUnresolved):
		return http.StatusUnprocessableEntity, CodeUnresolved
	case errors.Is(err, domain.ErrRatesLoading):
		return http.StatusServiceUnavailable, CodeRatesLoading
	case errors.Is(err, domain.ErrRatesUnavailable):
		return http.StatusServiceUnavailable, CodeRatesUnavailable
	case errors.Is(err, domain.ErrQuoteNotFound):
		return http.StatusGone, CodeQuoteExpired
	case errors.Is(err, domain.ErrQuoteOwner):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func respondError(c *gin.Context, err error) {
	status, code := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	if code == CodeRatesLoading {
		c.Header("Retry-After", "1")
	}
	writeError(c, status, code, msg)
}
