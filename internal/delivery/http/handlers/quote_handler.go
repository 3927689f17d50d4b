package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	exchangeRequest "github.com/LavaJover/shvark-exchange-service/internal/delivery/http/dto/exchange/request"
	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase"
	quotedto "github.com/LavaJover/shvark-exchange-service/internal/usecase/dto/quote"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type QuoteHandler struct {
	Usecase usecase.QuoteUsecase
	Logger  *slog.Logger
}

func NewQuoteHandler(uc usecase.QuoteUsecase, logger *slog.Logger) *QuoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteHandler{Usecase: uc, Logger: logger}
}

// Preview: GET /api/v1/quote?direction=buy&amount=9000
// Невалидная или нулевая сумма не ошибка, а unresolved.
func (h *QuoteHandler) Preview(c *gin.Context) {
	input, ok := parseQuoteInput(c, c.Query("direction"), c.Query("amount"))
	if !ok {
		return
	}
	out, err := h.Usecase.Preview(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(out))
}

// Lock: POST /api/v1/quotes
func (h *QuoteHandler) Lock(c *gin.Context) {
	var req exchangeRequest.LockQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid payload")
		return
	}
	input, ok := parseQuoteInput(c, req.Direction, req.Amount)
	if !ok {
		return
	}
	input.UserID = req.UserID
	out, err := h.Usecase.Lock(c.Request.Context(), input)
	if err != nil {
		status, _ := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to lock quote", "error", err)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLockedQuoteResponse(&out.Quote))
}

func parseQuoteInput(c *gin.Context, direction, amount string) (*quotedto.QuoteInput, bool) {
	dir, err := domain.ParseDirection(strings.ToLower(strings.TrimSpace(direction)))
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return nil, false
	}
	amount = strings.TrimSpace(amount)
	value := decimal.Zero
	if amount != "" {
		value, err = decimal.NewFromString(amount)
		if err != nil {
			writeError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid amount")
			return nil, false
		}
	}
	return &quotedto.QuoteInput{Direction: dir, Amount: value}, true
}
