package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	exchangeRequest "github.com/LavaJover/shvark-exchange-service/internal/delivery/http/dto/exchange/request"
	exchangeResponse "github.com/LavaJover/shvark-exchange-service/internal/delivery/http/dto/exchange/response"
	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase"
	transactiondto "github.com/LavaJover/shvark-exchange-service/internal/usecase/dto/transaction"
	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	Usecase usecase.TransactionUsecase
	Logger  *slog.Logger
}

func NewTransactionHandler(uc usecase.TransactionUsecase, logger *slog.Logger) *TransactionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionHandler{Usecase: uc, Logger: logger}
}

// Create: POST /api/v1/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	var req exchangeRequest.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid payload")
		return
	}

	tx, err := h.Usecase.CreateTransaction(c.Request.Context(), &transactiondto.CreateTransactionInput{
		QuoteID:         req.QuoteID,
		UserID:          req.UserID,
		Network:         strings.ToUpper(strings.TrimSpace(req.Network)),
		WalletAddress:   req.WalletAddress,
		PayoutMethod:    strings.ToLower(strings.TrimSpace(req.PayoutMethod)),
		UPIID:           req.UPIID,
		UTRNumber:       req.UTRNumber,
		PaymentProofURL: req.PaymentProofURL,
	})
	if err != nil {
		status, _ := statusFromError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Error("failed to create transaction", "quote_id", req.QuoteID, "error", err)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

// Get: GET /api/v1/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	tx, err := h.Usecase.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// ListByUser: GET /api/v1/users/:user_id/transactions?page=1&limit=20&status=pending,completed&direction=buy
func (h *TransactionHandler) ListByUser(c *gin.Context) {
	input := &transactiondto.ListTransactionsInput{UserID: c.Param("user_id")}

	var err error
	if input.Page, err = queryInt(c, "page"); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid page")
		return
	}
	if input.Limit, err = queryInt(c, "limit"); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid limit")
		return
	}
	if statuses := c.Query("status"); statuses != "" {
		for _, s := range strings.Split(statuses, ",") {
			input.Filters.Statuses = append(input.Filters.Statuses, domain.TransactionStatus(strings.TrimSpace(s)))
		}
	}
	if dir := c.Query("direction"); dir != "" {
		if input.Filters.Direction, err = domain.ParseDirection(dir); err != nil {
			writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
			return
		}
	}
	if input.Filters.DateFrom, err = queryTime(c, "date_from"); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid date_from")
		return
	}
	if input.Filters.DateTo, err = queryTime(c, "date_to"); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid date_to")
		return
	}

	out, err := h.Usecase.GetUserTransactions(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := exchangeResponse.TransactionsResponse{
		Transactions: make([]exchangeResponse.TransactionResponse, 0, len(out.Transactions)),
		Total:        out.Total,
		Page:         out.Page,
		Limit:        out.Limit,
	}
	for _, tx := range out.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(tx))
	}
	c.JSON(http.StatusOK, resp)
}

func queryInt(c *gin.Context, key string) (int64, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func queryTime(c *gin.Context, key string) (time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}
