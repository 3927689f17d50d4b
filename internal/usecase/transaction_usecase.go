package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	transactiondto "github.com/LavaJover/shvark-exchange-service/internal/usecase/dto/transaction"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

type TransactionUsecase interface {
	CreateTransaction(ctx context.Context, input *transactiondto.CreateTransactionInput) (*domain.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetUserTransactions(ctx context.Context, input *transactiondto.ListTransactionsInput) (*transactiondto.TransactionsOutput, error)
}

type TransactionEventPublisher interface {
	PublishTransactionCreated(ctx context.Context, tx *domain.Transaction) error
}

type TransactionMetrics interface {
	RecordTransactionCreated(direction, network string, amountINR, amountUSDT float64)
	RecordError(operation, errorType string)
}

type TransactionTimers struct {
	Buy  time.Duration
	Sell time.Duration
}

type DefaultTransactionUsecase struct {
	repo      domain.TransactionRepository
	quotes    domain.QuoteStore
	publisher TransactionEventPublisher
	metrics   TransactionMetrics
	timers    TransactionTimers
	logger    *slog.Logger
	reference func() string
	now       func() time.Time
}

func NewDefaultTransactionUsecase(
	repo domain.TransactionRepository,
	quotes domain.QuoteStore,
	publisher TransactionEventPublisher,
	metrics TransactionMetrics,
	timers TransactionTimers,
	logger *slog.Logger,
) (*DefaultTransactionUsecase, error) {
	// короткий код для поддержки, без похожих символов
	reference, err := nanoid.CustomASCII("23456789ABCDEFGHJKLMNPQRSTUVWXYZ", 10)
	if err != nil {
		return nil, err
	}
	if timers.Buy <= 0 {
		timers.Buy = 5 * time.Minute
	}
	if timers.Sell <= 0 {
		timers.Sell = 15 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultTransactionUsecase{
		repo:      repo,
		quotes:    quotes,
		publisher: publisher,
		metrics:   metrics,
		timers:    timers,
		logger:    logger,
		reference: reference,
		now:       time.Now,
	}, nil
}

// CreateTransaction turns a locked quote into a pending transaction. Rate and
// amounts are copied from the quote; current tiers are not consulted.
func (uc *DefaultTransactionUsecase) CreateTransaction(ctx context.Context, input *transactiondto.CreateTransactionInput) (*domain.Transaction, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: empty input", domain.ErrMissingField)
	}
	if strings.TrimSpace(input.UserID) == "" {
		return nil, fmt.Errorf("%w: user_id", domain.ErrMissingField)
	}
	if strings.TrimSpace(input.QuoteID) == "" {
		return nil, fmt.Errorf("%w: quote_id", domain.ErrMissingField)
	}

	// сначала проверяем реквизиты, чтобы не сжечь котировку на невалидном запросе
	quote, err := uc.quotes.Get(ctx, input.QuoteID)
	if err != nil {
		return nil, err
	}
	if quote.UserID != strings.TrimSpace(input.UserID) {
		uc.recordError("validate", domain.ErrQuoteOwner)
		return nil, domain.ErrQuoteOwner
	}
	tx, err := uc.buildTransaction(quote, input)
	if err != nil {
		uc.recordError("validate", err)
		return nil, err
	}

	taken, err := uc.quotes.Take(ctx, input.QuoteID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.CreateTransaction(ctx, tx); err != nil {
		uc.recordError("create", err)
		uc.restoreQuote(ctx, taken)
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishTransactionCreated(ctx, tx); err != nil {
			uc.logger.Error("failed to publish transaction event", "transaction_id", tx.ID, "error", err)
		}
	}
	if uc.metrics != nil {
		inr, _ := tx.AmountINR.Float64()
		usdt, _ := tx.AmountUSDT.Float64()
		uc.metrics.RecordTransactionCreated(string(tx.Direction), string(tx.Network), inr, usdt)
	}

	uc.logger.Info("transaction created",
		"transaction_id", tx.ID,
		"reference", tx.Reference,
		"user_id", tx.UserID,
		"direction", tx.Direction,
		"rate", tx.UnitRate.String(),
	)
	return tx, nil
}

// restoreQuote возвращает котировку, если транзакцию не удалось записать,
// чтобы пользователь мог повторить запрос по тому же курсу
func (uc *DefaultTransactionUsecase) restoreQuote(ctx context.Context, quote *domain.LockedQuote) {
	ttl := quote.ExpiresAt.Sub(uc.now())
	if ttl <= 0 {
		return
	}
	if err := uc.quotes.Save(ctx, quote, ttl); err != nil {
		uc.logger.Error("failed to restore locked quote", "quote_id", quote.ID, "error", err)
	}
}

func (uc *DefaultTransactionUsecase) buildTransaction(quote *domain.LockedQuote, input *transactiondto.CreateTransactionInput) (*domain.Transaction, error) {
	network, err := domain.ParseNetwork(input.Network)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	tx := &domain.Transaction{
		ID:              uuid.New().String(),
		Reference:       uc.reference(),
		UserID:          input.UserID,
		Direction:       quote.Direction,
		QuoteID:         quote.ID,
		TierID:          quote.TierID,
		AmountInput:     quote.Amount,
		ConvertedAmount: quote.ConvertedAmount,
		UnitRate:        quote.UnitRate,
		Network:         network,
		WalletAddress:   strings.TrimSpace(input.WalletAddress),
		UTRNumber:       strings.TrimSpace(input.UTRNumber),
		PaymentProofURL: strings.TrimSpace(input.PaymentProofURL),
		Status:          domain.TransactionPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	switch quote.Direction {
	case domain.DirectionBuy:
		if tx.WalletAddress == "" {
			return nil, fmt.Errorf("%w: wallet_address", domain.ErrMissingField)
		}
		tx.AmountINR = quote.Amount
		tx.AmountUSDT = quote.ConvertedAmount
		tx.TimerExpiresAt = now.Add(uc.timers.Buy)
	case domain.DirectionSell:
		method := domain.PayoutMethod(input.PayoutMethod)
		switch method {
		case domain.PayoutUPI:
			tx.UPIID = strings.TrimSpace(input.UPIID)
			if tx.UPIID == "" {
				return nil, fmt.Errorf("%w: upi_id", domain.ErrMissingField)
			}
		case domain.PayoutBank:
		default:
			return nil, domain.ErrInvalidPayoutMethod
		}
		tx.PayoutMethod = method
		tx.AmountUSDT = quote.Amount
		tx.AmountINR = quote.ConvertedAmount
		tx.TimerExpiresAt = now.Add(uc.timers.Sell)
	default:
		return nil, domain.ErrInvalidDirection
	}
	return tx, nil
}

func (uc *DefaultTransactionUsecase) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id", domain.ErrMissingField)
	}
	return uc.repo.GetTransactionByID(ctx, id)
}

func (uc *DefaultTransactionUsecase) GetUserTransactions(ctx context.Context, input *transactiondto.ListTransactionsInput) (*transactiondto.TransactionsOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, fmt.Errorf("%w: user_id", domain.ErrMissingField)
	}
	page, limit := input.Page, input.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	txs, total, err := uc.repo.GetTransactionsByUserID(ctx, input.UserID, page, limit, input.Filters)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return &transactiondto.TransactionsOutput{
		Transactions: txs,
		Total:        total,
		Page:         page,
		Limit:        limit,
	}, nil
}

func (uc *DefaultTransactionUsecase) recordError(operation string, err error) {
	if uc.metrics == nil {
		return
	}
	errType := "internal"
	switch {
	case errors.Is(err, domain.ErrMissingField):
		errType = "missing_field"
	case errors.Is(err, domain.ErrQuoteOwner):
		errType = "quote_owner"
	case errors.Is(err, domain.ErrInvalidNetwork), errors.Is(err, domain.ErrInvalidPayoutMethod):
		errType = "invalid_input"
	}
	uc.metrics.RecordError(operation, errType)
}
