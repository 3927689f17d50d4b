package mappers

import (
	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/LavaJover/shvark-exchange-service/internal/infrastructure/postgres/models"
)

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:              model.ID,
		Reference:       model.Reference,
		UserID:          model.UserID,
		Direction:       model.TransactionType,
		QuoteID:         model.QuoteID,
		TierID:          model.TierID,
		AmountInput:     model.AmountInput,
		ConvertedAmount: model.ConvertedAmount,
		UnitRate:        model.ExchangeRate,
		AmountINR:       model.AmountINR,
		AmountUSDT:      model.AmountUSDT,
		Network:         model.NetworkType,
		WalletAddress:   model.WalletAddress,
		PayoutMethod:    model.PayoutMethod,
		UPIID:           model.UPIID,
		UTRNumber:       model.UTRNumber,
		PaymentProofURL: model.PaymentProofURL,
		Status:          model.Status,
		TimerExpiresAt:  model.TimerExpiresAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMTransaction(tx *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:              tx.ID,
		Reference:       tx.Reference,
		UserID:          tx.UserID,
		TransactionType: tx.Direction,
		QuoteID:         tx.QuoteID,
		TierID:          tx.TierID,
		AmountInput:     tx.AmountInput,
		ConvertedAmount: tx.ConvertedAmount,
		AmountINR:       tx.AmountINR,
		AmountUSDT:      tx.AmountUSDT,
		ExchangeRate:    tx.UnitRate,
		NetworkType:     tx.Network,
		WalletAddress:   tx.WalletAddress,
		PayoutMethod:    tx.PayoutMethod,
		UPIID:           tx.UPIID,
		UTRNumber:       tx.UTRNumber,
		PaymentProofURL: tx.PaymentProofURL,
		Status:          tx.Status,
		TimerExpiresAt:  tx.TimerExpiresAt,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}
