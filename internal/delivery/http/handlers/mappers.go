package handlers

import (
	exchangeResponse "github.com/LavaJover/shvark-exchange-service/internal/delivery/http/dto/exchange/response"
	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	quotedto "github.com/LavaJover/shvark-exchange-service/internal/usecase/dto/quote"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase/pricing"
)

func toTierResponse(t *domain.PriceTier) exchangeResponse.TierResponse {
	resp := exchangeResponse.TierResponse{
		ID:          t.ID,
		Direction:   string(t.Direction),
		Kind:        string(t.Kind),
		RangeLabel:  t.RangeLabel,
		MinQuantity: t.MinQuantity.String(),
		UnitRate:    t.UnitRate.String(),
		SortOrder:   t.SortOrder,
	}
	if t.MaxQuantity != nil {
		maxQuantity := t.MaxQuantity.String()
		resp.MaxQuantity = &maxQuantity
	}
	return resp
}

func toQuoteResponse(out *quotedto.QuoteOutput) exchangeResponse.QuoteResponse {
	res := out.Result
	resp := exchangeResponse.QuoteResponse{
		State:       string(out.State),
		Reason:      string(res.Reason),
		Direction:   string(res.Direction),
		Strategy:    res.Strategy,
		Amount:      res.Amount.String(),
		Committable: out.Committable(),
	}
	if !out.RatesAsOf.IsZero() {
		asOf := out.RatesAsOf
		resp.RatesAsOf = &asOf
	}
	if res.Resolved() {
		tier := toTierResponse(res.Tier)
		resp.Tier = &tier
		resp.UnitRate = res.UnitRate.String()
		resp.ConvertedAmount = res.ConvertedAmount.StringFixed(pricing.AssetPrecision)
	}
	return resp
}

func toLockedQuoteResponse(q *domain.LockedQuote) exchangeResponse.LockedQuoteResponse {
	return exchangeResponse.LockedQuoteResponse{
		QuoteID:         q.ID,
		Direction:       string(q.Direction),
		Strategy:        q.Strategy,
		Amount:          q.Amount.String(),
		UnitRate:        q.UnitRate.String(),
		ConvertedAmount: q.ConvertedAmount.StringFixed(pricing.AssetPrecision),
		TierID:          q.TierID,
		TierLabel:       q.TierLabel,
		ExpiresAt:       q.ExpiresAt,
	}
}

func toTransactionResponse(tx *domain.Transaction) exchangeResponse.TransactionResponse {
	return exchangeResponse.TransactionResponse{
		ID:              tx.ID,
		Reference:       tx.Reference,
		UserID:          tx.UserID,
		TransactionType: string(tx.Direction),
		QuoteID:         tx.QuoteID,
		TierID:          tx.TierID,
		AmountINR:       tx.AmountINR.StringFixed(pricing.AssetPrecision),
		AmountUSDT:      tx.AmountUSDT.StringFixed(pricing.AssetPrecision),
		ExchangeRate:    tx.UnitRate.String(),
		NetworkType:     string(tx.Network),
		WalletAddress:   tx.WalletAddress,
		PayoutMethod:    string(tx.PayoutMethod),
		UPIID:           tx.UPIID,
		UTRNumber:       tx.UTRNumber,
		PaymentProofURL: tx.PaymentProofURL,
		Status:          string(tx.Status),
		TimerExpiresAt:  tx.TimerExpiresAt,
		CreatedAt:       tx.CreatedAt,
	}
}
