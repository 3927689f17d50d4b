package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	tierdto "github.com/LavaJover/shvark-exchange-service/internal/usecase/dto/tier"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TierUsecase interface {
	ListTiers(ctx context.Context, direction domain.Direction) ([]domain.PriceTier, error)
	ReplaceTiers(ctx context.Context, direction domain.Direction, inputs []tierdto.TierInput) ([]domain.PriceTier, error)
	SetFixedRate(ctx context.Context, direction domain.Direction, rate decimal.Decimal) error
}

type TierEventPublisher interface {
	PublishTiersChanged(ctx context.Context, table string, direction domain.Direction, count int) error
}

type Invalidator interface {
	Invalidate()
}

type DefaultTierUsecase struct {
	tierRepo   domain.PriceTierRepository
	configRepo domain.AppConfigRepository
	publisher  TierEventPublisher
	book       Invalidator
	logger     *slog.Logger
}

func NewDefaultTierUsecase(
	tierRepo domain.PriceTierRepository,
	configRepo domain.AppConfigRepository,
	publisher TierEventPublisher,
	book Invalidator,
	logger *slog.Logger,
) *DefaultTierUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultTierUsecase{
		tierRepo:   tierRepo,
		configRepo: configRepo,
		publisher:  publisher,
		book:       book,
		logger:     logger,
	}
}

func (uc *DefaultTierUsecase) ListTiers(ctx context.Context, direction domain.Direction) ([]domain.PriceTier, error) {
	if _, err := domain.ParseDirection(string(direction)); err != nil {
		return nil, err
	}
	tiers, err := uc.tierRepo.ListTiersByDirection(ctx, direction)
	if err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}
	domain.SortTiers(tiers)
	return tiers, nil
}

// ReplaceTiers validates the new ladder and swaps it in as a whole.
func (uc *DefaultTierUsecase) ReplaceTiers(ctx context.Context, direction domain.Direction, inputs []tierdto.TierInput) ([]domain.PriceTier, error) {
	if _, err := domain.ParseDirection(string(direction)); err != nil {
		return nil, err
	}
	tiers, err := BuildTiers(direction, inputs)
	if err != nil {
		return nil, err
	}
	if err := uc.tierRepo.ReplaceTiers(ctx, direction, tiers); err != nil {
		return nil, fmt.Errorf("replace tiers: %w", err)
	}

	uc.logger.Info("price tiers replaced", "direction", direction, "tiers", len(tiers))
	uc.afterChange(ctx, domain.TablePriceTiers, direction, len(tiers))
	return tiers, nil
}

func (uc *DefaultTierUsecase) SetFixedRate(ctx context.Context, direction domain.Direction, rate decimal.Decimal) error {
	if _, err := domain.ParseDirection(string(direction)); err != nil {
		return err
	}
	if !rate.IsPositive() {
		return fmt.Errorf("%w: rate must be positive", domain.ErrInvalidTierSet)
	}
	key := domain.ConfigKeyBuyRate
	if direction == domain.DirectionSell {
		key = domain.ConfigKeySellRate
	}
	if err := uc.configRepo.SetRate(ctx, key, rate); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	uc.logger.Info("fixed rate updated", "key", key, "rate", rate.String())
	uc.afterChange(ctx, domain.TableAppConfig, direction, 1)
	return nil
}

func (uc *DefaultTierUsecase) afterChange(ctx context.Context, table string, direction domain.Direction, count int) {
	if uc.publisher != nil {
		if err := uc.publisher.PublishTiersChanged(ctx, table, direction, count); err != nil {
			uc.logger.Error("failed to publish tier change", "table", table, "error", err)
		}
	}
	// локальная копия обновляется сразу, не дожидаясь уведомления из БД
	if uc.book != nil {
		uc.book.Invalidate()
	}
}

// BuildTiers converts admin input into a sorted, validated ladder. A tier may
// carry a range label, explicit bounds, or both; bounds win when both are set.
func BuildTiers(direction domain.Direction, inputs []tierdto.TierInput) ([]domain.PriceTier, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one tier is required", domain.ErrInvalidTierSet)
	}

	tiers := make([]domain.PriceTier, 0, len(inputs))
	for i, in := range inputs {
		kind := domain.TierKind(in.Kind)
		if kind == "" {
			kind = domain.TierKindQuantity
		}
		if kind != domain.TierKindQuantity && kind != domain.TierKindAmount {
			return nil, fmt.Errorf("%w: tier %d has unknown kind %q", domain.ErrInvalidTierSet, i, in.Kind)
		}

		tier := domain.PriceTier{
			ID:         uuid.New().String(),
			Direction:  direction,
			Kind:       kind,
			RangeLabel: in.RangeLabel,
			UnitRate:   in.UnitRate,
		}
		switch {
		case in.MinQuantity != nil:
			tier.MinQuantity = *in.MinQuantity
			tier.MaxQuantity = in.MaxQuantity
			if tier.RangeLabel == "" {
				tier.RangeLabel = pricing.FormatRangeLabel(tier.MinQuantity, tier.MaxQuantity)
			}
		case in.RangeLabel != "":
			lower, upper, err := pricing.ParseRangeLabel(in.RangeLabel)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTierSet, err)
			}
			tier.MinQuantity = lower
			tier.MaxQuantity = upper
		default:
			return nil, fmt.Errorf("%w: tier %d needs a range label or a minimum", domain.ErrInvalidTierSet, i)
		}
		tiers = append(tiers, tier)
	}

	domain.SortTiers(tiers)
	for i := range tiers {
		tiers[i].SortOrder = int32(i)
	}
	if err := domain.ValidateTierSet(tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}
