package main

import (
	"fmt"
	"os"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase"
	tierdto "github.com/LavaJover/shvark-exchange-service/internal/usecase/dto/tier"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase/pricing"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Файл тиров в том же виде, в каком их заводит админка:
//
//	buy:
//	  strategy: quantity
//	  tiers:
//	    - range: "1-99"
//	      rate: "95"
//	sell:
//	  strategy: fixed
//	  rate: "90"
type tiersFile struct {
	Buy  *directionSection `yaml:"buy"`
	Sell *directionSection `yaml:"sell"`
}

type directionSection struct {
	Strategy string       `yaml:"strategy"`
	Rate     string       `yaml:"rate"`
	Tiers    []tierRecord `yaml:"tiers"`
}

type tierRecord struct {
	Range string `yaml:"range"`
	Rate  string `yaml:"rate"`
	Kind  string `yaml:"kind"`
}

type ladder struct {
	strategy pricing.Strategy
	tiers    []domain.PriceTier
}

func loadTiersFile(path string) (*tiersFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f tiersFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Buy == nil && f.Sell == nil {
		return nil, fmt.Errorf("%s: neither buy nor sell section present", path)
	}
	return &f, nil
}

func (f *tiersFile) section(direction domain.Direction) *directionSection {
	if direction == domain.DirectionSell {
		return f.Sell
	}
	return f.Buy
}

// ladder builds and validates one direction the same way the admin API does.
func (f *tiersFile) ladder(direction domain.Direction) (*ladder, error) {
	sec := f.section(direction)
	if sec == nil {
		return nil, fmt.Errorf("no %s section", direction)
	}

	rate := decimal.Zero
	if sec.Rate != "" {
		r, err := decimal.NewFromString(sec.Rate)
		if err != nil {
			return nil, fmt.Errorf("%s rate: %w", direction, err)
		}
		rate = r
	}
	name := sec.Strategy
	if name == "" {
		name = pricing.StrategyQuantity
	}
	strategy, err := pricing.StrategyByName(name, rate)
	if err != nil {
		return nil, err
	}

	out := &ladder{strategy: strategy}
	if len(sec.Tiers) == 0 {
		if name != pricing.StrategyFixed {
			return nil, fmt.Errorf("%s: strategy %s needs tiers", direction, name)
		}
		return out, nil
	}

	inputs := make([]tierdto.TierInput, 0, len(sec.Tiers))
	for i, rec := range sec.Tiers {
		r, err := decimal.NewFromString(rec.Rate)
		if err != nil {
			return nil, fmt.Errorf("%s tier %d rate: %w", direction, i, err)
		}
		inputs = append(inputs, tierdto.TierInput{RangeLabel: rec.Range, UnitRate: r, Kind: rec.Kind})
	}
	out.tiers, err = usecase.BuildTiers(direction, inputs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", direction, err)
	}
	out.strategy, _ = pricing.ForLadder(strategy, direction, out.tiers)
	return out, nil
}
