// ratectl проверяет файлы тиров и считает котировки офлайн, без базы.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase/pricing"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var tiersPath string

	root := &cobra.Command{
		Use:          "ratectl",
		Short:        "Inspect USDT/INR price tiers",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&tiersPath, "tiers", "t", "tiers.yaml", "path to the tiers file")
	root.SetOut(out)
	root.SetErr(out)

	root.AddCommand(newValidateCmd(&tiersPath), newQuoteCmd(&tiersPath))
	return root
}

func newValidateCmd(tiersPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every ladder in the tiers file is contiguous and priced",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := loadTiersFile(*tiersPath)
			if err != nil {
				return err
			}
			for _, direction := range []domain.Direction{domain.DirectionBuy, domain.DirectionSell} {
				if f.section(direction) == nil {
					continue
				}
				l, err := f.ladder(direction)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s, %d tiers)\n", direction, l.strategy.Name(), len(l.tiers))
				for _, tier := range l.tiers {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %s\n", tier.RangeLabel, tier.UnitRate.String())
				}
			}
			return nil
		},
	}
}

func newQuoteCmd(tiersPath *string) *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:   "quote <amount>",
		Short: "Resolve the rate for an amount: INR when buying, USDT when selling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := domain.ParseDirection(direction)
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("amount: %w", err)
			}
			f, err := loadTiersFile(*tiersPath)
			if err != nil {
				return err
			}
			l, err := f.ladder(dir)
			if err != nil {
				return err
			}

			strategy, tiers := pricing.ForLadder(l.strategy, dir, l.tiers)
			res := pricing.Resolve(strategy, dir, amount, tiers)
			w := cmd.OutOrStdout()
			if !res.Resolved() {
				fmt.Fprintf(w, "unresolved: %s\n", res.Reason)
				return nil
			}
			fmt.Fprintf(w, "strategy:  %s\n", res.Strategy)
			fmt.Fprintf(w, "tier:      %s\n", res.Tier.RangeLabel)
			fmt.Fprintf(w, "rate:      %s\n", res.UnitRate.String())
			if dir == domain.DirectionBuy {
				fmt.Fprintf(w, "you get:   %s USDT\n", res.ConvertedAmount.StringFixed(pricing.AssetPrecision))
			} else {
				fmt.Fprintf(w, "you get:   %s INR\n", res.ConvertedAmount.StringFixed(2))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", string(domain.DirectionBuy), "buy or sell")
	return cmd
}
