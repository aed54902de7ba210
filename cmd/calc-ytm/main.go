package main

import (
	"benritz/ustreasury/internal/config"
	"benritz/ustreasury/internal/types"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Rhymond/go-money"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseDate(s string) (civil.Date, error) {
	if s == "" {
		return civil.DateOf(time.Now()), nil
	}
	return types.ParseDate(s, types.DateLayoutISO)
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile  string
		terms    types.Terms
		trade    string
		prev     string
		next     string
		holidays []string
		face     float64
		currency string
	)

	cmd := &cobra.Command{
		Use:          "calc-ytm",
		Short:        "Calculate the yield, duration and PV01 of a Treasury from its quote",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if terms.TradeDate, err = parseDate(trade); err != nil {
				return fmt.Errorf("invalid trade date: %w", err)
			}
			if terms.PrevCouponDate, err = types.ParseDate(prev, types.DateLayoutISO); err != nil {
				return fmt.Errorf("invalid previous coupon date: %w", err)
			}
			if terms.NextCouponDate, err = types.ParseDate(next, types.DateLayoutISO); err != nil {
				return fmt.Errorf("invalid next coupon date: %w", err)
			}

			if terms.AnnualCoupon < 0.0 || terms.AnnualCoupon > 1.0 {
				return fmt.Errorf("coupon rate must be between 0.0 and 1.0")
			}

			if face < 0.0 {
				return fmt.Errorf("face value must be greater than or equal to 0.0")
			}

			h, err := cfg.Holidays()
			if err != nil {
				return err
			}

			extra, err := types.ParseHolidays(holidays, cfg.Calendar.DateLayout)
			if err != nil {
				return err
			}

			sec, err := types.NewSecurity(terms, h.Merge(extra), cfg.SolverSettings())
			if err != nil {
				return err
			}

			printSecurity(cmd.OutOrStdout(), sec)

			if face > 0 {
				invoice := sec.Invoice(money.NewFromFloat(face, currency))
				fmt.Fprintf(cmd.OutOrStdout(), "\tInvoice Amount: %s\n", invoice.Display())
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "config file path (default: ./config/treasury.yaml)")
	f.StringVar(&terms.Quote, "quote", "", "Market quote, decimal or 32nds (e.g. 101-19+)")
	f.IntVar(&terms.Periods, "periods", 0, "Remaining coupon periods")
	f.Float64Var(&terms.AnnualCoupon, "coupon", 0.0, "Annual coupon rate as a decimal (e.g. 0.045)")
	f.StringVar(&trade, "tradedate", "", "Trade date (YYYY-MM-DD, default today)")
	f.StringVar(&prev, "prevcoupondate", "", "Previous coupon date (YYYY-MM-DD)")
	f.StringVar(&next, "nextcoupondate", "", "Next coupon date (YYYY-MM-DD)")
	f.StringSliceVar(&holidays, "holiday", nil, "Additional holiday in the calendar date layout, repeatable")
	f.Float64Var(&face, "facevalue", 0, "Face value for the invoice amount")
	f.StringVar(&currency, "currency", money.USD, "Currency of the face value")

	for _, name := range []string{"quote", "periods", "coupon", "prevcoupondate", "nextcoupondate"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func printSecurity(w io.Writer, sec *types.Security) {
	fmt.Fprintf(w, "Security Details:\n")
	fmt.Fprintf(w, "\tCoupon Rate: %.4f%%\n", sec.Coupon()*2*100)
	fmt.Fprintf(w, "\tCoupon Periods: %d\n", sec.Periods())
	fmt.Fprintf(w, "\tSettlement Date: %s\n", sec.SettlementDate())
	fmt.Fprintf(w, "\tPrevious Coupon Date: %s\n", sec.PrevCouponDate())
	fmt.Fprintf(w, "\tNext Coupon Date: %s\n", sec.NextCouponDate())
	fmt.Fprintf(w, "\tAccrual Fraction: %.6f\n", sec.AccrualFraction())
	fmt.Fprintf(w, "\tClean Price: %.6f\n", sec.CleanPrice())
	fmt.Fprintf(w, "\tAccrued Interest: %.6f\n", sec.AccruedInterest())
	fmt.Fprintf(w, "\tDirty Price: %.6f\n", sec.DirtyPrice())
	fmt.Fprintf(w, "\tYield to Maturity: %.6f%%\n", sec.YieldToMaturity()*100)
	fmt.Fprintf(w, "\tModified Duration: %.6f\n", sec.ModifiedDuration())
	fmt.Fprintf(w, "\tPV01: %.6f\n", sec.PV01())
}
