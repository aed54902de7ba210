package main

import (
	"benritz/ustreasury/internal/collect"
	"benritz/ustreasury/internal/config"
	"benritz/ustreasury/internal/logging"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	_ "github.com/pbnjay/grate/xls"
	_ "github.com/pbnjay/grate/xlsx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCollector(src string, cfg *config.Config, logger *zap.Logger) collect.Collector {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return collect.NewWebCollector(src, cfg.Source.HTMLSelector, cfg.Source.SheetDateLayout, logger.Named("web"))
	}
	return collect.NewSheetCollector(src, cfg.Source.SheetDateLayout, logger.Named("sheet"))
}

func main() {
	var (
		cfgFile string
		profile string
		asOfStr string
	)

	cmd := &cobra.Command{
		Use:   "collect-data <source> [destination]",
		Short: "Evaluate Treasury quotes from a sheet or web page and store them as parquet",
		Long: `Reads securities from an xls, xlsx or csv sheet, or an http(s) page with a
quote table, evaluates their yield, duration and PV01 and stores the results
under <destination>/YYYY/MM/DD/<source>.parquet. The destination is a local
directory or s3://bucket/prefix and defaults to output.destination.`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger, err := logging.New(cfg.Logging.Level)
			if err != nil {
				return err
			}
			defer logger.Sync()

			dst := cfg.Output.Destination
			if len(args) == 2 {
				dst = args[1]
			}
			if dst == "" {
				return fmt.Errorf("no destination given and output.destination is not set")
			}

			if profile == "" {
				profile = cfg.Output.Profile
			}

			asOf := civil.DateOf(time.Now())
			if asOfStr != "" {
				if asOf, err = civil.ParseDate(asOfStr); err != nil {
					return fmt.Errorf("invalid as-of date: %w", err)
				}
			}

			holidays, err := cfg.Holidays()
			if err != nil {
				return err
			}

			collector := newCollector(args[0], cfg, logger)

			collected, err := collector.Collect(ctx, asOf)
			if err != nil {
				return fmt.Errorf("failed to collect data: %w", err)
			}

			collected.Evaluate(holidays, cfg.SolverSettings(), logger.Named("evaluate"))

			logger.Info("evaluated securities",
				zap.String("source", collected.Source),
				zap.Int("succeeded", len(collected.Succeeded())),
				zap.Int("failed", len(collected.Failures())),
			)

			var outPath string
			if s3Path, _ := collect.ParseS3(dst); s3Path != nil {
				client, cerr := collect.NewS3Client(ctx, profile)
				if cerr != nil {
					return cerr
				}
				outPath, err = collect.StoreToS3(ctx, collected, client, s3Path)
			} else {
				outPath, err = collect.StoreToPath(ctx, collected, dst)
			}

			if err != nil {
				return fmt.Errorf("failed to store data: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file path (default: ./config/treasury.yaml)")
	cmd.Flags().StringVar(&profile, "profile", "", "the AWS profile to use (default: output.profile)")
	cmd.Flags().StringVar(&asOfStr, "asof", "", "collection date used in the output path (YYYY-MM-DD, default today)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
