package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	investgo "github.com/russianinvestments/invest-api-go-sdk/investgo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"marketdata-downloader/internal/application/service/download"
	"marketdata-downloader/internal/application/service/history"
	"marketdata-downloader/internal/config"
	interfaces "marketdata-downloader/internal/domain/interfaces"
	"marketdata-downloader/internal/infrastructure/feed"
	"marketdata-downloader/internal/infrastructure/feed/invest"
	"marketdata-downloader/internal/infrastructure/instruments"
)

var rootCmd = &cobra.Command{
	Use:   "downloader",
	Short: "Download historical market data",
	Long:  `Downloads ticks and bars for a list of tickers over a date range and writes them to the configured sink. Dates are New York calendar days in yyyyMMdd form, both ends inclusive.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})

		var v flagValues
		for name, dst := range map[string]*string{
			"tickers":       &v.Tickers,
			"resolution":    &v.Resolution,
			"from":          &v.From,
			"to":            &v.To,
			"security-type": &v.SecurityType,
			"market":        &v.Market,
			"expiry":        &v.Expiry,
		} {
			value, err := cmd.Flags().GetString(name)
			if err != nil {
				logger.Fatalf("read --%s: %v", name, err)
			}
			*dst = value
		}

		parsed, err := parseArgs(v)
		if err != nil {
			logger.Fatalf("invalid arguments: %v", err)
		}

		if err := config.LoadDotEnv(); err != nil {
			logger.Fatalf("config error: %v", err)
		}
		cfg, err := config.Load()
		if err != nil {
			logger.Fatalf("config error: %v", err)
		}
		if cfg.Postgres.DSN == "" {
			logger.Fatal("config error: DATABASE_DSN is required for instrument lookup")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if err := run(ctx, cfg, parsed, logger); err != nil {
			var batchErr *download.BatchError
			if errors.As(err, &batchErr) {
				logger.WithField("failed", len(batchErr.Failures)).Error("download finished with failures")
			} else {
				logger.Errorf("download failed: %v", err)
			}
			cancel()
			os.Exit(1)
		}
	},
}

func run(ctx context.Context, cfg *config.Config, args runArgs, logger *logrus.Logger) error {
	catalog, err := instruments.Open(cfg.Postgres.DSN, logger)
	if err != nil {
		return err
	}
	defer catalog.Close()

	var resolver interfaces.InstrumentResolver = catalog
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		resolver = instruments.NewCachedResolver(catalog, rdb, cfg.Cache.TTL(), logger)
	}

	client, err := investgo.NewClient(ctx, investgo.Config{
		EndPoint:           cfg.Invest.Endpoint,
		Token:              cfg.Invest.Token,
		AppName:            cfg.Invest.AppName,
		InsecureSkipVerify: cfg.Invest.InsecureSkipVerify,
	}, logger)
	if err != nil {
		return fmt.Errorf("create invest api client: %w", err)
	}
	defer func() {
		if stopErr := client.Stop(); stopErr != nil {
			logger.Errorf("stop invest api client: %v", stopErr)
		}
	}()

	connector := invest.NewConnector(invest.NewHistoryAPI(client), resolver, cfg.Fetch.TempDir, logger)
	limited, err := feed.NewLimiter(connector, cfg.Fetch.Sessions)
	if err != nil {
		return err
	}

	strategy, err := history.ParseStrategy(cfg.Fetch.Strategy)
	if err != nil {
		return err
	}
	source, err := history.NewMessageSource(strategy, limited, logger)
	if err != nil {
		return err
	}

	writer, closeSink, err := openSink(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	pipeline, err := download.NewPipeline(history.NewService(source, logger), writer, args.Start, args.End, logger)
	if err != nil {
		return err
	}
	dispatcher, err := download.NewDispatcher(limited.Capacity(), pipeline, logger)
	if err != nil {
		return err
	}
	return dispatcher.Run(ctx, args.Items)
}

func main() {
	rootCmd.Flags().StringP("tickers", "t", "", "Comma separated tickers to download, e.g. SPY,AAPL. This flag is required.")
	rootCmd.Flags().StringP("resolution", "r", "", "One of tick, second, minute, hour, daily or all. all downloads ticks and aggregates every coarser resolution from them.")
	rootCmd.Flags().String("from", "", "First New York date to download, yyyyMMdd. This flag is required.")
	rootCmd.Flags().String("to", "", "Last New York date to download, yyyyMMdd. This flag is required.")
	rootCmd.Flags().String("security-type", "equity", "Security type of the tickers: equity, forex, option or future.")
	rootCmd.Flags().String("market", "usa", "Market code the tickers are listed on.")
	rootCmd.Flags().String("expiry", "", "Contract expiry yyyyMMdd for option and future tickers.")

	rootCmd.MarkFlagRequired("tickers")
	rootCmd.MarkFlagRequired("resolution")
	rootCmd.MarkFlagRequired("from")
	rootCmd.MarkFlagRequired("to")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
