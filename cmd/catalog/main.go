package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	investgo "github.com/russianinvestments/invest-api-go-sdk/investgo"
	pb "github.com/russianinvestments/invest-api-go-sdk/proto"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	service "marketdata-downloader/internal/application/service/instruments"
	"marketdata-downloader/internal/config"
	"marketdata-downloader/internal/infrastructure/instruments"
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Sync the instrument catalog from the broker API",
	Long:  `Pulls share, future and currency listings from the broker API and upserts them into the catalog tables the downloader resolves tickers against.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})

		migrate, err := cmd.Flags().GetBool("migrate")
		if err != nil {
			logger.Fatalf("read migrate flag: %v", err)
		}

		if err := config.LoadDotEnv(); err != nil {
			logger.Fatalf("config error: %v", err)
		}
		cfg, err := config.Load()
		if err != nil {
			logger.Fatalf("config error: %v", err)
		}
		if cfg.Postgres.DSN == "" {
			logger.Fatal("config error: DATABASE_DSN is required")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if err := run(ctx, cfg, migrate, logger); err != nil {
			logger.Errorf("catalog sync failed: %v", err)
			cancel()
			os.Exit(1)
		}
	},
}

func run(ctx context.Context, cfg *config.Config, migrate bool, logger *logrus.Logger) error {
	catalog, err := instruments.Open(cfg.Postgres.DSN, logger)
	if err != nil {
		return err
	}
	defer catalog.Close()

	if migrate {
		if err := catalog.Migrate(ctx); err != nil {
			return err
		}
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

	listing, err := fetchListing(client.NewInstrumentsServiceClient(), logger)
	if err != nil {
		return err
	}

	svc, err := service.NewService(catalog, logger)
	if err != nil {
		return err
	}
	_, err = svc.Sync(ctx, listing)
	return err
}

func fetchListing(client *investgo.InstrumentsServiceClient, logger *logrus.Logger) (service.Listing, error) {
	shares, err := client.Shares(pb.InstrumentStatus_INSTRUMENT_STATUS_BASE)
	if err != nil {
		return service.Listing{}, fmt.Errorf("get shares: %w", err)
	}
	futures, err := client.Futures(pb.InstrumentStatus_INSTRUMENT_STATUS_BASE)
	if err != nil {
		return service.Listing{}, fmt.Errorf("get futures: %w", err)
	}
	currencies, err := client.Currencies(pb.InstrumentStatus_INSTRUMENT_STATUS_BASE)
	if err != nil {
		return service.Listing{}, fmt.Errorf("get currencies: %w", err)
	}

	return service.Listing{
		Shares:     convertShares(shares.GetInstruments(), logger),
		Futures:    convertFutures(futures.GetInstruments(), logger),
		Currencies: convertCurrencies(currencies.GetInstruments(), logger),
	}, nil
}

func main() {
	rootCmd.Flags().Bool("migrate", true, "Create or update the catalog tables before syncing.")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
