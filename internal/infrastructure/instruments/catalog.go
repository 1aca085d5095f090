package instruments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "marketdata-downloader/internal/domain/entity/instruments"
	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
	"marketdata-downloader/internal/infrastructure/instruments/models"
)

var ErrInstrumentNotFound = errors.New("instrument not found")

const upsertBatchSize = 500

// Catalog is the instrument reference data kept in Postgres.
type Catalog struct {
	db *gorm.DB
}

func Open(dsn string, logger *logrus.Logger) (*Catalog, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return NewCatalog(db), nil
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *Catalog) Migrate(ctx context.Context) error {
	if err := c.db.WithContext(ctx).AutoMigrate(&models.ShareModel{}, &models.FutureModel{}, &models.CurrencyModel{}); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}
	return nil
}

func (c *Catalog) SaveShares(ctx context.Context, shares []domain.Share) error {
	return upsert(ctx, c.db, mapRows(shares, shareModel))
}

func (c *Catalog) SaveFutures(ctx context.Context, futures []domain.Future) error {
	return upsert(ctx, c.db, mapRows(futures, futureModel))
}

func (c *Catalog) SaveCurrencies(ctx context.Context, currencies []domain.Currency) error {
	return upsert(ctx, c.db, mapRows(currencies, currencyModel))
}

func upsert[T any](ctx context.Context, db *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "figi"}},
			UpdateAll: true,
		}).
		CreateInBatches(&rows, upsertBatchSize).Error
}

// FindByTicker looks the ticker up in the table for its security type.
func (c *Catalog) FindByTicker(ctx context.Context, ticker string, securityType marketdata.SecurityType) (*InstrumentWrapper, error) {
	group, ok := instrumentTypeFor(securityType)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrInstrumentNotFound, securityType, ticker)
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	db := c.db.WithContext(ctx)

	var (
		row models.InstrumentModel
		err error
	)
	switch group {
	case models.ShareType:
		var share models.ShareModel
		err = db.Where("ticker = ?", ticker).First(&share).Error
		row = share
	case models.FutureType:
		var future models.FutureModel
		err = db.Where("ticker = ?", ticker).First(&future).Error
		row = future
	case models.CurrencyType:
		var currency models.CurrencyModel
		err = db.Where("ticker = ? OR UPPER(iso_code) = ?", ticker, ticker).First(&currency).Error
		row = currency
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s %s", ErrInstrumentNotFound, securityType, ticker)
		}
		return nil, fmt.Errorf("find %s: %w", ticker, err)
	}
	return NewInstrumentWrapper(row), nil
}

func (c *Catalog) ResolveUID(ctx context.Context, ticker string, securityType marketdata.SecurityType) (string, error) {
	instrument, err := c.FindByTicker(ctx, ticker, securityType)
	if err != nil {
		return "", err
	}
	return instrument.GetUID(), nil
}
