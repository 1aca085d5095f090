package instruments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
	interfaces "marketdata-downloader/internal/domain/interfaces"
)

// CachedResolver keeps ticker to uid lookups in redis. Cache failures only
// cost a catalog round trip.
type CachedResolver struct {
	next   interfaces.InstrumentResolver
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Entry
}

func NewCachedResolver(next interfaces.InstrumentResolver, client *redis.Client, ttl time.Duration, logger *logrus.Logger) *CachedResolver {
	return &CachedResolver{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.WithField("component", "instrument_cache"),
	}
}

func (r *CachedResolver) ResolveUID(ctx context.Context, ticker string, securityType marketdata.SecurityType) (string, error) {
	key := cacheKey(ticker, securityType)

	uid, err := r.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return uid, nil
	case errors.Is(err, redis.Nil):
	default:
		r.logger.WithError(err).WithField("key", key).Warn("read instrument cache")
	}

	uid, err = r.next.ResolveUID(ctx, ticker, securityType)
	if err != nil {
		return "", err
	}
	if err := r.client.Set(ctx, key, uid, r.ttl).Err(); err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("write instrument cache")
	}
	return uid, nil
}

func cacheKey(ticker string, securityType marketdata.SecurityType) string {
	return fmt.Sprintf("instrument:uid:%s:%s", securityType, ticker)
}
