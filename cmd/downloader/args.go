package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketdata-downloader/internal/application/service/download"
	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
)

const dateLayout = "20060102"

type runArgs struct {
	Items []download.WorkItem
	Start time.Time
	End   time.Time
}

type flagValues struct {
	Tickers      string
	Resolution   string
	From         string
	To           string
	SecurityType string
	Market       string
	Expiry       string
}

// parseArgs turns command-line values into work items over [from 00:00, to+1 00:00)
// New York time, expressed in UTC.
func parseArgs(v flagValues) (runArgs, error) {
	securityType, err := marketdata.NewSecurityType(v.SecurityType)
	if err != nil {
		return runArgs{}, err
	}

	var expiry time.Time
	if strings.TrimSpace(v.Expiry) != "" {
		expiry, err = time.ParseInLocation(dateLayout, strings.TrimSpace(v.Expiry), time.UTC)
		if err != nil {
			return runArgs{}, fmt.Errorf("parse --expiry: %w", err)
		}
	}

	var symbols []marketdata.Symbol
	for _, ticker := range strings.Split(v.Tickers, ",") {
		if strings.TrimSpace(ticker) == "" {
			continue
		}
		symbol := marketdata.NewSymbol(ticker, securityType, marketdata.Market(v.Market))
		if !expiry.IsZero() {
			symbol = symbol.WithExpiry(expiry)
		}
		symbols = append(symbols, symbol)
	}

	items, err := download.Plan(symbols, v.Resolution)
	if err != nil {
		return runArgs{}, err
	}

	from, err := parseDate("--from", v.From)
	if err != nil {
		return runArgs{}, err
	}
	to, err := parseDate("--to", v.To)
	if err != nil {
		return runArgs{}, err
	}
	if from.After(to) {
		return runArgs{}, fmt.Errorf("%w: --from %s is after --to %s", marketdata.ErrInvalidRange, v.From, v.To)
	}

	return runArgs{
		Items: items,
		Start: from.UTC(),
		End:   to.AddDate(0, 0, 1).UTC(),
	}, nil
}

func parseDate(flag, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New(flag + " is required")
	}
	t, err := time.ParseInLocation(dateLayout, value, marketdata.NewYork)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", flag, err)
	}
	return t, nil
}
