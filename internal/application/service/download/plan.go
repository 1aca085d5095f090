package download

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
)

var ErrNoSymbols = errors.New("no symbols to download")

// WorkItem is one fetch for one symbol. Derived resolutions are aggregated
// from the fetched ticks and written alongside them.
type WorkItem struct {
	Symbol     marketdata.Symbol
	Resolution marketdata.Resolution
	Derived    []marketdata.Resolution
}

func (w WorkItem) String() string {
	return fmt.Sprintf("%s@%s", w.Symbol, w.Resolution)
}

// Plan expands symbols and a resolution name into work items. The "all" name
// fetches ticks once per symbol and derives every coarser resolution from them.
func Plan(symbols []marketdata.Symbol, resolution string) ([]WorkItem, error) {
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}

	var (
		res     marketdata.Resolution
		derived []marketdata.Resolution
	)
	if strings.EqualFold(strings.TrimSpace(resolution), marketdata.ResolutionAll) {
		res = marketdata.ResolutionTick
		derived = marketdata.DerivedFromTick
	} else {
		parsed, err := marketdata.ParseResolution(resolution)
		if err != nil {
			return nil, err
		}
		res = parsed
	}

	items := make([]WorkItem, 0, len(symbols))
	for _, symbol := range symbols {
		items = append(items, WorkItem{
			Symbol:     symbol,
			Resolution: res,
			Derived:    slices.Clone(derived),
		})
	}
	return items, nil
}
