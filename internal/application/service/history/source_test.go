package history

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketdata-downloader/internal/domain/entity/feed"
	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
)

func TestNewFeedRequest_OpenEnd(t *testing.T) {
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	start := now.Add(-48 * time.Hour)

	t.Run("end within a minute of now is left open", func(t *testing.T) {
		req, err := marketdata.NewHistoryRequest(spy, marketdata.ResolutionMinute, start, now.Add(-30*time.Second))
		require.NoError(t, err)

		fr := NewFeedRequest(req, now)
		assert.Nil(t, fr.End)
		assert.True(t, fr.IsOpenEnded())
	})

	t.Run("end in the future is left open", func(t *testing.T) {
		req, err := marketdata.NewHistoryRequest(spy, marketdata.ResolutionMinute, start, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Nil(t, NewFeedRequest(req, now).End)
	})

	t.Run("older end is kept in New York time", func(t *testing.T) {
		end := now.Add(-2 * time.Hour)
		req, err := marketdata.NewHistoryRequest(spy, marketdata.ResolutionMinute, start, end)
		require.NoError(t, err)

		fr := NewFeedRequest(req, now)
		require.NotNil(t, fr.End)
		assert.True(t, end.Equal(*fr.End))
		assert.Equal(t, marketdata.NewYork, fr.End.Location())
		assert.Equal(t, marketdata.NewYork, fr.Start.Location())
		assert.True(t, fr.OldestFirst)
	})
}

func TestNewFeedRequest_Kinds(t *testing.T) {
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	tests := []struct {
		resolution marketdata.Resolution
		kind       feed.Kind
		seconds    int
	}{
		{marketdata.ResolutionTick, feed.KindTick, 0},
		{marketdata.ResolutionSecond, feed.KindInterval, 1},
		{marketdata.ResolutionMinute, feed.KindInterval, 60},
		{marketdata.ResolutionHour, feed.KindInterval, 3600},
		{marketdata.ResolutionDaily, feed.KindDaily, 0},
	}

	for _, tt := range tests {
		t.Run(tt.resolution.String(), func(t *testing.T) {
			req, err := marketdata.NewHistoryRequest(spy, tt.resolution, now.Add(-time.Hour), now)
			require.NoError(t, err)

			fr := NewFeedRequest(req, now)
			assert.Equal(t, tt.kind, fr.Kind)
			assert.Equal(t, tt.seconds, fr.IntervalSeconds)
			assert.Equal(t, "SPY", fr.Ticker)
		})
	}
}

func TestIntervalSeconds_PanicsWithoutInterval(t *testing.T) {
	assert.Panics(t, func() { IntervalSeconds(marketdata.ResolutionTick) })
	assert.Panics(t, func() { IntervalSeconds(marketdata.ResolutionDaily) })
	assert.NotPanics(t, func() { IntervalSeconds(marketdata.ResolutionSecond) })
}

func TestParseStrategy(t *testing.T) {
	st, err := ParseStrategy(" Memory ")
	require.NoError(t, err)
	assert.Equal(t, StrategyMemory, st)

	_, err = ParseStrategy("ftp")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func collect(t *testing.T, source MessageSource, req feed.Request) ([]feed.Message, error) {
	t.Helper()
	var out []feed.Message
	for msg, err := range source.Messages(context.Background(), req) {
		if err != nil {
			return out, err
		}
		out = append(out, msg)
	}
	return out, nil
}

func testMessages() []feed.Message {
	base := time.Date(2024, 3, 1, 9, 30, 0, 0, marketdata.NewYork)
	return []feed.Message{
		feed.TickMessage{Timestamp: base, Last: 501.25, Bid: 501.2, Ask: 501.3, Size: 100},
		feed.TickMessage{Timestamp: base.Add(time.Second), Last: 501.5, Size: 20},
		feed.TickMessage{Timestamp: base.Add(2500 * time.Millisecond), Last: 501, Size: 1},
	}
}

func TestFileSource(t *testing.T) {
	logger := logrus.New()
	req := feed.Request{Ticker: "SPY", Kind: feed.KindTick, OldestFirst: true}

	t.Run("parses and removes the file", func(t *testing.T) {
		conn := &fakeConnector{t: t, messages: testMessages()}
		source, err := NewMessageSource(StrategyFile, conn, logger)
		require.NoError(t, err)

		got, err := collect(t, source, req)
		require.NoError(t, err)
		require.Len(t, got, 3)

		want := testMessages()
		for i := range want {
			assert.True(t, want[i].Time().Equal(got[i].Time()))
			assert.Equal(t, want[i].(feed.TickMessage).Last, got[i].(feed.TickMessage).Last)
		}

		require.Len(t, conn.downloads, 1)
		assert.NoFileExists(t, conn.downloads[0])
	})

	t.Run("removes the file when parsing fails", func(t *testing.T) {
		raw := "kind,timestamp,last,bid,ask,size,open,high,low,close,volume\ntick,2024-03-01 09:30:00.000000,abc,,,,,,,,\n"
		conn := &fakeConnector{t: t, raw: &raw}
		source, err := NewMessageSource(StrategyFile, conn, logger)
		require.NoError(t, err)

		_, err = collect(t, source, req)
		require.Error(t, err)
		require.Len(t, conn.downloads, 1)
		assert.NoFileExists(t, conn.downloads[0])
	})

	t.Run("removes an empty file", func(t *testing.T) {
		raw := ""
		conn := &fakeConnector{t: t, raw: &raw}
		source, err := NewMessageSource(StrategyFile, conn, logger)
		require.NoError(t, err)

		got, err := collect(t, source, req)
		require.NoError(t, err)
		assert.Empty(t, got)
		require.Len(t, conn.downloads, 1)
		assert.NoFileExists(t, conn.downloads[0])
	})

	t.Run("removes the file when the consumer stops early", func(t *testing.T) {
		conn := &fakeConnector{t: t, messages: testMessages()}
		source, err := NewMessageSource(StrategyFile, conn, logger)
		require.NoError(t, err)

		for range source.Messages(context.Background(), req) {
			break
		}
		require.Len(t, conn.downloads, 1)
		_, statErr := os.Stat(conn.downloads[0])
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})

	t.Run("download failure", func(t *testing.T) {
		conn := &fakeConnector{t: t, err: errors.New("session refused")}
		source, err := NewMessageSource(StrategyFile, conn, logger)
		require.NoError(t, err)

		_, err = collect(t, source, req)
		assert.ErrorContains(t, err, "session refused")
	})
}

func TestMemorySource(t *testing.T) {
	conn := &fakeConnector{t: t, messages: testMessages()}
	source, err := NewMessageSource(StrategyMemory, conn, logrus.New())
	require.NoError(t, err)

	got, err := collect(t, source, feed.Request{Ticker: "SPY", Kind: feed.KindTick})
	require.NoError(t, err)
	assert.Equal(t, testMessages(), got)
	assert.Empty(t, conn.downloads)
	assert.Equal(t, 1, conn.streamed)
}

func TestNewMessageSource_UnknownStrategy(t *testing.T) {
	_, err := NewMessageSource(Strategy("tape"), &fakeConnector{t: t}, logrus.New())
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}
