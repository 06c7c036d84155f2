package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2/futures"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	svccache "TradePulse/internal/service/cache"
)

// candleCacheTTL keeps repeated intrabar evaluations of the same symbol
// from hammering the exchange inside one polling window.
const (
	candleCacheTTL  = 10 * time.Second
	contextCacheTTL = 30 * time.Second
)

// BinanceMarketData fetches candles and 24h/funding context from the
// Binance USD-M futures API, with a short-lived local cache in front.
type BinanceMarketData struct {
	client *futures.Client
	cache  *svccache.TTLCache
}

func NewBinanceMarketData(client *futures.Client) domrepo.MarketData {
	return &BinanceMarketData{
		client: client,
		cache:  svccache.NewTTLCache(),
	}
}

func (m *BinanceMarketData) FetchCandles(ctx context.Context, symbol, interval string, limit int) (models.CandleSeries, error) {
	key := fmt.Sprintf("candles:%s:%s:%d", symbol, interval, limit)
	if v, ok := m.cache.Get(key); ok {
		return v.(models.CandleSeries), nil
	}

	klines, err := m.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
	}

	cs := make(models.CandleSeries, 0, len(klines))
	for _, k := range klines {
		candle, err := convertKline(k)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
		}
		cs = append(cs, candle)
	}

	m.cache.Set(key, cs, candleCacheTTL)
	return cs, nil
}

func (m *BinanceMarketData) FetchContext(ctx context.Context, symbol string) (*models.MarketContext, error) {
	key := "context:" + symbol
	if v, ok := m.cache.Get(key); ok {
		mc := v.(models.MarketContext)
		return &mc, nil
	}

	stats, err := m.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance 24h stats %s: %w", symbol, err)
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("binance 24h stats %s: empty response", symbol)
	}

	pct, err := strconv.ParseFloat(stats[0].PriceChangePercent, 64)
	if err != nil {
		return nil, fmt.Errorf("parse 24h change for %s: %w", symbol, err)
	}
	high, err := strconv.ParseFloat(stats[0].HighPrice, 64)
	if err != nil {
		return nil, fmt.Errorf("parse 24h high for %s: %w", symbol, err)
	}
	low, err := strconv.ParseFloat(stats[0].LowPrice, 64)
	if err != nil {
		return nil, fmt.Errorf("parse 24h low for %s: %w", symbol, err)
	}

	mc := models.MarketContext{PercentChange24h: pct}
	if low > 0 {
		mc.DailyRangePct = (high - low) / low * 100
	}

	premium, err := m.client.NewPremiumIndexService().Symbol(symbol).Do(ctx)
	if err == nil && len(premium) > 0 {
		if rate, perr := strconv.ParseFloat(premium[0].LastFundingRate, 64); perr == nil {
			mc.FundingRate = rate
		}
		if premium[0].NextFundingTime > 0 {
			mc.NextFundingTime = time.UnixMilli(premium[0].NextFundingTime).UTC()
		}
	}

	m.cache.Set(key, mc, contextCacheTTL)
	return &mc, nil
}

func convertKline(k *futures.Kline) (models.Candle, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("parse open: %w", err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("parse high: %w", err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("parse low: %w", err)
	}
	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("parse close: %w", err)
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("parse volume: %w", err)
	}

	return models.Candle{
		OpenTime:  time.UnixMilli(k.OpenTime).UTC(),
		CloseTime: time.UnixMilli(k.CloseTime).UTC(),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
	}, nil
}
