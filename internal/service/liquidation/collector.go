package liquidation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/repository"
	"TradePulse/pkg/logger"
)

// DefaultStreamURL is the Binance futures all-market liquidation stream.
const DefaultStreamURL = "wss://fstream.binance.com/ws/!forceOrder@arr"

// Notional thresholds for the liquidation intensity score. The window
// sum is bucketed, not interpolated.
const (
	notionalExtreme  = 5_000_000.0
	notionalSevere   = 2_000_000.0
	notionalHigh     = 1_000_000.0
	notionalElevated = 250_000.0
	notionalNotable  = 50_000.0
)

// biasDominanceRatio is how lopsided the flushed notional must be
// before the snapshot reports a direction bias.
const biasDominanceRatio = 1.5

type event struct {
	longSide bool // true when a long position was liquidated
	notional float64
	at       time.Time
}

// Collector consumes the exchange liquidation stream, keeps a rolling
// per-symbol window and publishes aggregated snapshots to the state
// store for the evaluator to read.
type Collector struct {
	store          domrepo.StateStore
	metrics        domrepo.Metrics
	log            *logger.Logger
	url            string
	window         time.Duration
	snapshotTTL    time.Duration
	reconnectDelay time.Duration
	pingInterval   time.Duration

	mu     sync.Mutex
	events map[string][]event
	conn   *websocket.Conn
	now    func() time.Time
}

type Option func(*Collector)

func WithStreamURL(url string) Option {
	return func(c *Collector) {
		if url != "" {
			c.url = url
		}
	}
}

func WithWindow(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.window = d
		}
	}
}

func NewCollector(store domrepo.StateStore, metrics domrepo.Metrics, log *logger.Logger, opts ...Option) *Collector {
	c := &Collector{
		store:          store,
		metrics:        metrics,
		log:            log,
		url:            DefaultStreamURL,
		window:         5 * time.Minute,
		snapshotTTL:    2 * time.Minute,
		reconnectDelay: 5 * time.Second,
		pingInterval:   30 * time.Second,
		events:         make(map[string][]event),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run connects to the stream and processes liquidation events until the
// context is canceled, reconnecting on failures.
func (c *Collector) Run(ctx context.Context) {
	for {
		if err := c.connect(ctx); err != nil {
			c.metrics.RecordError("liquidation_connect")
			c.log.Warn("liquidation stream connect failed", logger.Error(err))
		} else {
			c.readLoop(ctx)
		}

		select {
		case <-ctx.Done():
			c.Close()
			return
		case <-time.After(c.reconnectDelay):
		}
	}
}

func (c *Collector) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("liquidation stream dial: %w", err)
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.log.Info("liquidation stream connected", logger.String("url", c.url))
	return nil
}

func (c *Collector) readLoop(ctx context.Context) {
	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go c.pingLoop(pingCtx)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.metrics.RecordError("liquidation_read")
			c.log.Warn("liquidation stream read failed", logger.Error(err))
			return
		}
		if err := c.handleMessage(ctx, raw); err != nil {
			c.metrics.RecordError("liquidation_parse")
			c.log.Debug("liquidation frame dropped", logger.Error(err))
		}
	}
}

func (c *Collector) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			conn := c.conn
			c.mu.Unlock()
			if conn != nil {
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

// forceOrder is the exchange liquidation event payload.
type forceOrder struct {
	EventType string `json:"e"`
	Order     struct {
		Symbol   string `json:"s"`
		Side     string `json:"S"` // SELL means a long was liquidated
		Quantity string `json:"q"`
		AvgPrice string `json:"ap"`
		Price    string `json:"p"`
		TradeAt  int64  `json:"T"`
	} `json:"o"`
}

func (c *Collector) handleMessage(ctx context.Context, raw []byte) error {
	var fo forceOrder
	if err := json.Unmarshal(raw, &fo); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	if fo.EventType != "forceOrder" || fo.Order.Symbol == "" {
		return nil
	}

	qty, err := strconv.ParseFloat(fo.Order.Quantity, 64)
	if err != nil {
		return fmt.Errorf("parse quantity: %w", err)
	}
	price, err := strconv.ParseFloat(fo.Order.AvgPrice, 64)
	if err != nil || price <= 0 {
		price, err = strconv.ParseFloat(fo.Order.Price, 64)
		if err != nil {
			return fmt.Errorf("parse price: %w", err)
		}
	}

	at := c.now()
	if fo.Order.TradeAt > 0 {
		at = time.UnixMilli(fo.Order.TradeAt).UTC()
	}

	snap := c.record(fo.Order.Symbol, fo.Order.Side == "SELL", qty*price, at)
	return c.publish(ctx, fo.Order.Symbol, snap)
}

// record appends one liquidation to the symbol window and returns the
// fresh aggregate.
func (c *Collector) record(symbol string, longSide bool, notional float64, at time.Time) models.LiquidationSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.window)
	kept := c.events[symbol][:0]
	for _, e := range c.events[symbol] {
		if e.at.After(cutoff) {
			kept = append(kept, e)
		}
	}
	kept = append(kept, event{longSide: longSide, notional: notional, at: at})
	c.events[symbol] = kept

	return aggregate(kept)
}

func (c *Collector) publish(ctx context.Context, symbol string, snap models.LiquidationSnapshot) error {
	if err := c.store.Set(ctx, repository.LiquidationKey(symbol), snap, c.snapshotTTL); err != nil {
		c.metrics.RecordError("liquidation_publish")
		return fmt.Errorf("publish snapshot %s: %w", symbol, err)
	}
	return nil
}

// aggregate folds a window of liquidations into a snapshot.
func aggregate(events []event) models.LiquidationSnapshot {
	var total, longFlushed, shortFlushed float64
	for _, e := range events {
		total += e.notional
		if e.longSide {
			longFlushed += e.notional
		} else {
			shortFlushed += e.notional
		}
	}

	snap := models.LiquidationSnapshot{
		IntensityScore: intensity(total),
		NotionalSum:    total,
	}
	switch {
	case longFlushed >= shortFlushed*biasDominanceRatio && longFlushed > 0:
		snap.DirectionBias = 1
	case shortFlushed >= longFlushed*biasDominanceRatio && shortFlushed > 0:
		snap.DirectionBias = -1
	}
	return snap
}

func intensity(notional float64) float64 {
	switch {
	case notional >= notionalExtreme:
		return 10
	case notional >= notionalSevere:
		return 8
	case notional >= notionalHigh:
		return 6
	case notional >= notionalElevated:
		return 4
	case notional >= notionalNotable:
		return 2
	default:
		return 0
	}
}

// Close shuts the stream connection down.
func (c *Collector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
