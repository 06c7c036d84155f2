package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/engine/indicators"
	"TradePulse/internal/engine/risk"
	"TradePulse/internal/engine/strategy"
	"TradePulse/internal/engine/targets"
	"TradePulse/internal/service/ratelimit"
	"TradePulse/pkg/logger"
	"TradePulse/pkg/util"
)

// Suppression reason labels for metrics.
const (
	suppressRateLimited   = "rate_limited"
	suppressCooldown      = "cooldown"
	suppressNoTrade       = "no_trade"
	suppressVeto          = "liquidation_veto"
	suppressLowConfidence = "low_confidence"
	suppressNoPlan        = "no_target_plan"
	suppressDuplicate     = "duplicate"
)

// Invalidation reason labels attached to terminal signals.
const (
	invalidReanalysisFailed     = "reanalysis_failed"
	invalidNoTradeAtClose       = "no_trade_at_close"
	invalidDirectionChanged     = "direction_changed"
	invalidReversalUnconfirmed  = "reversal_unconfirmed"
	invalidVetoAtClose          = "liquidation_veto"
	invalidLowConfidenceAtClose = "low_confidence_at_close"
	invalidBadEntry             = "bad_entry"
	invalidNoPlanAtClose        = "no_target_plan"
)

// Config tunes the evaluation pipeline. Zero values fall back to
// defaults in NewEvaluator.
type Config struct {
	Interval            string
	CandleLimit         int
	MinConfidence       int
	TickSize            float64
	ConfirmedCooldown   time.Duration
	InvalidatedCooldown time.Duration
	EvalRatePerSec      float64
	EvalBurst           float64
}

func (c *Config) normalize() {
	c.Interval = domrepo.NormalizeInterval(c.Interval)
	if c.CandleLimit <= 0 {
		c.CandleLimit = 100
	}
	if c.MinConfidence <= 0 {
		c.MinConfidence = 55
	}
	if c.TickSize <= 0 {
		c.TickSize = 0.01
	}
	if c.ConfirmedCooldown <= 0 {
		c.ConfirmedCooldown = 30 * time.Minute
	}
	if c.InvalidatedCooldown <= 0 {
		c.InvalidatedCooldown = 15 * time.Minute
	}
	if c.EvalRatePerSec <= 0 {
		c.EvalRatePerSec = 0.5
	}
	if c.EvalBurst <= 0 {
		c.EvalBurst = 3
	}
}

// Evaluator runs the full per-symbol signal pipeline: indicators,
// trend/momentum scoring, liquidation risk adjustment, target planning
// and the preview/confirm lifecycle on top of the state store.
type Evaluator struct {
	market    domrepo.MarketData
	store     domrepo.StateStore
	liq       domrepo.LiquidationFeed
	publisher domrepo.SignalPublisher
	history   domrepo.SignalHistory
	metrics   domrepo.Metrics
	limiter   *ratelimit.Limiter
	log       *logger.Logger
	cfg       Config
	now       func() time.Time
}

func NewEvaluator(
	market domrepo.MarketData,
	store domrepo.StateStore,
	liq domrepo.LiquidationFeed,
	publisher domrepo.SignalPublisher,
	history domrepo.SignalHistory,
	metrics domrepo.Metrics,
	limiter *ratelimit.Limiter,
	log *logger.Logger,
	cfg Config,
) *Evaluator {
	cfg.normalize()
	return &Evaluator{
		market:    market,
		store:     store,
		liq:       liq,
		publisher: publisher,
		history:   history,
		metrics:   metrics,
		limiter:   limiter,
		log:       log,
		cfg:       cfg,
		now:       time.Now,
	}
}

// analysis is one complete read of the market for a symbol.
type analysis struct {
	ind       *models.IndicatorSnapshot
	mctx      *models.MarketContext
	momentum  models.Momentum
	trend     models.Trend
	candidate models.DirectionCandidate
	liq       models.LiquidationSnapshot
	adj       models.RiskAdjustment
}

// EvaluateIntrabar runs one intrabar evaluation cycle for a symbol. A
// nil signal with nil error means the cycle was suppressed; suppression
// reasons are visible through metrics, not errors. A positive
// minConfidence raises the emission bar for this call only; zero falls
// back to the configured threshold.
func (e *Evaluator) EvaluateIntrabar(ctx context.Context, symbol string, minConfidence int) (*models.Signal, error) {
	symbol = util.NormalizeSymbol(symbol)
	start := e.now()
	defer func() { e.metrics.RecordLatency("evaluate_intrabar", e.now().Sub(start).Seconds()) }()

	threshold := e.cfg.MinConfidence
	if minConfidence > 0 {
		threshold = minConfidence
	}

	if e.limiter != nil && !e.limiter.Allow("eval:"+symbol, e.cfg.EvalBurst, e.cfg.EvalRatePerSec) {
		e.metrics.RecordSuppression(suppressRateLimited)
		return nil, nil
	}
	if e.inCooldown(ctx, symbol) {
		e.metrics.RecordSuppression(suppressCooldown)
		return nil, nil
	}

	a, err := e.analyze(ctx, symbol)
	if err != nil {
		e.metrics.RecordError("analyze")
		return nil, err
	}

	if a.candidate.Direction == models.DirectionNone {
		e.metrics.RecordSuppression(suppressNoTrade)
		return nil, nil
	}
	if a.adj.Veto {
		e.metrics.RecordSuppression(suppressVeto)
		return nil, nil
	}
	if a.adj.Confidence < threshold {
		e.metrics.RecordSuppression(suppressLowConfidence)
		return nil, nil
	}

	plan := targets.Plan(e.planInput(a))
	if plan == nil {
		e.metrics.RecordSuppression(suppressNoPlan)
		return nil, nil
	}

	id := PreviewID(symbol, a.candidate.Direction, e.now())
	claimed, err := e.store.SetIfAbsent(ctx, dedupeKey(id), 1, dedupeTTL)
	if err != nil {
		e.metrics.RecordError("state")
		return nil, fmt.Errorf("claim preview %s: %w", id, err)
	}
	if !claimed {
		e.metrics.RecordSuppression(suppressDuplicate)
		return nil, nil
	}

	sig := e.buildSignal(id, symbol, models.ModePreview, a, plan)
	pending := models.PendingConfirmation{
		SignalID:   id,
		Symbol:     symbol,
		Direction:  a.candidate.Direction,
		IsReversal: a.candidate.IsReversal,
		Snapshot: models.PreviewMetrics{
			RSI:           a.ind.RSI,
			MomentumScore: a.momentum.Score,
			Confidence:    a.adj.Confidence,
			EntryPrice:    a.ind.LastClose,
		},
		CreatedAt: e.now(),
	}
	if err := e.store.Set(ctx, pendingKey(symbol), pending, pendingTTL); err != nil {
		e.metrics.RecordError("state")
		return nil, fmt.Errorf("store pending confirmation: %w", err)
	}

	e.finalizeSignal(ctx, sig)
	e.log.Info("preview signal emitted",
		logger.String("symbol", symbol),
		logger.String("direction", string(sig.Direction)),
		logger.Int("confidence", sig.Confidence),
		logger.Bool("reversal", a.candidate.IsReversal))
	return sig, nil
}

// RequestConfirmation flags the pending preview for a symbol so the
// next close evaluation settles it. Without a pending preview the
// request is acknowledged negatively, never an error.
//
// The request is written to its own key carrying the preview's signal
// ID instead of rewriting the pending record. That keeps the flip free
// of read-modify-write races: a preview emitted concurrently can
// neither be clobbered by a stale write-back nor inherit a request made
// for its predecessor.
func (e *Evaluator) RequestConfirmation(ctx context.Context, symbol string) (*models.ConfirmationAck, error) {
	symbol = util.NormalizeSymbol(symbol)

	var pending models.PendingConfirmation
	err := e.store.Get(ctx, pendingKey(symbol), &pending)
	if errors.Is(err, domrepo.ErrNotFound) {
		return &models.ConfirmationAck{OK: false, Reason: models.ReasonNoPendingPreview}, nil
	}
	if err != nil {
		e.metrics.RecordError("state")
		return nil, fmt.Errorf("load pending confirmation: %w", err)
	}

	req := models.ConfirmRecord{SignalID: pending.SignalID, RequestedAt: e.now()}
	if err := e.store.Set(ctx, confirmKey(symbol), req, pendingTTL); err != nil {
		e.metrics.RecordError("state")
		return nil, fmt.Errorf("store confirm request: %w", err)
	}
	return &models.ConfirmationAck{OK: true}, nil
}

// EvaluateOnClose settles a confirmation-requested preview at candle
// close. The outcome is either a CONFIRMED signal, an INVALIDATED
// signal, or a no-op when nothing awaits settlement.
func (e *Evaluator) EvaluateOnClose(ctx context.Context, symbol string) (*models.Signal, error) {
	symbol = util.NormalizeSymbol(symbol)
	start := e.now()
	defer func() { e.metrics.RecordLatency("evaluate_close", e.now().Sub(start).Seconds()) }()

	var pending models.PendingConfirmation
	err := e.store.Get(ctx, pendingKey(symbol), &pending)
	if errors.Is(err, domrepo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		e.metrics.RecordError("state")
		return nil, fmt.Errorf("load pending confirmation: %w", err)
	}

	var req models.ConfirmRecord
	err = e.store.Get(ctx, confirmKey(symbol), &req)
	if errors.Is(err, domrepo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		e.metrics.RecordError("state")
		return nil, fmt.Errorf("load confirm request: %w", err)
	}
	if req.SignalID != pending.SignalID {
		// The request was made for a preview that has since been
		// superseded; only the live preview may settle.
		return nil, nil
	}

	a, err := e.analyze(ctx, symbol)
	if err != nil {
		e.metrics.RecordError("analyze")
		return e.invalidate(ctx, symbol, &pending, invalidReanalysisFailed), nil
	}

	switch {
	case a.candidate.Direction == models.DirectionNone:
		return e.invalidate(ctx, symbol, &pending, invalidNoTradeAtClose), nil
	case a.candidate.Direction != pending.Direction:
		return e.invalidate(ctx, symbol, &pending, invalidDirectionChanged), nil
	case pending.IsReversal && !reversalConfirmed(pending.Direction, a.ind.RSI):
		return e.invalidate(ctx, symbol, &pending, invalidReversalUnconfirmed), nil
	case a.adj.Veto:
		return e.invalidate(ctx, symbol, &pending, invalidVetoAtClose), nil
	case a.adj.Confidence < e.cfg.MinConfidence:
		return e.invalidate(ctx, symbol, &pending, invalidLowConfidenceAtClose), nil
	case a.ind.LastClose <= 0:
		return e.invalidate(ctx, symbol, &pending, invalidBadEntry), nil
	}

	plan := targets.Plan(e.planInput(a))
	if plan == nil {
		return e.invalidate(ctx, symbol, &pending, invalidNoPlanAtClose), nil
	}

	id := ConfirmedID(symbol, a.candidate.Direction, a.ind.LastCloseTime)
	claimed, err := e.store.SetIfAbsent(ctx, dedupeKey(id), 1, dedupeTTL)
	if err != nil {
		e.metrics.RecordError("state")
		return nil, fmt.Errorf("claim confirmation %s: %w", id, err)
	}
	if !claimed {
		return nil, nil
	}

	sig := e.buildSignal(id, symbol, models.ModeConfirmed, a, plan)
	confirmedAt := e.now()
	sig.ConfirmedAt = &confirmedAt

	e.setCooldown(ctx, symbol, e.cfg.ConfirmedCooldown)
	e.clearPending(ctx, symbol)
	e.finalizeSignal(ctx, sig)
	e.log.Info("signal confirmed",
		logger.String("symbol", symbol),
		logger.String("direction", string(sig.Direction)),
		logger.Int("confidence", sig.Confidence))
	return sig, nil
}

// LastSignal returns the most recent signal stored for a symbol.
func (e *Evaluator) LastSignal(ctx context.Context, symbol string) (*models.Signal, error) {
	symbol = util.NormalizeSymbol(symbol)
	var sig models.Signal
	if err := e.store.Get(ctx, lastSignalKey(symbol), &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}

// analyze performs one full market read and scoring pass for a symbol.
func (e *Evaluator) analyze(ctx context.Context, symbol string) (*analysis, error) {
	candles, err := e.market.FetchCandles(ctx, symbol, e.cfg.Interval, e.cfg.CandleLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: candles for %s: %v", models.ErrDataUnavailable, symbol, err)
	}

	ind, err := indicators.Compute(candles)
	if err != nil {
		return nil, fmt.Errorf("indicators for %s: %w", symbol, err)
	}

	mctx, err := e.market.FetchContext(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: context for %s: %v", models.ErrDataUnavailable, symbol, err)
	}

	trend := strategy.ClassifyTrend(mctx.PercentChange24h, ind)
	momentum := strategy.ComputeMomentum(ind)
	candidate := strategy.DirectionCandidate(trend, ind)
	confidence := strategy.ScoreConfidence(trend, momentum, mctx.VolatilityProxy())
	e.metrics.RecordConfidence(symbol, float64(confidence))

	liqSnap, err := e.liq.Snapshot(ctx, symbol)
	if err != nil {
		// No liquidation data is neutral, not fatal.
		e.log.Warn("liquidation snapshot unavailable", logger.String("symbol", symbol), logger.Error(err))
		liqSnap = models.LiquidationSnapshot{}
	}

	adj := models.RiskAdjustment{Confidence: confidence}
	if candidate.Direction != models.DirectionNone {
		adj = risk.Adjust(candidate.Direction, confidence, liqSnap, mctx, e.now())
	}

	return &analysis{
		ind:       ind,
		mctx:      mctx,
		momentum:  momentum,
		trend:     trend,
		candidate: candidate,
		liq:       liqSnap,
		adj:       adj,
	}, nil
}

// reversalConfirmed checks a counter-trend candidate at close: the RSI
// must have left the extreme zone that produced it, in the direction of
// the trade.
func reversalConfirmed(dir models.Direction, rsi float64) bool {
	if dir == models.DirectionShort {
		return rsi < 70
	}
	return rsi > 30
}

func (e *Evaluator) planInput(a *analysis) targets.Input {
	return targets.Input{
		Entry:                a.ind.LastClose,
		ATR:                  a.ind.ATR,
		Direction:            a.candidate.Direction,
		Confidence:           a.adj.Confidence,
		Strength:             a.momentum.Strength,
		IsReversal:           a.candidate.IsReversal,
		LiquidationIntensity: a.liq.IntensityScore,
		BandWidth:            a.ind.BandWidth,
		TickSize:             e.cfg.TickSize,
	}
}

func (e *Evaluator) buildSignal(id, symbol string, mode models.SignalMode, a *analysis, plan *models.TargetPlan) *models.Signal {
	sig := &models.Signal{
		ID:         id,
		Symbol:     symbol,
		Mode:       mode,
		Direction:  a.candidate.Direction,
		Confidence: a.adj.Confidence,
		EntryPrice: a.ind.LastClose,
		Metadata: map[string]float64{
			"rsi":                   a.ind.RSI,
			"momentum_score":        float64(a.momentum.Score),
			"atr":                   a.ind.ATR,
			"volume_ratio":          a.ind.VolumeRatio,
			"band_position":         float64(a.ind.BandPosition),
			"percent_change_24h":    a.mctx.PercentChange24h,
			"liquidation_intensity": a.liq.IntensityScore,
		},
		Reasons:   []string{a.candidate.Reason},
		Warnings:  a.adj.Warnings,
		CreatedAt: e.now(),
	}
	if plan != nil {
		sig.StopLoss = plan.StopLoss
		sig.TakeProfit = plan.TakeProfit
		sig.Metadata["sl_multiplier"] = plan.SLMultiplier
		sig.Metadata["risk_reward"] = plan.RiskReward
	}
	return sig
}

// invalidate writes a terminal INVALIDATED record, starts the short
// cooldown and clears the pending slot. The identity is claimed like
// any other emission, so concurrent settlement of the same pending
// collapses to one record.
func (e *Evaluator) invalidate(ctx context.Context, symbol string, pending *models.PendingConfirmation, reason string) *models.Signal {
	id := InvalidatedID(symbol, pending.Direction, e.now())
	claimed, err := e.store.SetIfAbsent(ctx, dedupeKey(id), 1, dedupeTTL)
	if err != nil {
		e.metrics.RecordError("state")
		e.log.Error("claim invalidation", logger.String("symbol", symbol), logger.Error(err))
		return nil
	}
	if !claimed {
		return nil
	}

	sig := &models.Signal{
		ID:         id,
		Symbol:     symbol,
		Mode:       models.ModeInvalidated,
		Direction:  pending.Direction,
		Confidence: pending.Snapshot.Confidence,
		EntryPrice: pending.Snapshot.EntryPrice,
		Reasons:    []string{reason},
		CreatedAt:  e.now(),
	}

	e.setCooldown(ctx, symbol, e.cfg.InvalidatedCooldown)
	e.clearPending(ctx, symbol)
	e.finalizeSignal(ctx, sig)
	e.log.Info("signal invalidated",
		logger.String("symbol", symbol),
		logger.String("reason", reason))
	return sig
}

func (e *Evaluator) inCooldown(ctx context.Context, symbol string) bool {
	var cd models.CooldownState
	if err := e.store.Get(ctx, cooldownKey(symbol), &cd); err != nil {
		return false
	}
	return e.now().Before(cd.CooldownUntil)
}

func (e *Evaluator) setCooldown(ctx context.Context, symbol string, d time.Duration) {
	cd := models.CooldownState{Symbol: symbol, CooldownUntil: e.now().Add(d)}
	if err := e.store.Set(ctx, cooldownKey(symbol), cd, cooldownTTL); err != nil {
		e.metrics.RecordError("state")
		e.log.Error("store cooldown", logger.String("symbol", symbol), logger.Error(err))
	}
}

func (e *Evaluator) clearPending(ctx context.Context, symbol string) {
	for _, key := range []string{pendingKey(symbol), confirmKey(symbol)} {
		if err := e.store.Delete(ctx, key); err != nil {
			e.metrics.RecordError("state")
			e.log.Error("clear pending confirmation", logger.String("symbol", symbol), logger.Error(err))
		}
	}
}

// finalizeSignal persists the last-signal record and hands the signal to
// the publisher and history sinks. Downstream failures are logged and
// counted but never retried; the evaluation outcome stands.
func (e *Evaluator) finalizeSignal(ctx context.Context, sig *models.Signal) {
	e.metrics.RecordSignal(string(sig.Mode), string(sig.Direction))

	if err := e.store.Set(ctx, lastSignalKey(sig.Symbol), sig, lastSignalTTL); err != nil {
		e.metrics.RecordError("state")
		e.log.Error("store last signal", logger.String("symbol", sig.Symbol), logger.Error(err))
	}
	if e.publisher != nil {
		if err := e.publisher.Publish(ctx, sig); err != nil {
			e.metrics.RecordError("publish")
			e.log.Warn("publish signal", logger.String("id", sig.ID), logger.Error(err))
		}
	}
	if e.history != nil {
		if err := e.history.Append(ctx, sig); err != nil {
			e.metrics.RecordError("history")
			e.log.Warn("append signal history", logger.String("id", sig.ID), logger.Error(err))
		}
	}
}
