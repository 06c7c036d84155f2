package usecase

import (
	"context"
	"sync"
	"time"

	"TradePulse/internal/domain/models"
)

// BatchUseCase fans one evaluation cycle out over a symbol list and
// collects results plus per-symbol errors into a single batch.
type BatchUseCase struct {
	eval    *Evaluator
	timeout time.Duration
}

func NewBatchUseCase(eval *Evaluator) *BatchUseCase {
	return &BatchUseCase{eval: eval, timeout: 10 * time.Second}
}

// EvaluateIntrabar runs an intrabar cycle for every symbol concurrently.
// minConfidence is the caller's emission bar for this batch; zero uses
// the configured default.
func (uc *BatchUseCase) EvaluateIntrabar(ctx context.Context, symbols []string, minConfidence int) *models.EvaluationBatch {
	return uc.run(ctx, models.ModePreview, symbols, func(ctx context.Context, symbol string) (*models.Signal, error) {
		return uc.eval.EvaluateIntrabar(ctx, symbol, minConfidence)
	})
}

// EvaluateOnClose runs a close-confirmation cycle for every symbol.
func (uc *BatchUseCase) EvaluateOnClose(ctx context.Context, symbols []string) *models.EvaluationBatch {
	return uc.run(ctx, models.ModeConfirmed, symbols, uc.eval.EvaluateOnClose)
}

func (uc *BatchUseCase) run(ctx context.Context, mode models.SignalMode, symbols []string, fn func(context.Context, string) (*models.Signal, error)) *models.EvaluationBatch {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	res := &models.EvaluationBatch{
		Mode:      mode,
		Timestamp: time.Now(),
		Errors:    map[string]string{},
	}

	type item struct {
		symbol string
		sig    *models.Signal
		err    error
	}
	ch := make(chan item, len(symbols))
	var wg sync.WaitGroup

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sig, err := fn(ctx, symbol)
			ch <- item{symbol, sig, err}
		}(symbol)
	}

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.symbol] = it.err.Error()
			continue
		}
		if it.sig != nil {
			res.Signals = append(res.Signals, it.sig)
		}
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res
}
