package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/usecase"
	xhttp "TradePulse/pkg/http"
	xlogger "TradePulse/pkg/logger"
	"TradePulse/pkg/util"
)

// SignalsEchoHandler exposes the evaluation pipeline over HTTP.
type SignalsEchoHandler struct {
	logger    *xlogger.Logger
	batch     *usecase.BatchUseCase
	eval      *usecase.Evaluator
	watchlist []string
}

func NewSignalsEchoHandler(logger *xlogger.Logger, batch *usecase.BatchUseCase, eval *usecase.Evaluator, watchlist []string) *SignalsEchoHandler {
	return &SignalsEchoHandler{logger: logger, batch: batch, eval: eval, watchlist: watchlist}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/evaluate", h.Evaluate)
	g.GET("/evaluate/close", h.EvaluateClose)
	g.POST("/confirm", h.Confirm)
	g.GET("/signal/last", h.LastSignal)
}

// Evaluate runs an intrabar cycle over the requested symbols, or the
// configured watchlist when none are given. A min_confidence on the
// request raises the emission bar for this cycle.
func (h *SignalsEchoHandler) Evaluate(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	symbols := h.symbols(req.Symbols)
	res := h.batch.EvaluateIntrabar(c.Request().Context(), symbols, req.MinConfidence)
	return xhttp.SuccessResponse(c, res)
}

// EvaluateClose runs a close-confirmation cycle over the symbols.
func (h *SignalsEchoHandler) EvaluateClose(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	symbols := h.symbols(req.Symbols)
	res := h.batch.EvaluateOnClose(c.Request().Context(), symbols)
	return xhttp.SuccessResponse(c, res)
}

// Confirm flags the pending preview of a symbol for settlement.
func (h *SignalsEchoHandler) Confirm(c echo.Context) error {
	req := &models.ConfirmRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ack, err := h.eval.RequestConfirmation(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("confirmation request failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("confirmation request failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, ack)
}

// LastSignal returns the most recent signal for a symbol.
func (h *SignalsEchoHandler) LastSignal(c echo.Context) error {
	req := &models.LastSignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sig, err := h.eval.LastSignal(c.Request().Context(), req.Symbol)
	if errors.Is(err, domrepo.ErrNotFound) {
		return xhttp.NotFoundResponse(c, "no signal for symbol")
	}
	if err != nil {
		h.logger.Error("last signal lookup failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("last signal lookup failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, sig)
}

func (h *SignalsEchoHandler) symbols(raw string) []string {
	if syms := util.SplitSymbols(raw); len(syms) > 0 {
		return syms
	}
	return h.watchlist
}
