package models

// Requests for the signal HTTP endpoints. Defined in domain for consistency and reuse.

type EvaluateRequest struct {
	Symbols       string `query:"symbols" json:"symbols"`
	MinConfidence int    `query:"min_confidence" json:"min_confidence" default:"0" validate:"gte=0,lte=100"`
}

type ConfirmRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type LastSignalRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}
