package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Submission is a seller's sale entry ("envio de venda") after normalization
type Submission struct {
	ID            int64            `json:"id"`
	OrderNumber   string           `json:"numeroPedido"`
	Status        SubmissionStatus `json:"status"`
	RequirementID string           `json:"requisitoId"`

	// CreditedCard is the card number the backend attributed this sale to.
	// CreditedCardAssumed is set when the wire value was null or
	// non-numeric and the value was assumed to be 1.
	CreditedCard        int  `json:"numeroCartelaAtendida"`
	CreditedCardAssumed bool `json:"numeroCartelaAssumido,omitempty"`

	Points     decimal.Decimal `json:"pontosRecebidos"`
	Multiplier decimal.Decimal `json:"multiplicadorAplicado"`
	EventValue decimal.Decimal `json:"valorComEvento"`

	CreatedAt time.Time `json:"criadoEm"`
}

// SubmissionStatus ...
type SubmissionStatus string

const (
	// SubmissionStatusInReview ...
	SubmissionStatusInReview SubmissionStatus = "EM_ANALISE"

	// SubmissionStatusValidated ...
	SubmissionStatusValidated SubmissionStatus = "VALIDADO"

	// SubmissionStatusRejected ...
	SubmissionStatusRejected SubmissionStatus = "REJEITADO"

	// SubmissionStatusManualConflict ...
	SubmissionStatusManualConflict SubmissionStatus = "CONFLITO_MANUAL"
)
