package wirevalue

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// The upstream API serializes numeric fields inconsistently: plain JSON
// numbers, numeric strings, decimal objects or null, depending on which
// backend code path produced the payload. Every coercion lives here so call
// sites get a typed value plus the reason it was chosen.

// Reason explains how a card number was obtained from the wire
type Reason int

const (
	// ReasonExact means the wire carried a usable integer
	ReasonExact Reason = 1

	// ReasonAssumed means the wire value was null or non-numeric and the
	// card number was assumed to be 1
	ReasonAssumed Reason = 2

	// ReasonFractional means the wire carried a finite non-integer number,
	// which matches no card
	ReasonFractional Reason = 3
)

var nullLiteral = []byte("null")

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, nullLiteral)
}

func parseFloat(raw json.RawMessage) (float64, bool) {
	var num float64
	if json.Unmarshal(raw, &num) == nil {
		return num, true
	}

	var str string
	if json.Unmarshal(raw, &str) == nil {
		num, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0, false
		}
		return num, true
	}

	return 0, false
}

// CardNumber coerces the numeroCartelaAtendida field. A null or non-numeric
// value is attributed to card 1; a fractional value yields 0, which matches
// no card.
func CardNumber(raw json.RawMessage) (int, Reason) {
	if isNull(raw) {
		return 1, ReasonAssumed
	}

	num, ok := parseFloat(raw)
	if !ok || math.IsInf(num, 0) || math.IsNaN(num) {
		return 1, ReasonAssumed
	}
	if num != math.Trunc(num) {
		return 0, ReasonFractional
	}
	return int(num), ReasonExact
}

// Int coerces a target-quantity style field. Null or invalid yields (0, false).
func Int(raw json.RawMessage) (int, bool) {
	if isNull(raw) {
		return 0, false
	}
	num, ok := parseFloat(raw)
	if !ok {
		return 0, false
	}
	return int(num), true
}

// Decimal coerces a monetary field. Null or invalid yields zero.
func Decimal(raw json.RawMessage) decimal.Decimal {
	d, ok := tryDecimal(raw)
	if !ok {
		return decimal.Zero
	}
	return d
}

// NullDecimal coerces an optional monetary field
func NullDecimal(raw json.RawMessage) decimal.NullDecimal {
	d, ok := tryDecimal(raw)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func tryDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	if isNull(raw) {
		return decimal.Decimal{}, false
	}

	var d decimal.Decimal
	if json.Unmarshal(raw, &d) == nil {
		return d, true
	}

	// decimal object envelope produced by the backend ORM
	var wrapped struct {
		Value json.RawMessage `json:"valor"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && !isNull(wrapped.Value) {
		if json.Unmarshal(wrapped.Value, &d) == nil {
			return d, true
		}
	}

	return decimal.Decimal{}, false
}
