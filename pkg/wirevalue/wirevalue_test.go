package wirevalue

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}

func TestCardNumber(t *testing.T) {
	num, reason := CardNumber(raw(`2`))
	assert.Equal(t, 2, num)
	assert.Equal(t, ReasonExact, reason)

	num, reason = CardNumber(raw(`"3"`))
	assert.Equal(t, 3, num)
	assert.Equal(t, ReasonExact, reason)

	num, reason = CardNumber(raw(`null`))
	assert.Equal(t, 1, num)
	assert.Equal(t, ReasonAssumed, reason)

	num, reason = CardNumber(nil)
	assert.Equal(t, 1, num)
	assert.Equal(t, ReasonAssumed, reason)

	num, reason = CardNumber(raw(`"abc"`))
	assert.Equal(t, 1, num)
	assert.Equal(t, ReasonAssumed, reason)

	num, reason = CardNumber(raw(`{"x":1}`))
	assert.Equal(t, 1, num)
	assert.Equal(t, ReasonAssumed, reason)

	num, reason = CardNumber(raw(`2.5`))
	assert.Equal(t, 0, num)
	assert.Equal(t, ReasonFractional, reason)

	num, reason = CardNumber(raw(`2.0`))
	assert.Equal(t, 2, num)
	assert.Equal(t, ReasonExact, reason)
}

func TestInt(t *testing.T) {
	num, ok := Int(raw(`12`))
	assert.Equal(t, true, ok)
	assert.Equal(t, 12, num)

	num, ok = Int(raw(`"7"`))
	assert.Equal(t, true, ok)
	assert.Equal(t, 7, num)

	num, ok = Int(raw(`null`))
	assert.Equal(t, false, ok)
	assert.Equal(t, 0, num)

	num, ok = Int(raw(`"sete"`))
	assert.Equal(t, false, ok)
	assert.Equal(t, 0, num)
}

func TestDecimal(t *testing.T) {
	assert.Equal(t, "120.50", Decimal(raw(`120.50`)).StringFixed(2))
	assert.Equal(t, "120.50", Decimal(raw(`"120.50"`)).StringFixed(2))
	assert.Equal(t, "88.00", Decimal(raw(`{"valor":"88.00"}`)).StringFixed(2))
	assert.Equal(t, "0", Decimal(raw(`null`)).String())
	assert.Equal(t, "0", Decimal(raw(`"abc"`)).String())
}

func TestNullDecimal(t *testing.T) {
	d := NullDecimal(raw(`"15.5"`))
	assert.Equal(t, true, d.Valid)
	assert.Equal(t, "15.5", d.Decimal.String())

	d = NullDecimal(raw(`null`))
	assert.Equal(t, false, d.Valid)

	d = NullDecimal(nil)
	assert.Equal(t, false, d.Valid)
}

func TestDecimalRoundTrip(t *testing.T) {
	d := Decimal(raw(`"10.10"`))
	assert.Equal(t, decimal.RequireFromString("10.10"), d)
}
