package decimal_value

import (
	"github.com/shopspring/decimal"
)

// Null marks a value that could not be obtained.
var Null = DecimalOpt{IsNull: true}

type DecimalOpt struct {
	Decimal decimal.Decimal
	IsNull  bool
}

func New(value decimal.Decimal) DecimalOpt {
	return DecimalOpt{Decimal: value}
}

func NewFromFloat(value float64) DecimalOpt {
	return DecimalOpt{Decimal: decimal.NewFromFloat(value)}
}

func RequireFromString(value string) DecimalOpt {
	return DecimalOpt{Decimal: decimal.RequireFromString(value)}
}

// OrZero collapses Null into zero, which is how missing rates are reported.
func (d DecimalOpt) OrZero() decimal.Decimal {
	if d.IsNull {
		return decimal.Zero
	}
	return d.Decimal
}

func (d DecimalOpt) Equal(d2 DecimalOpt) bool {
	if d.IsNull || d2.IsNull {
		return d.IsNull == d2.IsNull
	}

	return d.Decimal.Equal(d2.Decimal)
}

func (d DecimalOpt) String() string {
	if d.IsNull {
		return "NaN"
	}

	return d.Decimal.String()
}
