package ledger

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// validAmount rejects negative, NaN and infinite amounts
func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
