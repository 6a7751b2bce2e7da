package ledger

import (
	"github.com/shopspring/decimal"
)

// SplitEven делит сумму на n равных частей с точностью до копеек.
// Неделящийся остаток раздаётся по одной копейке первым частям,
// так что сумма частей равна исходной. total уже в копейках, доли копейки округляются
func SplitEven(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}

	cents := total.Shift(2).Round(0).IntPart()
	base := cents / int64(n)
	rest := cents % int64(n)

	parts := make([]decimal.Decimal, n)
	for i := range parts {
		c := base
		if int64(i) < rest {
			c++
		}
		parts[i] = decimal.New(c, -2)
	}
	return parts
}
