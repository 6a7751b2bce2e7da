package formatting

import "github.com/shopspring/decimal"

// FormatMoney сумма в рупиях с двумя знаками
func FormatMoney(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

// FormatMoneyShort без дробной части, если она нулевая
func FormatMoneyShort(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return "₹" + d.StringFixed(0)
	}
	return FormatMoney(d)
}
