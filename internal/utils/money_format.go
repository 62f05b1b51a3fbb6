package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of decimals shown for amounts in logs and events.
const MoneyPrecision = 2

// FormatMoney formats an amount with MoneyPrecision decimals.
// Example: 12.3456 returns "12.35", 7 returns "7.00".
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPrecision)
}
