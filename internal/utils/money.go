package utils

import "fmt"

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatFare renders a fare the way every table shows it, e.g. "$55.00".
func FormatFare(amount float64) string {
	if amount < 0 {
		return "-$" + FormatMoney(-amount)
	}
	return "$" + FormatMoney(amount)
}
