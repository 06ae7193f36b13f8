package utils

import (
	"fmt"
	"strings"
)

// FormatPrice formats a price with its currency marker. ETB amounts use the
// "Birr" suffix customers see in the bot; USD amounts use the dollar sign.
func FormatPrice(amount float64, currency string) string {
	switch currency {
	case "ETB":
		return FormatAmount(amount) + " Birr"
	case "USD":
		return "$" + FormatAmount(amount)
	default:
		return FormatAmount(amount) + " " + currency
	}
}

// FormatAmount formats a number with thousands separators and two decimals.
func FormatAmount(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := groupThousands(parts[0])

	result := intPart + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	s = s[:n-3]
	for len(s) > 3 {
		result = s[len(s)-3:] + "," + result
		s = s[:len(s)-3]
	}
	return s + "," + result
}

// Round2 rounds an amount to two decimal places.
func Round2(amount float64) float64 {
	if amount < 0 {
		return float64(int64(amount*100-0.5)) / 100
	}
	return float64(int64(amount*100+0.5)) / 100
}
