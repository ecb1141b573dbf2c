package style

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var german = message.NewPrinter(language.German)

// FormatArea renders an area given in m² the German way: m² below one km²,
// km² with one fractional digit above.
func FormatArea(m2 float64) string {
	if m2 <= 0 {
		return "N/A"
	}
	km2 := m2 / 1e6
	if km2 < 1 {
		return german.Sprintf("%v m²", number.Decimal(m2, number.MaxFractionDigits(0)))
	}
	return german.Sprintf("%v km²", number.Decimal(km2, number.MaxFractionDigits(1)))
}

// FormatPower renders a power figure given in kW.
func FormatPower(kw float64) string {
	if kw >= 1000 {
		return fmt.Sprintf("%.1f MW", kw/1000)
	}
	return fmt.Sprintf("%.0f kW", kw)
}
