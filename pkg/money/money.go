// Package money formato de importes para correos y documentos (pesos, es-CO).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("es-CO"))

// Format "$ 12.345,50". Siempre dos decimales.
func Format(d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	return "$ " + printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
