package extractor

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pyhub-apps/pricebulletin/pkg/log"
)

// at builds a line of tokens at the given top from alternating x0/text pairs.
func at(top float64, pairs ...any) []Token {
	var toks []Token
	for i := 0; i+1 < len(pairs); i += 2 {
		toks = append(toks, Token{X0: toFloat(pairs[i]), Top: top, Text: pairs[i+1].(string)})
	}
	return toks
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	panic("x0 must be a number")
}

func page(number int, text string, lines ...[]Token) Page {
	p := Page{Number: number, Text: text}
	for _, l := range lines {
		p.Tokens = append(p.Tokens, l...)
	}
	return p
}

var testNormalization = map[string]string{
	"WELL-MILLED RICE (LOCAL)": "Well-milled Rice (Local)",
	"EGG (MEDIUM)":             "Egg (Medium)",
	"REFINED SUGAR":            "Refined Sugar",
}

// bulletinPage is a three-column page from the 2025 bulletin family whose
// sugar cell is unavailable.
func bulletinPage(number int) Page {
	return page(number, "DAILY RETAIL PRICE RANGE\nDecember 22, 2025",
		at(20, 20, "DAILY", 60, "RETAIL", 110, "PRICE", 150, "RANGE"),
		at(35, 300, "December", 350, "22,", 375, "2025"),
		at(60, 20, "MARKET", 235, "WELL-MILLED", 280, "RICE", 295, "(LOCAL)",
			340, "EGG", 365, "(MEDIUM)", 430, "REFINED", 470, "SUGAR"),
		at(80, 20, "Agora", 50, "Public", 85, "Market/San", 135, "Juan",
			250, "45.00", 350, "8.50", 440, "NOT", 460, "AVAILABLE"),
	)
}

func observedLogger(level zapcore.Level) (log.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core).Sugar(), logs
}

func deref(f *float64) float64 {
	if f == nil {
		return -1
	}
	return *f
}
