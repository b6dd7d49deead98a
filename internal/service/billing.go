package service

import (
	"github.com/set-night/mindlink/internal/domain"
	"github.com/shopspring/decimal"
)

// Price is USD per 1M tokens.
type Price struct {
	Input  decimal.Decimal
	Output decimal.Decimal
}

func price(input, output string) Price {
	return Price{Input: decimal.RequireFromString(input), Output: decimal.RequireFromString(output)}
}

var prices = map[domain.Provider]Price{
	domain.Claude{Version: domain.ClaudeSonnet4}: price("3", "15"),
	domain.Claude{Version: domain.ClaudeOpus41}:  price("15", "75"),
	domain.Claude{Version: domain.ClaudeHaiku35}: price("0.80", "4"),
	domain.ChatGPT{Version: domain.GPT5}:         price("1.25", "10"),
	domain.ChatGPT{Version: domain.GPT5Mini}:     price("0.25", "2"),
	domain.ChatGPT{Version: domain.GPT41}:        price("2", "8"),
	domain.Gemini{Version: domain.Gemini25Pro}:   price("1.25", "10"),
	domain.Gemini{Version: domain.Gemini25Flash}: price("0.30", "2.50"),
}

var perMillion = decimal.NewFromInt(1_000_000)

// PriceFor returns the list price of p.
func PriceFor(p domain.Provider) (Price, bool) {
	pr, ok := prices[p]
	return pr, ok
}

// CalculateCost prices usage and applies markupPercent on top.
func CalculateCost(usage domain.Usage, pr Price, markupPercent float64) decimal.Decimal {
	inputCost := decimal.NewFromInt(int64(usage.InputTokens)).Mul(pr.Input).Div(perMillion)
	outputCost := decimal.NewFromInt(int64(usage.OutputTokens)).Mul(pr.Output).Div(perMillion)
	markup := decimal.NewFromFloat(1 + markupPercent/100)
	return inputCost.Add(outputCost).Mul(markup)
}

// SessionCost prices every committed reply at the provider it was sent to.
// Replies from unpriced providers are skipped.
func SessionCost(s *Session, markupPercent float64) decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.History() {
		if b.Metadata.Usage.Total() == 0 {
			continue
		}
		pr, ok := PriceFor(b.Metadata.Config.Provider)
		if !ok {
			continue
		}
		total = total.Add(CalculateCost(b.Metadata.Usage, pr, markupPercent))
	}
	return total
}
