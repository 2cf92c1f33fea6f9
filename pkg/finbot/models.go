package finbot

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position is one watched holding. The list is defined once at startup and
// never mutated at runtime.
type Position struct {
	Symbol string  `json:"symbol"`
	Cost   float64 `json:"cost"`
	Shares float64 `json:"shares"`
}

// DefaultPositions is the built-in demo watch list.
var DefaultPositions = []Position{
	{Symbol: "2330.TW", Cost: 600, Shares: 100},
	{Symbol: "AAPL", Cost: 150, Shares: 10},
}

// ParsePositions decodes a JSON position list and validates each entry.
func ParsePositions(data []byte) ([]Position, error) {
	var positions []Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, WrapError(ErrCodeInvalidInput, "decode positions", err)
	}
	if len(positions) == 0 {
		return nil, NewError(ErrCodeInvalidInput, "position list is empty")
	}
	for i, p := range positions {
		if strings.TrimSpace(p.Symbol) == "" {
			return nil, NewError(ErrCodeInvalidInput, fmt.Sprintf("position %d: symbol is required", i))
		}
		if p.Cost <= 0 {
			return nil, NewError(ErrCodeInvalidInput, fmt.Sprintf("position %d: cost must be positive", i))
		}
	}
	return positions, nil
}

// PositionQuote is one position's per-request quote result.
type PositionQuote struct {
	Symbol        string   `json:"symbol"`
	Cost          float64  `json:"cost"`
	Shares        float64  `json:"shares"`
	Price         float64  `json:"price"`
	ProfitPercent *float64 `json:"profit_percent,omitempty"`
	Available     bool     `json:"available"`
}

// Report is the assembled result of one request-handling cycle.
type Report struct {
	GeneratedAt string          `json:"generated_at"`
	Positions   []PositionQuote `json:"positions"`
	Analysis    string          `json:"analysis"`
	Text        string          `json:"text"`
}
