package finbot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	reportTitle      = "🎓 **FinBot 教學版演示報告**\n\n"
	analysisHeading  = "\n🤖 **AI 數據摘要**：\n"
	reportDisclaimer = "\n\n_此為教學專案，數據僅供參考_"
)

// BuildReport runs one full report cycle: quote every position, compute
// profit/loss, ask the model for a summary, assemble the text. Every failure
// along the way degrades report content; the cycle itself always completes.
func (c *Core) BuildReport(ctx context.Context) *Report {
	var report strings.Builder
	var dataContext strings.Builder
	report.WriteString(reportTitle)

	quotes := make([]PositionQuote, 0, len(c.positions))
	for _, position := range c.positions {
		pq := PositionQuote{
			Symbol: position.Symbol,
			Cost:   position.Cost,
			Shares: position.Shares,
		}

		price, err := c.FetchQuote(ctx, position.Symbol)
		if err != nil {
			c.logger.Warn("quote fetch failed", "symbol", position.Symbol, "err", err)
			price = 0
		}

		// A zero price is indistinguishable from a failed fetch upstream;
		// both render as unavailable.
		if price > 0 {
			profit := profitPercent(price, position.Cost)
			icon := "🟢"
			if profit < 0 {
				icon = "🔴"
			}
			report.WriteString(fmt.Sprintf("%s %s: 現價 %.2f (損益 %.1f%%)\n", icon, position.Symbol, price, profit))
			dataContext.WriteString(fmt.Sprintf("%s: 現價%s, 成本%s\n",
				position.Symbol, formatNumber(price), formatNumber(position.Cost)))

			pq.Price = price
			pq.ProfitPercent = &profit
			pq.Available = true
		} else {
			report.WriteString(fmt.Sprintf("⚪ %s: 無法獲取報價\n", position.Symbol))
		}
		quotes = append(quotes, pq)
	}

	report.WriteString(analysisHeading)
	analysis, err := c.Analyze(ctx, dataContext.String())
	if err != nil {
		c.logger.Warn("analysis degraded", "err", err)
	}
	report.WriteString(analysis)
	report.WriteString(reportDisclaimer)

	return &Report{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Positions:   quotes,
		Analysis:    analysis,
		Text:        report.String(),
	}
}

func profitPercent(price, cost float64) float64 {
	p := decimal.NewFromFloat(price)
	c := decimal.NewFromFloat(cost)
	return p.Sub(c).Div(c).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
