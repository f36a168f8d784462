package notifier

import (
	"fmt"
	"strings"
	"time"

	"StockCompass/internal/updater"
)

// FormatUpdateReport formats a pipeline run summary into a Telegram message.
func FormatUpdateReport(summary *updater.RunSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>行情更新完成</b> | %s\n\n", summary.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("触发方式: %s\n", summary.Trigger))
	b.WriteString(fmt.Sprintf("新增K线: %d 根\n", summary.BarsAdded))

	succeeded := len(summary.Results) - summary.Failed
	b.WriteString(fmt.Sprintf("标的: %d 成功 | %d 失败\n", succeeded, summary.Failed))

	if summary.Failed > 0 {
		b.WriteString("\n⚠️ <b>失败明细:</b>\n")
		for _, res := range summary.Results {
			if res.Outcome == updater.OutcomeFailed {
				b.WriteString(fmt.Sprintf("  %s: %s\n", res.Symbol, res.Error))
			}
		}
	}

	elapsed := summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second)
	b.WriteString(fmt.Sprintf("\n耗时: %v", elapsed))
	return b.String()
}
