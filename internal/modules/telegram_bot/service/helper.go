package service

import (
	"fmt"
	"html"
	"strings"

	"signal_bot/internal/models"
)

// FormatSignal собирает HTML-подпись сообщения о сигнале.
func FormatSignal(sig models.Signal, p models.MessagePreset, tz models.Timezone, lead float64) string {
	_, emoji := p.ImageFor(sig.Action)

	var rules strings.Builder
	for _, r := range p.SignalRules {
		rules.WriteString(esc(r))
		rules.WriteString("\n")
	}

	return fmt.Sprintf(
		"\n%s <b>%s</b> %s\n\n"+
			"> <b>⏰ Execution Time: %s (%s)</b>\n"+
			"> <b>📊 Pair: %s</b>\n"+
			"> <b>🔃 Auto Martingle: %s</b>\n"+
			"> <b>📈 Action: %s</b>\n\n"+
			"⚠️ <i>Get ready! Signal will execute in %d minutes!</i>\n"+
			"‼️ RULE ‼️ \n"+
			"%s\n"+
			"<b>🤖 %s</b>",
		emoji, esc(p.AlertTitle), emoji,
		sig.Time, tz.Display,
		esc(sig.Pair),
		esc(p.MartingaleSteps),
		sig.Action,
		int(lead),
		rules.String(),
		esc(p.BotSignature),
	)
}

func esc(s string) string { return html.EscapeString(s) }
