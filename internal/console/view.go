package console

import (
	"fmt"
	"strings"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/runner"

	"github.com/olekukonko/tablewriter"
)

const bannerText = `
 ==========================================================
|   GROWUP FUTURE SIGNALS                              v2  |
|   Quotex OTC signal relay                                |
 ==========================================================
`

func (c *Console) banner() {
	c.printf(c.success, "%s", bannerText)
}

func (c *Console) copyright() {
	c.printf(c.info, `
    *************************************************************
    Copyright 2024 Growup Binarytrading. All Rights Reserved.
    *************************************************************
    Telegram Channel : @GrowupBinaryTrading
    Bot Telegram Channel : @GrowupBinaryBot
    Support Team : @Team_GrowUp
    *************************************************************
    License: MIT License
    *************************************************************
`)
}

func (c *Console) showPairs() {
	c.printf(c.success, "Available Currency Pairs (OTC):\n")
	for _, p := range models.CurrencyPairs {
		c.printf(c.info, "%-15s", p.Code)
		c.printf(c.title, " --> %s\n", p.Name)
	}
	c.printf(c.success, "\nAvailable Stocks and Indices:\n")
	for _, p := range models.StocksAndIndices {
		c.printf(c.info, "%-15s", p.Code)
		c.printf(c.title, " --> %s\n", p.Name)
	}
}

func (c *Console) printSettings(s models.Settings) {
	tz := s.TZ()
	c.printf(c.title, "\nCurrent Default Settings:\n")
	c.printf(c.info, "Pairs: %s\nStart Time: %s\nEnd Time: %s\nDays: %s\nMode: %s\n"+
		"Min Percentage: %s\nFilter Value: %s\nSeparate: %s\nTimezone: %s (%s)\n\n",
		s.Pairs, s.StartTime, s.EndTime, s.Days, s.Mode,
		s.MinPercentage, s.FilterValue, s.Separate, tz.Name, tz.Display,
	)
}

func (c *Console) printAutoSettings(a models.AutoBotSettings) {
	tz := a.TZ()
	line := strings.Repeat("━", 41)
	c.printf(c.title, "\n📊 Current Auto Bot Settings:\n")
	c.printf(c.info, "%s\n", line)
	c.printf(c.title, "Trading Settings:\n")
	fmt.Fprintf(c.out, "• Pair(s): %s\n• Trading Hours: %s - %s\n• Days Ahead: %s\n• Mode: %s\n"+
		"• Min Percentage: %s%%\n• Filter: %s\n• Separate Trends: %s\n",
		a.Pairs, a.StartTime, a.EndTime, a.Days, a.Mode,
		a.MinPercentage, models.FilterName(a.Filter), models.YesNo(a.SeparateTrend),
	)
	c.printf(c.title, "\nBot Settings:\n")
	fmt.Fprintf(c.out, "• Send Signal: %g minute(s) before execution\n• Timezone: %s (%s)\n",
		a.Lead(), tz.Name, tz.Display)
	c.printf(c.info, "\n%s\n", line)
	c.printf(c.success, "✅ Bot is running and checking for signals...\n")
	c.printf(c.alert, "🔴 Stop Bot Press Ctrl + C\n")
}

func (c *Console) printTable(batch models.Batch, tz models.Timezone) {
	c.printf(c.title, "\n╔════════✰═══════════╗\n")
	c.printf(c.info, "TIMEZONE: %s (%s)\n", tz.Display, tz.Name)
	c.printf(c.title, "@Growupbinarytrading\n")
	c.printf(c.success, "  Date: %s\n  ONLY FOR QUOTEX\n", batch.Date)
	c.printf(c.title, "╚════════✰═══════════╝\n\n")

	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"Quotex Pair", "Time", "Action"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, s := range batch.Signals {
		table.Rich([]string{s.Pair, s.Time, string(s.Action)}, []tablewriter.Colors{{}, {}, actionColor(s.Action)})
	}
	table.Render()

	c.printf(c.alert, "\n RULE : IF ENTRY CANDEL GAPUP OR GAP DOWN TO MUCH THAN DON'T TAKE TRADE.\n")
}

func actionColor(a models.Action) tablewriter.Colors {
	switch a {
	case models.ActionCall:
		return tablewriter.Colors{tablewriter.FgGreenColor}
	case models.ActionPut:
		return tablewriter.Colors{tablewriter.FgRedColor}
	}
	return tablewriter.Colors{}
}

// reporter печатает события цикла автоотправки.
func (c *Console) reporter() runner.Reporter {
	return runner.ReporterFunc(func(e runner.Event) {
		switch e.Kind {
		case runner.EventIdle:
			c.printf(c.info, "\n[%s] Outside trading hours, waiting...\n", clock(e.At))
		case runner.EventNext:
			u := e.Upcoming
			c.printf(c.title, "\nNext Signal:\n")
			c.printf(c.info, "• Pair: %s\n• Time: %s\n• Action: %s\n• Minutes until execution: %d\n",
				u.Signal.Pair, u.Signal.Time, u.Signal.Action, int(u.MinutesUntil(e.At)))
		case runner.EventSent:
			c.printf(c.success, "\n✅ Signal sent for %s | Execute at: %s\n", e.Upcoming.Signal.Pair, e.Upcoming.Signal.Time)
		case runner.EventSendFailed:
			c.printf(c.alert, "\nError sending %s: %v\n", e.Upcoming.Signal.Pair, e.Err)
		case runner.EventFetchFailed:
			c.printf(c.alert, "\nError occurred: %v (attempt %d)\n", e.Err, e.Count)
		case runner.EventReset:
			c.printf(c.info, "\n[%s] New day, sent signals cleared\n", clock(e.At))
		}
	})
}

func clock(t time.Time) string {
	return t.Format("15:04:05")
}
