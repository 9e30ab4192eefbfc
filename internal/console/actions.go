package console

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"signal_bot/internal/models"
	source "signal_bot/internal/modules/source/service"
	telegram "signal_bot/internal/modules/telegram_bot/service"
	"signal_bot/pkg/logger"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// loadSettings: битый файл не фатален, работаем на дефолтах.
func (c *Console) loadSettings() models.Settings {
	s, err := c.settings.Load()
	if err != nil {
		logger.Warn("[CONSOLE] default settings: %v", err)
		c.Warn(fmt.Sprintf("Could not read settings, using defaults: %v", err))
	}
	return s
}

func (c *Console) loadAuto() models.AutoBotSettings {
	s, err := c.settings.LoadAuto()
	if err != nil {
		logger.Warn("[CONSOLE] auto bot settings: %v", err)
		c.Warn(fmt.Sprintf("Could not read auto bot settings, using defaults: %v", err))
	}
	return s
}

func (c *Console) fetchSignals(ctx context.Context) error {
	s := c.loadSettings()
	c.printSettings(s)

	useDefault, err := c.Confirm("Use default settings?")
	if err != nil {
		return err
	}

	q := s.Query()
	if !useDefault {
		c.printf(c.title, "\nEnter custom settings (press Enter to keep default value):\n")
		if err := c.editQuery(&q, "default"); err != nil {
			return err
		}
		save, err := c.Confirm("\nSave these settings as new defaults?")
		if err != nil {
			return err
		}
		if save {
			s.ApplyQuery(q)
			if err := c.settings.Save(s); err != nil {
				return errors.Wrap(err, "save default settings")
			}
			c.printf(c.success, "\nSettings saved as new defaults!\n")
		}
	}

	c.printf(c.title, "\nFetching signals...\n")
	if err := c.src.Online(ctx); err != nil {
		c.printf(c.alert, "\nError: No internet connection. Please check your network and try again.\n")
		return nil
	}

	tz := s.TZ()
	batch, err := c.src.Fetch(ctx, q, tz)
	switch {
	case errors.Is(err, source.ErrNoSignals):
		c.printf(c.alert, "No signals found that meet the criteria.\n")
		return nil
	case err != nil:
		c.printf(c.alert, "Error occurred while fetching signals: %v\n", err)
		return nil
	}

	c.printTable(batch, tz)
	path, err := c.log.Write(batch, tz)
	if err != nil {
		c.printf(c.alert, "\nError saving signals to file: %v\n", err)
		return nil
	}
	c.printf(c.success, "\nSignals saved to: %s\n", path)
	return nil
}

// editQuery спрашивает торговые параметры. label: "default" для разового запроса, "current" для правки настроек.
func (c *Console) editQuery(q *models.Query, label string) error {
	ask := func(name, current string) (string, error) {
		v, err := c.Ask(fmt.Sprintf("Enter %s (%s: %s): ", name, label, orNotSet(current)))
		if err != nil || v == "" {
			return current, err
		}
		return v, nil
	}

	var err error
	if q.Pairs, err = ask("pairs", q.Pairs); err != nil {
		return err
	}
	if q.StartTime, err = ask("start time", q.StartTime); err != nil {
		return err
	}
	if q.EndTime, err = ask("end time", q.EndTime); err != nil {
		return err
	}
	if q.Days, err = ask("number of days", q.Days); err != nil {
		return err
	}

	mode, err := ask("mode (Blackout/Normal)", q.Mode)
	if err != nil {
		return err
	}
	if mode = strings.ToLower(mode); mode == models.ModeBlackout || mode == models.ModeNormal {
		q.Mode = mode
	}

	if q.MinPercentage, err = ask("minimum percentage", q.MinPercentage); err != nil {
		return err
	}

	filter, err := ask("filter value (1 Human or 2 Future Trend)", q.Filter)
	if err != nil {
		return err
	}
	if filter == models.FilterHuman || filter == models.FilterFutureTrend {
		q.Filter = filter
	}

	sep, err := c.Ask(fmt.Sprintf("Separate results by trend? (1 for yes) (%s: %s): ", label, orNotSet(q.Separate)))
	if err != nil {
		return err
	}
	if sep == "0" || sep == "1" {
		q.Separate = sep
	}
	return nil
}

// askTimezone повторяет вопрос, пока не введут номер из списка. Пустой ввод оставляет текущую.
func (c *Console) askTimezone(current string) (string, error) {
	c.printf(c.title, "\nSelect Timezone:\n")
	for _, id := range models.TimezoneIDs() {
		tz := models.Timezones[id]
		c.printf(c.info, "%s. %s (%s)\n", id, tz.Name, tz.Display)
	}
	for {
		v, err := c.Ask(fmt.Sprintf("Enter timezone number (current: %s): ", orNotSet(current)))
		if err != nil {
			return current, err
		}
		if v == "" && models.ValidTimezone(current) {
			return current, nil
		}
		if models.ValidTimezone(v) {
			return v, nil
		}
		c.printf(c.alert, "Invalid timezone selection. Please try again.\n")
	}
}

func (c *Console) defaultSettings() error {
	s := c.loadSettings()
	c.printf(c.title, "\nEnter your preferred default settings:\n")

	q := s.Query()
	if err := c.editQuery(&q, "current"); err != nil {
		return err
	}
	s.ApplyQuery(q)

	tz, err := c.askTimezone(s.Timezone)
	if err != nil {
		return err
	}
	s.Timezone = tz

	if err := c.settings.Save(s); err != nil {
		return errors.Wrap(err, "save default settings")
	}
	c.printf(c.success, "\n✅ Settings saved successfully!\n")
	return nil
}

func (c *Console) configureAutoBot() error {
	a := c.loadAuto()
	c.printf(c.title, "Enter your preferred auto bot settings:\n")

	q := a.Query()
	if err := c.editQuery(&q, "current"); err != nil {
		return err
	}
	a.ApplyQuery(q)

	before, err := c.Ask(fmt.Sprintf("Enter minutes before to send signal (current: %s): ", orNotSet(a.SendBefore)))
	if err != nil {
		return err
	}
	if n, convErr := strconv.Atoi(before); convErr == nil && n > 0 {
		a.SendBefore = before
	}

	if a.Timezone, err = c.askTimezone(a.Timezone); err != nil {
		return err
	}

	c.printf(c.title, "\nTelegram Settings:\n")
	if a.BotToken, err = c.askKeep("Telegram Bot Token", a.BotToken); err != nil {
		return err
	}
	if a.ChannelID, err = c.askKeep("Telegram Channel ID/Username", a.ChannelID); err != nil {
		return err
	}

	if err := c.settings.SaveAuto(a); err != nil {
		return errors.Wrap(err, "save auto bot settings")
	}
	c.printf(c.success, "\nAuto bot settings saved successfully!\n")
	return nil
}

func (c *Console) customizeMessage() error {
	a := c.loadAuto()
	c.printf(c.title, "\nSignal Message Customization\n")
	c.printf(c.info, "%s\n", strings.Repeat("═", 50))

	names := lo.Keys(models.Presets)
	sort.Strings(names)
	c.printf(c.title, "Presets:\n")
	for _, name := range names {
		c.printf(c.info, "• %s: %s\n", name, models.Presets[name].Description)
	}
	choice, err := c.Ask("Apply a preset (name) or press Enter to edit manually: ")
	if err != nil {
		return err
	}

	if preset, ok := models.Presets[strings.ToLower(choice)]; ok {
		preset.Apply(&a.MessagePreset)
	} else {
		if choice != "" {
			c.printf(c.alert, "Unknown preset %q, editing manually.\n", choice)
		}
		if err := c.editPreset(&a.MessagePreset); err != nil {
			return err
		}
	}
	a.MessagePreset.Normalize()

	if err := c.settings.SaveAuto(a); err != nil {
		return errors.Wrap(err, "save message settings")
	}
	c.printf(c.success, "\n✅ Signal message customization saved successfully!\n")
	return nil
}

func (c *Console) editPreset(p *models.MessagePreset) error {
	var err error
	if p.AlertTitle, err = c.askKeep("alert title", p.AlertTitle); err != nil {
		return err
	}

	c.printf(c.info, "\n--- Signal Images ---\n")
	if p.CallImageURL, err = c.askKeep("CALL signal image URL", p.CallImageURL); err != nil {
		return err
	}
	if p.PutImageURL, err = c.askKeep("PUT signal image URL", p.PutImageURL); err != nil {
		return err
	}

	c.printf(c.info, "\n--- Signal Rules ---\n")
	c.printf(c.title, "Current rules:\n")
	for i, r := range p.SignalRules {
		c.printf(c.info, "%d. %s\n", i+1, r)
	}

	var rules []string
	for {
		rule, err := c.Ask(fmt.Sprintf("Rule %d (leave empty to finish): ", len(rules)+1))
		if err != nil {
			return err
		}
		if rule == "" {
			break
		}
		rules = append(rules, rule)
	}
	if len(rules) > 0 {
		p.SignalRules = rules
	}
	return nil
}

func (c *Console) resetAll() error {
	d, a := models.DefaultSettings(), models.DefaultAutoBotSettings()
	c.printf(c.info, "\n⚠️ Warning: This will reset ALL settings to default values!\n")
	c.printf(c.title, "\nDefault values will be:\n")
	c.printf(c.info, "Trading Settings:\n"+
		"• Pairs: %s\n• Start Time: %s\n• End Time: %s\n• Days: %s\n• Mode: %s\n"+
		"• Min Percentage: %s\n• Filter: %s (%s)\n• Separate Trend: %s\n• Timezone: %s (%s)\n\n"+
		"Signal Message Settings:\n"+
		"• Alert Title: %s\n• CALL Image URL: %s\n• PUT Image URL: %s\n• Signal Rules: Default rules\n",
		d.Pairs, d.StartTime, d.EndTime, d.Days, d.Mode,
		d.MinPercentage, d.FilterValue, models.FilterName(d.FilterValue), d.Separate, d.Timezone, d.TZ().Name,
		a.AlertTitle, a.CallImageURL, a.PutImageURL,
	)

	ok, err := c.Confirm("\nConfirm reset? This cannot be undone")
	if err != nil {
		return err
	}
	if !ok {
		c.printf(c.info, "\nReset cancelled.\n")
		return nil
	}
	if err := c.settings.Reset(); err != nil {
		return errors.Wrap(err, "reset settings")
	}
	c.printf(c.success, "\n✅ All settings have been reset to default values!\n")
	return nil
}

func (c *Console) changePassword(username string) error {
	old, err := c.Ask("Enter current password: ")
	if err != nil {
		return err
	}
	next, err := c.Ask("Enter new password: ")
	if err != nil {
		return err
	}
	again, err := c.Ask("Repeat new password: ")
	if err != nil {
		return err
	}
	if next == "" || next != again {
		c.printf(c.alert, "\nNew passwords do not match.\n")
		return nil
	}
	if err := c.auth.ChangePassword(username, old, next); err != nil {
		c.printf(c.alert, "\nCould not change password: %v\n", err)
		return nil
	}
	c.printf(c.success, "\n✅ Password changed.\n")
	return nil
}

// target: токен и канал берутся из дефолтных настроек, затем из конфига.
func (c *Console) target() telegram.Target {
	s, _ := c.settings.Load()
	t := telegram.Target{Token: s.TelegramBotToken, Channel: s.TelegramChannel}
	if !t.Valid() {
		return c.fallback
	}
	return t
}

func (c *Console) autoSend(ctx context.Context) error {
	target := c.target()
	if !target.Valid() {
		c.printf(c.alert, "\nError: Telegram settings not configured. Please set them in Auto Bot Settings first.\n")
		return nil
	}

	a := c.loadAuto()
	c.printAutoSettings(a)

	runCtx, stop := c.interrupt(ctx)
	defer stop()

	err := c.sender.Run(runCtx, a, target, c.reporter())
	if err != nil {
		return errors.Wrap(err, "auto send")
	}
	c.printf(c.info, "\nStopping Auto Signal Sender...\n")
	return nil
}
