package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	ModeNormal   = "normal"
	ModeBlackout = "blackout"

	FilterHuman       = "1"
	FilterFutureTrend = "2"
)

// Query: параметры запроса к источнику сигналов.
type Query struct {
	Pairs         string
	StartTime     string
	EndTime       string
	Days          string
	Mode          string
	MinPercentage string
	Filter        string
	Separate      string
}

func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("pairs", q.Pairs)
	v.Set("start_time", q.StartTime)
	v.Set("end_time", q.EndTime)
	v.Set("days", q.Days)
	v.Set("mode", q.Mode)
	v.Set("min_percentage", q.MinPercentage)
	v.Set("filter", q.Filter)
	v.Set("separate", q.Separate)
	return v
}

// Blackout: в режиме blackout источник не отдаёт направление, действие всегда N/A.
func (q Query) Blackout() bool {
	return strings.Contains(strings.ToLower(q.Mode), ModeBlackout)
}

// Settings: настройки ручного запроса сигналов (default_settings.json).
type Settings struct {
	Pairs            string `mapstructure:"pairs" json:"pairs"`
	StartTime        string `mapstructure:"start_time" json:"start_time"`
	EndTime          string `mapstructure:"end_time" json:"end_time"`
	Days             string `mapstructure:"days" json:"days"`
	Mode             string `mapstructure:"mode" json:"mode"`
	MinPercentage    string `mapstructure:"min_percentage" json:"min_percentage"`
	FilterValue      string `mapstructure:"filter_value" json:"filter_value"`
	Separate         string `mapstructure:"separate" json:"separate"`
	Timezone         string `mapstructure:"timezone" json:"timezone"`
	TelegramBotToken string `mapstructure:"telegram_bot_token" json:"telegram_bot_token"`
	TelegramChannel  string `mapstructure:"telegram_channel" json:"telegram_channel"`
}

func DefaultSettings() Settings {
	return Settings{
		Pairs:         "NZDCAD_otc",
		StartTime:     "00:00",
		EndTime:       "23:49",
		Days:          "3",
		Mode:          ModeNormal,
		MinPercentage: "100",
		FilterValue:   FilterFutureTrend,
		Separate:      "1",
		Timezone:      DefaultTimezoneID,
	}
}

func (s Settings) Query() Query {
	return Query{
		Pairs:         s.Pairs,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Days:          s.Days,
		Mode:          s.Mode,
		MinPercentage: s.MinPercentage,
		Filter:        s.FilterValue,
		Separate:      s.Separate,
	}
}

// ApplyQuery сохраняет параметры запроса как новые дефолты.
func (s *Settings) ApplyQuery(q Query) {
	s.Pairs = q.Pairs
	s.StartTime = q.StartTime
	s.EndTime = q.EndTime
	s.Days = q.Days
	s.Mode = q.Mode
	s.MinPercentage = q.MinPercentage
	s.FilterValue = q.Filter
	s.Separate = q.Separate
}

// AutoBotSettings: настройки автоотправки (auto_bot_settings.json), включая оформление сообщения.
type AutoBotSettings struct {
	Pairs         string `mapstructure:"pairs" json:"pairs"`
	StartTime     string `mapstructure:"start_time" json:"start_time"`
	EndTime       string `mapstructure:"end_time" json:"end_time"`
	Days          string `mapstructure:"days" json:"days"`
	Mode          string `mapstructure:"mode" json:"mode"`
	MinPercentage string `mapstructure:"min_percentage" json:"min_percentage"`
	Filter        string `mapstructure:"filter" json:"filter"`
	SeparateTrend string `mapstructure:"separate_trend" json:"separate_trend"`
	Timezone      string `mapstructure:"timezone" json:"timezone"`
	BotToken      string `mapstructure:"bot_token" json:"bot_token"`
	ChannelID     string `mapstructure:"channel_id" json:"channel_id"`
	SendBefore    string `mapstructure:"send_before" json:"send_before"`

	MessagePreset `mapstructure:",squash"`
}

func DefaultAutoBotSettings() AutoBotSettings {
	return AutoBotSettings{
		Pairs:         "NZDCAD_otc",
		StartTime:     "00:00",
		EndTime:       "23:49",
		Days:          "3",
		Mode:          ModeNormal,
		MinPercentage: "100",
		Filter:        FilterFutureTrend,
		SeparateTrend: "1",
		Timezone:      DefaultTimezoneID,
		SendBefore:    "1",
		MessagePreset: DefaultMessagePreset(),
	}
}

func (a AutoBotSettings) Query() Query {
	return Query{
		Pairs:         a.Pairs,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Days:          a.Days,
		Mode:          a.Mode,
		MinPercentage: a.MinPercentage,
		Filter:        a.Filter,
		Separate:      a.SeparateTrend,
	}
}

func (a *AutoBotSettings) ApplyQuery(q Query) {
	a.Pairs = q.Pairs
	a.StartTime = q.StartTime
	a.EndTime = q.EndTime
	a.Days = q.Days
	a.Mode = q.Mode
	a.MinPercentage = q.MinPercentage
	a.Filter = q.Filter
	a.SeparateTrend = q.Separate
}

// Lead: за сколько минут до исполнения отправлять сигнал. Некорректное значение -> 1.
func (a AutoBotSettings) Lead() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(a.SendBefore), 64)
	if err != nil || v <= 0 {
		return 1
	}
	return v
}

// TradingHours: окно автоотправки как смещения от полуночи.
func (a AutoBotSettings) TradingHours() (start, end time.Duration, err error) {
	if start, err = ParseClock(a.StartTime); err != nil {
		return 0, 0, err
	}
	if end, err = ParseClock(a.EndTime); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func (a AutoBotSettings) TZ() Timezone { return LookupTimezone(a.Timezone) }

func (s Settings) TZ() Timezone { return LookupTimezone(s.Timezone) }

func FilterName(v string) string {
	if v == FilterHuman {
		return "Human"
	}
	return "Future Trend"
}

func YesNo(v string) string {
	if v == "1" {
		return "Yes"
	}
	return "No"
}
