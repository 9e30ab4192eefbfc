package models

const (
	DefaultAlertTitle   = "UPCOMING SIGNAL ALERT"
	DefaultCallImageURL = "https://i.ibb.co/Q8L6mk5/Growth.png"
	DefaultPutImageURL  = "https://i.ibb.co/1vsFM2N/Growth-1.png"

	// фиксированные поля, пользователь их не меняет
	FixedCallEmoji       = "🟢"
	FixedPutEmoji        = "🔴"
	FixedMartingaleSteps = "1 Step"
	FixedBotSignature    = "Generated by GrowUp Future Signals"
)

var DefaultSignalRules = []string{
	"If the previous candle is weak, the signal should be avoided",
	"Follow Trend",
}

// MessagePreset: оформление сообщения о сигнале в канале.
type MessagePreset struct {
	AlertTitle      string   `mapstructure:"alert_title" json:"alert_title"`
	CallImageURL    string   `mapstructure:"call_image_url" json:"call_image_url"`
	PutImageURL     string   `mapstructure:"put_image_url" json:"put_image_url"`
	CallEmoji       string   `mapstructure:"call_emoji" json:"call_emoji"`
	PutEmoji        string   `mapstructure:"put_emoji" json:"put_emoji"`
	MartingaleSteps string   `mapstructure:"martingale_steps" json:"martingale_steps"`
	BotSignature    string   `mapstructure:"bot_signature" json:"bot_signature"`
	SignalRules     []string `mapstructure:"signal_rules" json:"signal_rules"`
}

func DefaultMessagePreset() MessagePreset {
	return MessagePreset{
		AlertTitle:      DefaultAlertTitle,
		CallImageURL:    DefaultCallImageURL,
		PutImageURL:     DefaultPutImageURL,
		CallEmoji:       FixedCallEmoji,
		PutEmoji:        FixedPutEmoji,
		MartingaleSteps: FixedMartingaleSteps,
		BotSignature:    FixedBotSignature,
		SignalRules:     append([]string(nil), DefaultSignalRules...),
	}
}

// Normalize дозаполняет пустые поля дефолтами и возвращает фиксированные поля на место.
func (p *MessagePreset) Normalize() {
	if p.AlertTitle == "" {
		p.AlertTitle = DefaultAlertTitle
	}
	if p.CallImageURL == "" {
		p.CallImageURL = DefaultCallImageURL
	}
	if p.PutImageURL == "" {
		p.PutImageURL = DefaultPutImageURL
	}
	if len(p.SignalRules) == 0 {
		p.SignalRules = append([]string(nil), DefaultSignalRules...)
	}
	p.CallEmoji = FixedCallEmoji
	p.PutEmoji = FixedPutEmoji
	p.MartingaleSteps = FixedMartingaleSteps
	p.BotSignature = FixedBotSignature
}

// ImageFor возвращает картинку и эмодзи для действия; для N/A: пустые строки.
func (p MessagePreset) ImageFor(a Action) (image, emoji string) {
	switch a {
	case ActionCall:
		return p.CallImageURL, p.CallEmoji
	case ActionPut:
		return p.PutImageURL, p.PutEmoji
	}
	return "", ""
}

type Preset struct {
	Name        string
	Description string
	Apply       func(p *MessagePreset)
}

var Presets = map[string]Preset{
	"classic": {
		Name:        "Classic",
		Description: "Default title, images and rules",
		Apply: func(p *MessagePreset) {
			*p = DefaultMessagePreset()
		},
	},
	"minimal": {
		Name:        "Minimal",
		Description: "Short title, single rule",
		Apply: func(p *MessagePreset) {
			p.AlertTitle = "SIGNAL"
			p.SignalRules = []string{"Follow Trend"}
		},
	},
	"strict": {
		Name:        "Strict",
		Description: "Extra rules for volatile sessions",
		Apply: func(p *MessagePreset) {
			p.AlertTitle = "UPCOMING SIGNAL ALERT"
			p.SignalRules = []string{
				"If the previous candle is weak, the signal should be avoided",
				"Follow Trend",
				"If entry candle gaps up or down too much, don't take the trade",
			}
		},
	},
}
