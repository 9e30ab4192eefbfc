package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// Writer сохраняет таблицу сигналов в текстовый файл в каталоге Signals.
type Writer struct {
	dir string
	now func() time.Time
}

func NewWriter(cfg *config.Config) *Writer {
	return New(cfg.Storage.SignalsDir, time.Now)
}

func New(dir string, now func() time.Time) *Writer {
	return &Writer{dir: dir, now: now}
}

// Write пишет файл <пары>_<дата>_<HH-MM-SS>.txt и возвращает путь к нему.
func (w *Writer) Write(batch models.Batch, tz models.Timezone) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create signals dir")
	}

	stamp := w.now().Format("15-04-05")
	pairs := batch.Pairs()
	name := fmt.Sprintf("%s_%s_%s.txt",
		strings.Join(pairs, "_"),
		strings.ReplaceAll(batch.Date, "/", "_"),
		stamp,
	)
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create signals file")
	}
	defer f.Close()

	if err := Render(f, batch, tz, stamp, pairs); err != nil {
		return "", err
	}
	return path, nil
}

// Render пишет содержимое файла: шапку, таблицу и правила.
func Render(out io.Writer, batch models.Batch, tz models.Timezone, stamp string, pairs []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "╔════════✰═══════════╗\n")
	fmt.Fprintf(&b, "⏱️ TIMEZONE: %s\n", tz.Display)
	fmt.Fprintf(&b, "🇮🇳 @Growupbinarytrading\n")
	fmt.Fprintf(&b, "  Date: %s\n", batch.Date)
	fmt.Fprintf(&b, "  Time: %s\n", stamp)
	fmt.Fprintf(&b, "  Pairs: %s\n", strings.Join(pairs, ", "))
	fmt.Fprintf(&b, " ‼️ONLY FOR QUOTEX‼️\n")
	fmt.Fprintf(&b, "╚════════✰═══════════╝\n\n")

	table := tablewriter.NewWriter(&b)
	table.SetHeader([]string{"Quotex Pair", "Time", "Action"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, s := range batch.Signals {
		table.Append([]string{s.Pair, s.Time, actionText(s.Action)})
	}
	table.Render()

	b.WriteString("\n‼️ RULE ‼️ \n")
	for _, r := range models.DefaultSignalRules {
		b.WriteString(r + "\n")
	}
	b.WriteString("\n🔗 Join @GrowupBinaryTrading\n📱 Support: @Team_GrowUp\n")

	if _, err := io.WriteString(out, b.String()); err != nil {
		return errors.Wrap(err, "write signals file")
	}
	return nil
}

func actionText(a models.Action) string {
	switch a {
	case models.ActionCall:
		return "🔼 CALL"
	case models.ActionPut:
		return "🔽 PUT"
	}
	return string(a)
}
