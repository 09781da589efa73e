package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kr/pretty"
	"github.com/logrusorgru/aurora"
	"github.com/sirupsen/logrus"
)

var baseTimestamp = time.Now()

type textFormatter struct {
	TextFormatConfig
	json jsonFormatter
}

func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// Format writes the namespace and message on one line, followed by one
// line per field. Output that isn't a color terminal gets JSON instead.
func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	isColored := (f.ForceColors || isColorTerminal(entry.Logger.Out)) && !f.DisableColors
	if !isColored {
		return f.json.Format(entry)
	}

	ns, _ := entry.Data["ns"].(string)

	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	data := make(logrus.Fields, len(entry.Data)+1)
	for k, v := range entry.Data {
		data[k] = v
	}

	if !f.DisableTimestamp {
		if !f.FullTimestamp {
			t := entry.Time.Sub(baseTimestamp) / time.Second
			data["time"] = fmt.Sprintf("%04d", int(t))
		} else {
			data["time"] = entry.Time.Format(f.timestampFormat())
		}
	}

	var levelColor aurora.Color
	switch entry.Level {
	case logrus.DebugLevel:
		levelColor = aurora.MagentaFg
	case logrus.WarnLevel:
		levelColor = aurora.BrownFg
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		levelColor = aurora.RedFg
	default:
		levelColor = aurora.CyanFg
	}
	nsColor := levelColor | aurora.BoldFm

	fmt.Fprintf(b, "%s%-20s %s\n", f.Indent, aurora.Colorize(ns, nsColor), entry.Message)

	for _, k := range f.sortKeys(data) {
		v := data[k]

		switch x := v.(type) {
		case string, bool, error, fmt.Stringer:
		case int, int8, int16, int32, int64:
		case uint, uint8, uint16, uint32, uint64:
		case float32, float64:
		default:
			v = pretty.Sprint(x)
		}

		if s, ok := v.(string); ok {
			parts := strings.Split(s, "\n")
			v = strings.Join(parts, "\n"+strings.Repeat(" ", 21))
		}

		fmt.Fprintf(b, "%s%-20s %v\n", f.Indent, aurora.Colorize(k, levelColor), v)
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func (f *textFormatter) timestampFormat() string {
	if f.TimestampFormat == "" {
		return defaultTimestampFormat
	}
	return f.TimestampFormat
}

func (f *textFormatter) sortKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		// "ns" (namespace) is printed on the message line.
		if k != "ns" {
			keys = append(keys, k)
		}
	}

	if !f.DisableSorting {
		sort.Strings(keys)
	}
	return keys
}
