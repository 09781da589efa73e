package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestTextFormatterFields(t *testing.T) {
	c := DebugConfig()
	c.TextFormat.DisableTimestamp = true
	tf := &textFormatter{TextFormatConfig: c.TextFormat}

	entry := logrus.WithFields(logrus.Fields{
		"ns":        "TEST",
		"score":     1.5,
		"nil value": nil,
		"slacks":    []float64{1, -2},
	})
	entry.Message = "scored host"

	out, err := tf.Format(entry)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{"TEST", "scored host", "score", "slacks", "nil value"} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %q in output:\n%s", want, s)
		}
	}
	if strings.Index(s, "nil value") > strings.Index(s, "slacks") {
		t.Fatal("expected sorted keys:\n", s)
	}
}

func TestTextFormatterFallsBackToJSON(t *testing.T) {
	tf := &textFormatter{TextFormatConfig: TextFormatConfig{DisableTimestamp: true}}
	tf.json = jsonFormatter{conf: JSONFormatConfig{DisableTimestamp: true}}

	l := logrus.New()
	l.SetOutput(&bytes.Buffer{})
	entry := logrus.NewEntry(l).WithField("ns", "TEST")
	entry.Message = "m"
	entry.Level = logrus.InfoLevel

	out, err := tf.Format(entry)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"level":"info","msg":"m","ns":"TEST"}`+"\n" {
		t.Fatal("unexpected output:", string(out))
	}
}
