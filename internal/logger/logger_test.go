package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter_Basic(t *testing.T) {
	l := logrus.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetFormatter(PlainFormatter{})

	l.WithField("component", "rpc").WithField("method", "tools/list").Info("request")

	line := buf.String()
	if !strings.Contains(line, "[INFO]") {
		t.Fatalf("formatted line missing level: %q", line)
	}
	if !strings.Contains(line, "[rpc]") {
		t.Fatalf("formatted line missing component: %q", line)
	}
	if !strings.Contains(line, "method=tools/list") {
		t.Fatalf("formatted line missing fields: %q", line)
	}
}

func TestPlainFormatter_SortsFields(t *testing.T) {
	entry := logrus.NewEntry(logrus.New())
	entry.Data = Fields{"b": 2, "a": 1}
	out, err := (PlainFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	line := string(out)
	if strings.Index(line, "a=1") > strings.Index(line, "b=2") {
		t.Fatalf("fields not sorted: %q", line)
	}
}

func TestSetupFile_CreatesDirectory(t *testing.T) {
	prev := Root()
	defer SetRoot(prev)
	SetRoot(logrus.New())

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "server.log")
	closer, resolved, err := SetupFile(path)
	if err != nil {
		t.Fatalf("SetupFile: %v", err)
	}
	defer closer.Close()
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	Infof("hello %s", "world")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "hello world") {
		t.Fatalf("log file missing message: %q", string(data))
	}
}

func TestSetLevel_Unknown(t *testing.T) {
	prev := Root()
	defer SetRoot(prev)
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	SetRoot(l)

	SetLevel("not-a-level")
	if l.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level changed on bad input: %v", l.GetLevel())
	}
	SetLevel("debug")
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", l.GetLevel())
	}
}
