package testutils

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/minkbrowser/mink/logger"
)

func AssertEqual(t *testing.T, got, exp interface{}) {
	t.Helper()
	if !reflect.DeepEqual(exp, got) {
		t.Fatalf("expected\n%v\n got \n%v", exp, got)
	}
}

// CapturedLogs redirects the warning logger to a buffer until one of
// its assertion methods is called.
type CapturedLogs struct {
	buf  *bytes.Buffer
	orig io.Writer
}

func CaptureLogs() *CapturedLogs {
	c := CapturedLogs{buf: new(bytes.Buffer), orig: logger.WarningLogger.Writer()}
	logger.WarningLogger.SetOutput(c.buf)
	return &c
}

func (c *CapturedLogs) restore() { logger.WarningLogger.SetOutput(c.orig) }

// Logs restores the logger and returns the captured warning lines.
func (c *CapturedLogs) Logs() []string {
	c.restore()
	s := strings.TrimSuffix(c.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (c *CapturedLogs) AssertNoLogs(t *testing.T) {
	t.Helper()
	if logs := c.Logs(); len(logs) != 0 {
		t.Fatalf("expected no logs, got (%d): \n %s", len(logs), strings.Join(logs, "\n"))
	}
}
