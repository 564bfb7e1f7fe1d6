// Package testutil builds application containers for package tests.
package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/deppfellow/projects-api/internal/config"
	"github.com/deppfellow/projects-api/internal/logger"
	"github.com/deppfellow/projects-api/internal/server"
	"github.com/stretchr/testify/require"
)

// NewServer returns a Server built from DefaultConfig with debug JSON logs
// written to out. mutate, when non-nil, adjusts the config first.
func NewServer(t *testing.T, out io.Writer, mutate func(*config.Config)) *server.Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Primary.Env = "test"
	cfg.Observability.Environment = "test"
	cfg.Observability.Logging.Level = "debug"
	if mutate != nil {
		mutate(cfg)
	}

	if out == nil {
		out = io.Discard
	}

	log := logger.NewLogger(cfg.Observability, nil, out)

	s, err := server.New(cfg, &log, nil)
	require.NoError(t, err)

	return s
}

// LogLines decodes every JSON log line written to buf.
func LogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())

	return lines
}

// LinesWithMessage filters lines by their "message" field.
func LinesWithMessage(lines []map[string]any, msg string) []map[string]any {
	var out []map[string]any
	for _, l := range lines {
		if l["message"] == msg {
			out = append(out, l)
		}
	}
	return out
}
