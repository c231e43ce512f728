// Package logging configures the global zerolog logger. The MCP transport
// owns stdout, so everything human-readable goes to stderr and a rotating
// file next to the data directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "rollplan-mcp.log"

// Init sets up the global logger. Init runs before config.Load, so it reads
// LOGS_FOLDER itself after a best-effort .env load from the binary directory.
func Init(verbose bool) {
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
		_ = godotenv.Load(filepath.Join(exeDir, ".env"))
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	multi := zerolog.MultiLevelWriter(consoleWriter(), fileWriter(exeDir))
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()
}

func consoleWriter() io.Writer {
	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}
}

// fileWriter builds the rotating sink. A log directory that cannot be written
// is fatal: an MCP server without its file log is undiagnosable in the field.
func fileWriter(exeDir string) io.Writer {
	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		if exeDir != "" {
			logDir = filepath.Join(exeDir, "logs")
		} else {
			logDir = "logs"
		}
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create log directory %q: %v\n", logDir, err)
		os.Exit(1)
	}
	marker := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(marker, []byte("ok"), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: log directory %q is not writable: %v\n", logDir, err)
		os.Exit(1)
	}
	_ = os.Remove(marker)

	// A 35-day horizon recomputes on every tool call; plan runs are chatty, so
	// rotate on size and keep roughly a quarter of history.
	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    32, // megabytes
		MaxBackups: 16,
		MaxAge:     90, // days
		Compress:   true,
	}
}
