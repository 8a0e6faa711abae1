// ABOUTME: Structured debug logging to a per-run JSON file under the XDG state dir.
// ABOUTME: Logs are discarded unless debug is enabled.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxLogFiles bounds how many per-run log files are kept.
const MaxLogFiles = 50

// Logger is the process-wide logger. It discards until Initialize enables it.
var Logger = slog.New(slog.DiscardHandler)

// Initialize sets up Logger. With debug off every record is dropped.
// The returned closer releases the log file.
func Initialize(debug bool, logDir string) (io.Closer, error) {
	if !debug {
		Logger = slog.New(slog.DiscardHandler)
		return io.NopCloser(nil), nil
	}

	if logDir == "" {
		dir, err := DefaultLogDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get log directory: %w", err)
		}
		logDir = dir
	}
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := rotateLogs(logDir, MaxLogFiles); err != nil {
		// Rotation failure shouldn't prevent logging
		fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
	}

	path := filepath.Join(logDir, uuid.New().String()+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	Logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Logger.Info("debug logging initialized", "log_file", path)
	return f, nil
}

// rotateLogs removes the oldest .log files so a new one fits under max.
func rotateLogs(logDir string, max int) error {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	var files []logFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{filepath.Join(logDir, e.Name()), info.ModTime()})
	}
	if len(files) < max {
		return nil
	}

	slices.SortFunc(files, func(a, b logFile) int { return a.modTime.Compare(b.modTime) })
	for _, f := range files[:len(files)-max+1] {
		if err := os.Remove(f.path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to delete old log file %s: %v\n", f.path, err)
		}
	}
	return nil
}

// DefaultLogDir returns the OS-specific log directory.
func DefaultLogDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Logs", "trainer"), nil
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		if local == "" {
			local = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(local, "trainer", "logs"), nil
	default:
		state := os.Getenv("XDG_STATE_HOME")
		if state == "" {
			state = filepath.Join(home, ".local", "state")
		}
		return filepath.Join(state, "trainer"), nil
	}
}
