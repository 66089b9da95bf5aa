package config

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/shelflog/shelflog-server/internal/logger"
)

// WatchLogLevel watches the .env file and applies LOG_LEVEL changes to
// the logger at runtime, so verbosity can be turned up on a running
// server without restarting it. Blocks until ctx is canceled.
func WatchLogLevel(ctx context.Context, envFile string, log *logger.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: most editors replace the file
	// on save, which would drop a watch on the file itself.
	dir := filepath.Dir(envFile)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(envFile)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", envFile, err)
	}

	log.Debug("watching env file for log level changes", "path", target)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			changed, err := filepath.Abs(event.Name)
			if err != nil || changed != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			applyLogLevel(envFile, log)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("env file watcher error", "error", err)
		}
	}
}

// applyLogLevel re-reads LOG_LEVEL from the env file and updates the
// logger if the value changed.
func applyLogLevel(envFile string, log *logger.Logger) {
	levelStr, ok := readEnvValue(envFile, "LOG_LEVEL")
	if !ok {
		return
	}

	level := logger.ParseLevel(levelStr)
	if level == log.Level() {
		return
	}

	log.SetLevel(level)
	log.Info("log level changed", "level", levelStr)
}

// readEnvValue scans a .env file for a single key.
func readEnvValue(path, key string) (string, bool) {
	file, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != key {
			continue
		}
		return strings.Trim(strings.TrimSpace(parts[1]), `"'`), true
	}
	return "", false
}
