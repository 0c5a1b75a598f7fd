package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/istra-dns/istra/pkg/policy"
)

// WatchBypassFile loads path once, calls onChange with the parsed
// policy, and then watches path with fsnotify, reparsing and calling
// onChange again on every write. It runs until stop is closed.
//
// This is separate from viper's own config-file watch: the main
// Config is loaded once at startup (a resolver typically restarts to
// pick up structural changes like MaxCacheSize), but the bypass
// expression is exactly the kind of small, frequently-tuned policy
// knob an operator wants to edit and have take effect without a
// restart — so it gets its own direct fsnotify watch instead.
func WatchBypassFile(path string, stop <-chan struct{}, onChange func(*policy.Bypass, error)) error {
	load := func() {
		b, err := loadBypass(path)
		onChange(b, err)
	}
	load()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: fsnotify: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					load()
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

func loadBypass(path string) (*policy.Bypass, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read bypass file: %w", err)
	}
	expr := strings.TrimSpace(string(b))
	return policy.New(expr)
}
