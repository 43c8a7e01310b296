package clipboard

import (
	"strings"
	"sync"
	"time"
)

// DefaultPollInterval matches the poll cadence the desktop app has always used.
const DefaultPollInterval = 500 * time.Millisecond

// Watcher polls the system clipboard and invokes a callback when new text
// appears. Text containing an ignore keyword is dropped before the callback
// ever sees it, so downstream consumers never re-check sensitivity.
//
// Start and Stop are idempotent and safe for concurrent use.
type Watcher struct {
	interval       time.Duration
	ignoreKeywords []string
	onText         func(string)
	read           func() (string, error)

	mu       sync.Mutex
	stop     chan struct{}
	lastText string
}

// NewWatcher creates a watcher that reports new clipboard text to onText.
func NewWatcher(interval time.Duration, ignoreKeywords []string, onText func(string)) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		interval:       interval,
		ignoreKeywords: ignoreKeywords,
		onText:         onText,
		read:           Read,
	}
}

// Start begins polling. Starting a running watcher is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stop != nil {
		return
	}

	// Baseline read so text already on the clipboard is not reported.
	if text, err := w.read(); err == nil {
		w.lastText = text
	}

	w.stop = make(chan struct{})
	go w.poll(w.stop)
}

// Stop halts polling. Stopping a stopped watcher is a no-op.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stop == nil {
		return
	}
	close(w.stop)
	w.stop = nil
}

// Running reports whether the watcher is currently polling.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stop != nil
}

func (w *Watcher) poll(stop chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watcher) check() {
	text, err := w.read()
	if err != nil {
		return
	}

	w.mu.Lock()
	changed := text != "" && text != w.lastText
	if changed {
		w.lastText = text
	}
	w.mu.Unlock()

	if !changed || w.containsIgnoredKeyword(text) {
		return
	}

	w.onText(text)
}

func (w *Watcher) containsIgnoredKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range w.ignoreKeywords {
		if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
