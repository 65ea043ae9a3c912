package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// historyStorageKey is the single key under which the history list is persisted.
const historyStorageKey = "edweather-search-history"

// maxHistoryItems bounds the recent-searches list.
const maxHistoryItems = 10

// SearchHistory is the list of recently selected cities, newest first. It is loaded
// once at startup and mutated only through Add and Clear, each of which persists the
// result to the injected KeyValueStore.
type SearchHistory struct {
	mu     sync.Mutex
	items  []SearchHistoryItem
	store  KeyValueStore
	logger *slog.Logger
	now    func() time.Time
}

func NewSearchHistory(store KeyValueStore, logger *slog.Logger) *SearchHistory {
	return &SearchHistory{
		items:  []SearchHistoryItem{},
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Load replaces the in-memory list with the persisted one. A missing key, a storage
// failure, or an unparseable value all leave the history empty; the latter two are logged.
func (h *SearchHistory) Load(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = []SearchHistoryItem{}

	raw, err := h.store.Get(ctx, historyStorageKey)
	if errors.Is(err, ErrKeyNotFound) {
		h.logger.Debug("no saved search history")
		historyOperationsTotal.WithLabelValues("load", "empty").Inc()
		return
	}
	if err != nil {
		h.logger.Warn("failed to read search history from storage", "error", err)
		historyOperationsTotal.WithLabelValues("load", "error").Inc()
		return
	}

	var items []SearchHistoryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		h.logger.Warn("failed to parse search history from storage", "error", err)
		historyOperationsTotal.WithLabelValues("load", "error").Inc()
		return
	}
	if len(items) > maxHistoryItems {
		items = items[:maxHistoryItems]
	}
	if items != nil {
		h.items = items
	}
	h.logger.Debug("search history loaded", "items", len(h.items))
	historyOperationsTotal.WithLabelValues("load", "ok").Inc()
}

// Add records a selection. Any entry whose label matches city case-insensitively is
// dropped, the new entry goes to the front, and the list is cut to maxHistoryItems.
// The in-memory list is updated even when persisting fails.
func (h *SearchHistory) Add(ctx context.Context, city string, lat, lon float64) (SearchHistoryItem, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	item := SearchHistoryItem{
		City:      city,
		Latitude:  lat,
		Longitude: lon,
		Timestamp: h.now().UnixMilli(),
	}

	key := cityKey(city)
	updated := make([]SearchHistoryItem, 0, maxHistoryItems)
	updated = append(updated, item)
	for _, existing := range h.items {
		if len(updated) == maxHistoryItems {
			break
		}
		if cityKey(existing.City) == key {
			continue
		}
		updated = append(updated, existing)
	}
	h.items = updated

	if err := h.persist(ctx); err != nil {
		historyOperationsTotal.WithLabelValues("add", "error").Inc()
		return item, err
	}
	historyOperationsTotal.WithLabelValues("add", "ok").Inc()
	return item, nil
}

// Clear empties the list and removes the persisted key.
func (h *SearchHistory) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = []SearchHistoryItem{}
	if err := h.store.Delete(ctx, historyStorageKey); err != nil {
		historyOperationsTotal.WithLabelValues("clear", "error").Inc()
		return fmt.Errorf("could not delete search history: %w", err)
	}
	historyOperationsTotal.WithLabelValues("clear", "ok").Inc()
	return nil
}

// Items returns a copy of the current list.
func (h *SearchHistory) Items() []SearchHistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]SearchHistoryItem, len(h.items))
	copy(out, h.items)
	return out
}

func (h *SearchHistory) persist(ctx context.Context) error {
	data, err := json.Marshal(h.items)
	if err != nil {
		return fmt.Errorf("could not encode search history: %w", err)
	}
	if err := h.store.Set(ctx, historyStorageKey, string(data)); err != nil {
		return fmt.Errorf("could not save search history: %w", err)
	}
	return nil
}
