package monitoring

import (
	"sort"
	"strings"
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

const (
	EventTelemetryIngested   = "telemetry_ingested"
	EventTelemetryRejected   = "telemetry_rejected"
	EventSubscriberConnected = "subscriber_connected"
	EventSubscriberDropped   = "subscriber_dropped"
	EventInventoryImported   = "inventory_imported"
	EventScansPruned         = "scans_pruned"
	EventMQTTMessage         = "mqtt_message"
)

// Config holds monitoring configuration
type Config struct {
	// LogEvents writes every recorded event to the debug log
	LogEvents bool
}

// EventMetrics is the recorded state of one event name
type EventMetrics struct {
	Total    int64            `json:"total"`
	LastSeen time.Time        `json:"last_seen"`
	ByLabel  map[string]int64 `json:"by_label,omitempty"`
}

// Service keeps in-process event counters
type Service struct {
	config  Config
	started time.Time
	mu      sync.RWMutex
	events  map[string]*EventMetrics
}

// NewService creates a new monitoring service
func NewService(config Config) *Service {
	return &Service{
		config:  config,
		started: time.Now(),
		events:  make(map[string]*EventMetrics),
	}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.RecordEvents(eventName, 1, labels)
}

// RecordEvents records n occurrences of an event at once
func (s *Service) RecordEvents(eventName string, n int64, labels map[string]string) {
	ts := time.Now()

	s.mu.Lock()
	m, ok := s.events[eventName]
	if !ok {
		m = &EventMetrics{ByLabel: map[string]int64{}}
		s.events[eventName] = m
	}
	m.Total += n
	m.LastSeen = ts
	for k, v := range labels {
		m.ByLabel[k+"="+v] += n
	}
	s.mu.Unlock()

	if s.config.LogEvents {
		nuts.L.Debugf("[Monitoring] Event %s x%d recorded with labels: %s", eventName, n, formatLabels(labels))
	}
}

// GetEventMetrics returns a copy of the counters for one event
func (s *Service) GetEventMetrics(eventName string) EventMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.events[eventName]
	if !ok {
		return EventMetrics{}
	}
	return copyMetrics(m)
}

// Snapshot returns a copy of all counters
func (s *Service) Snapshot() map[string]EventMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]EventMetrics, len(s.events))
	for name, m := range s.events {
		out[name] = copyMetrics(m)
	}
	return out
}

// Uptime since the service was created
func (s *Service) Uptime() time.Duration {
	return time.Since(s.started)
}

func copyMetrics(m *EventMetrics) EventMetrics {
	c := EventMetrics{Total: m.Total, LastSeen: m.LastSeen, ByLabel: make(map[string]int64, len(m.ByLabel))}
	for k, v := range m.ByLabel {
		c.ByLabel[k] = v
	}
	return c
}

func formatLabels(labels map[string]string) string {
	parts := make([]string, 0, len(labels))
	for k, v := range labels {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
