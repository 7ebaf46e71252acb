package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no probe has been recorded for a city.
	ErrNotFound = errors.New("no probe recorded for city")
)

// Probe is the outcome of one canary decoration.
type Probe struct {
	City      string        `json:"city"`
	State     string        `json:"state"`
	Kind      string        `json:"kind,omitempty"`
	Resolved  string        `json:"resolved,omitempty"`
	TempC     *int          `json:"tempC,omitempty"`
	Condition string        `json:"condition,omitempty"`
	Timestamp time.Time     `json:"timestamp"` // always UTC
	Duration  time.Duration `json:"durationNs"`
}

// ProbeHistory holds a time-ordered list of probes for a city.
type ProbeHistory struct {
	Probes []Probe
}

// MemoryStore is a concurrency-safe in-memory probe journal.
type MemoryStore struct {
	mu sync.RWMutex

	// key: normalized city, value: history
	data map[string]*ProbeHistory

	// retention configuration
	maxHistory int           // max number of probes per city
	maxAge     time.Duration // optional max age for probes
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*ProbeHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

func key(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// SaveProbe appends a probe for its city and enforces retention.
func (s *MemoryStore) SaveProbe(p Probe) {
	k := key(p.City)

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[k]
	if !ok {
		history = &ProbeHistory{}
		s.data[k] = history
	}

	history.Probes = append(history.Probes, p)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Probes) > s.maxHistory {
		over := len(history.Probes) - s.maxHistory
		history.Probes = history.Probes[over:]
	}

	// Enforce retention by age; the newest probe is always kept.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Probes)-1; i++ {
			if !history.Probes[i].Timestamp.Before(cutoff) {
				break
			}
		}
		history.Probes = history.Probes[i:]
	}
}

// GetLatest returns the most recent probe for a city.
func (s *MemoryStore) GetLatest(city string) (Probe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key(city)]
	if !ok || len(history.Probes) == 0 {
		return Probe{}, ErrNotFound
	}
	return history.Probes[len(history.Probes)-1], nil
}

// GetHistory returns all retained probes for a city, oldest first.
func (s *MemoryStore) GetHistory(city string) ([]Probe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key(city)]
	if !ok || len(history.Probes) == 0 {
		return nil, ErrNotFound
	}

	out := make([]Probe, len(history.Probes))
	copy(out, history.Probes)
	return out, nil
}

// Latest returns the most recent probe of every city, ordered by city.
func (s *MemoryStore) Latest() []Probe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Probe, 0, len(s.data))
	for _, history := range s.data {
		if len(history.Probes) > 0 {
			out = append(out, history.Probes[len(history.Probes)-1])
		}
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i].City) < key(out[j].City) })
	return out
}
