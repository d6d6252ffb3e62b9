// Package session persists the {portfolioId, resumeId} pair that lets a
// reloaded tab pick its draft back up. The backing store is a per-tab
// ephemeral key-value surface; concurrent tabs each carry their own and no
// cross-tab coordination is attempted.
package session

import (
	"encoding/json"
	"log"
	"sync"
)

// Key is the single slot the bridge uses in its key-value store.
const Key = "resumeparser.session"

// KV is the minimal key-value surface the bridge needs.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryKV is the in-process KV used per editor session.
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: map[string]string{}}
}

func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemoryKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *MemoryKV) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// State is the persisted draft identity.
type State struct {
	PortfolioID string `json:"portfolioId"`
	ResumeID    string `json:"resumeId"`
}

type Bridge struct {
	kv KV
}

func NewBridge(kv KV) *Bridge {
	if kv == nil {
		kv = NewMemoryKV()
	}
	return &Bridge{kv: kv}
}

// Read returns the persisted state, or nil when absent. A corrupt record is
// cleared and treated as no session.
func (b *Bridge) Read() *State {
	raw, ok := b.kv.Get(Key)
	if !ok || raw == "" {
		return nil
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("session: discarding corrupt record: %v", err)
		b.kv.Delete(Key)
		return nil
	}
	if state.PortfolioID == "" {
		return nil
	}
	return &state
}

// Write stores the pair when a portfolio id is present, otherwise clears.
func (b *Bridge) Write(portfolioID, resumeID string) {
	if portfolioID == "" {
		b.Clear()
		return
	}
	raw, err := json.Marshal(State{PortfolioID: portfolioID, ResumeID: resumeID})
	if err != nil {
		log.Printf("session: unable to encode record: %v", err)
		return
	}
	b.kv.Set(Key, string(raw))
}

// Clear unconditionally removes the record.
func (b *Bridge) Clear() {
	b.kv.Delete(Key)
}
