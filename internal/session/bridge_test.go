package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	b := NewBridge(kv)

	assert.Nil(t, b.Read())

	b.Write("p1", "r1")
	state := b.Read()
	require.NotNil(t, state)
	assert.Equal(t, "p1", state.PortfolioID)
	assert.Equal(t, "r1", state.ResumeID)

	b.Clear()
	assert.Nil(t, b.Read())
}

func TestBridgeWriteWithoutPortfolioClears(t *testing.T) {
	kv := NewMemoryKV()
	b := NewBridge(kv)

	b.Write("p1", "r1")
	b.Write("", "r1")

	assert.Nil(t, b.Read())
	_, ok := kv.Get(Key)
	assert.False(t, ok)
}

func TestBridgeDiscardsCorruptRecord(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set(Key, "{not json")
	b := NewBridge(kv)

	assert.Nil(t, b.Read())
	// the corrupt record was removed so the next read is clean too
	_, ok := kv.Get(Key)
	assert.False(t, ok)
}

func TestBridgeIgnoresRecordWithoutPortfolioID(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set(Key, `{"portfolioId":"","resumeId":"r1"}`)
	b := NewBridge(kv)

	assert.Nil(t, b.Read())
}

func TestBridgeNilKVDefaultsToMemory(t *testing.T) {
	b := NewBridge(nil)
	b.Write("p1", "")
	state := b.Read()
	require.NotNil(t, state)
	assert.Equal(t, "p1", state.PortfolioID)
}
