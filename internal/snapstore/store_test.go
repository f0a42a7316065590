package snapstore

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCopiesData(t *testing.T) {
	s := New()
	buf := []byte(`{"nodes":[]}`)

	entry := s.Save("checkpoint", buf)
	buf[0] = 'X'

	got, ok := s.Get(entry.ID)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"nodes":[]}`), got, "stored bytes are independent of the caller's buffer")
}

func TestGetUnknownID(t *testing.T) {
	s := New()
	_, ok := s.Get(uuid.New())
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	s := New()
	entry := s.Save("doomed", []byte("{}"))

	assert.True(t, s.Delete(entry.ID))
	assert.False(t, s.Delete(entry.ID), "second delete reports absence")
	assert.Equal(t, 0, s.Len())
}

func TestListOldestFirst(t *testing.T) {
	s := New()
	first := s.Save("first", []byte("1"))
	second := s.Save("second", []byte("2"))
	// Force distinct timestamps regardless of clock resolution.
	s.entries[second.ID].CreatedAt = first.CreatedAt.Add(1)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
}
