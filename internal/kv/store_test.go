package kv

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "cartItems", []byte(`[1,2]`)))
	v, ok, err := s.Get(ctx, "cartItems")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[1,2]`, string(v))

	require.NoError(t, s.Set(ctx, "cartItems", []byte(`[]`)))
	v, _, err = s.Get(ctx, "cartItems")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(v))

	require.NoError(t, s.Delete(ctx, "cartItems"))
	_, ok, err = s.Get(ctx, "cartItems")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "never-set"))
}

func TestMemory_Contract(t *testing.T) {
	storeContract(t, NewMemory())
}

func TestSQLite_Contract(t *testing.T) {
	storeContract(t, createTestSQLite(t))
}

func TestSQLite_InMemoryPath(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	storeContract(t, s)
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'X'

	out, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	out[0] = 'Y'
	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Set(ctx, "k", []byte("v"))
			_, _, _ = m.Get(ctx, "k")
		}()
	}
	wg.Wait()

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(v))
}

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "lastOrder", []byte(`{"id":"o1"}`)))
	require.NoError(t, s.Close())

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, "lastOrder")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"o1"}`, string(v))
}

func TestOpenSQLite_Pragmas(t *testing.T) {
	s := createTestSQLite(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpenSQLite_InvalidPath(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "missing-dir", "x", "test.db"))
	assert.Error(t, err)
}

func TestSQLite_EntriesInWriteOrder(t *testing.T) {
	ctx := context.Background()
	s := createTestSQLite(t)

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	require.NoError(t, s.Set(ctx, "recentlyViewed", []byte(`["a"]`)))
	require.NoError(t, s.Set(ctx, "cartItems", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "recentlyViewed", []byte(`["b","a"]`)))

	entries, err = s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "cartItems", entries[0].Key)
	assert.Equal(t, "recentlyViewed", entries[1].Key)
	assert.Equal(t, `["b","a"]`, string(entries[1].Value))
	assert.Less(t, entries[0].UpdatedSeq, entries[1].UpdatedSeq)
}
