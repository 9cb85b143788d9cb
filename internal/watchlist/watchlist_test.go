package watchlist

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newList(t *testing.T) *List {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "data", "watchlist.txt"))
}

func TestLoad_MissingFile(t *testing.T) {
	zips, err := newList(t).Load()
	require.NoError(t, err)
	assert.Empty(t, zips)
}

func TestAddRemove(t *testing.T) {
	l := newList(t)

	added, err := l.Add(" 02139 ")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = l.Add("10001")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = l.Add("02139")
	require.NoError(t, err)
	assert.False(t, added, "duplicate")

	zips, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"02139", "10001"}, zips)

	removed, err := l.Remove("02139")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = l.Remove("02139")
	require.NoError(t, err)
	assert.False(t, removed)

	zips, err = l.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10001"}, zips)
}

func TestAdd_Invalid(t *testing.T) {
	l := newList(t)
	for _, zip := range []string{"", "  ", "100 01"} {
		_, err := l.Add(zip)
		assert.ErrorIs(t, err, ErrInvalidZip, zip)
	}
	_, err := l.Remove("")
	assert.ErrorIs(t, err, ErrInvalidZip)
}

func TestLoad_SkipsBlankAndComments(t *testing.T) {
	l := newList(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(l.Path()), 0o755))
	require.NoError(t, os.WriteFile(l.Path(), []byte("# watched\n\n 73301\n94105\n"), 0o644))

	zips, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"73301", "94105"}, zips)
}

func TestAdd_Concurrent(t *testing.T) {
	l := newList(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Add("10001")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	zips, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10001"}, zips)
}
