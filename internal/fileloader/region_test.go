package fileloader

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seekCloser struct {
	*bytes.Reader
}

func (seekCloser) Close() error { return nil }

func newTestRegion(t *testing.T, data string, offset, size int64) *Region {
	t.Helper()
	r, err := NewRegion(seekCloser{bytes.NewReader([]byte(data))}, offset, size)
	require.NoError(t, err)
	return r
}

func TestRegion_ReadClampsToWindow(t *testing.T) {
	r := newTestRegion(t, "0123456789", 2, 4)

	buf := make([]byte, 16)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "2345", string(buf[:n]))

	_, err = r.Read(buf)
	assert.Equal(t, io.EOF, err)
}

func TestRegion_ReadAll(t *testing.T) {
	r := newTestRegion(t, "0123456789", 2, 4)

	data, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "2345", string(data))

	// Exhausted region keeps returning nothing.
	data, err = r.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRegion_ReadAllAfterSeek(t *testing.T) {
	r := newTestRegion(t, "0123456789", 2, 4)

	pos, err := r.Seek(2, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos)

	data, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "45", string(data))
}

func TestRegion_SeekClampsToWindow(t *testing.T) {
	r := newTestRegion(t, "0123456789", 2, 4)

	pos, err := r.Seek(-100, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)

	pos, err = r.Seek(100, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, r.Size(), pos)

	pos, err = r.Seek(-1, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	data, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "5", string(data))
}

func TestRegion_SeekBadWhence(t *testing.T) {
	r := newTestRegion(t, "0123456789", 2, 4)

	_, err := r.Seek(0, 42)
	assert.Error(t, err)
}

func TestRegion_WriteUnsupported(t *testing.T) {
	r := newTestRegion(t, "0123456789", 2, 4)

	_, err := r.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestRegion_Size(t *testing.T) {
	r := newTestRegion(t, "0123456789", 2, 4)
	assert.Equal(t, int64(4), r.Size())
}
