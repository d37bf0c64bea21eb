package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Smattr/execfs/internal/pipeio"
)

func TestOpenHandleReadDirect(t *testing.T) {
	p, err := pipeio.Launch("printf hello", pipeio.ModeRead)
	require.NoError(t, err)
	h := newOpenHandle(p, false)
	defer h.close()

	data, err := h.read(0, 32)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	data, err = h.read(0, 32)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestOpenHandleReadCachedIsPositional(t *testing.T) {
	p, err := pipeio.Launch("printf 0123456789", pipeio.ModeRead)
	require.NoError(t, err)
	h := newOpenHandle(p, true)
	defer h.close()

	data, err := h.read(5, 3)
	require.NoError(t, err)
	assert.Equal(t, "567", string(data))

	// A read of bytes already buffered must not re-invoke the pipe.
	data, err = h.read(0, 5)
	require.NoError(t, err)
	assert.Equal(t, "01234", string(data))

	assert.Equal(t, 8, h.cacheBytes())
}

func TestOpenHandleReadCachedPastEOF(t *testing.T) {
	p, err := pipeio.Launch("printf hi", pipeio.ModeRead)
	require.NoError(t, err)
	h := newOpenHandle(p, true)
	defer h.close()

	data, err := h.read(0, 100)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	data, err = h.read(2, 10)
	require.NoError(t, err)
	assert.Empty(t, data)

	data, err = h.read(100, 10)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestOpenHandleWrite(t *testing.T) {
	p, err := pipeio.Launch("cat > /dev/null", pipeio.ModeWrite)
	require.NoError(t, err)
	h := newOpenHandle(p, false)
	defer h.close()

	n, err := h.write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestOpenHandleReadOnWriteOnlyHandleFails(t *testing.T) {
	p, err := pipeio.Launch("cat > /dev/null", pipeio.ModeWrite)
	require.NoError(t, err)
	h := newOpenHandle(p, false)
	defer h.close()

	_, err = h.read(0, 16)
	assert.Error(t, err)
}

func TestOpenHandleWriteOnReadOnlyHandleFails(t *testing.T) {
	p, err := pipeio.Launch("printf hi", pipeio.ModeRead)
	require.NoError(t, err)
	h := newOpenHandle(p, false)
	defer h.close()

	_, err = h.write([]byte("x"))
	assert.Error(t, err)
}

func TestOpenHandleWriteEmptyIsNoop(t *testing.T) {
	p, err := pipeio.Launch("cat > /dev/null", pipeio.ModeWrite)
	require.NoError(t, err)
	h := newOpenHandle(p, false)
	defer h.close()

	n, err := h.write(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenHandleClose(t *testing.T) {
	p, err := pipeio.Launch("cat", pipeio.ModeReadWrite)
	require.NoError(t, err)
	h := newOpenHandle(p, false)
	assert.NoError(t, h.close())
}
