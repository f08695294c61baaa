package shell

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// endlessReader yields "x\n" forever.
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		if i%2 == 0 {
			p[i] = 'x'
		} else {
			p[i] = '\n'
		}
	}
	return len(p) - len(p)%2, nil
}

func TestLineReader_LongLine(t *testing.T) {
	long := strings.Repeat("y", 1<<20)
	lr := newLineReader(strings.NewReader(long + "\nnext\n"))
	defer lr.close()
	ctx := context.Background()

	line, err := lr.next(ctx)
	require.NoError(t, err)
	assert.Len(t, line, len(long))

	line, err = lr.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "next", line)

	_, err = lr.next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReader_FinalLineWithoutNewline(t *testing.T) {
	lr := newLineReader(strings.NewReader("a\r\n  b  "))
	defer lr.close()
	ctx := context.Background()

	line, err := lr.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", line)

	line, err = lr.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", line)

	_, err = lr.next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReader_ReadError(t *testing.T) {
	errBroken := errors.New("broken pipe")
	lr := newLineReader(io.MultiReader(strings.NewReader("a\n"), iotest.ErrReader(errBroken)))
	defer lr.close()
	ctx := context.Background()

	line, err := lr.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", line)

	_, err = lr.next(ctx)
	assert.ErrorIs(t, err, errBroken)
}

func TestLineReader_CloseStopsReader(t *testing.T) {
	lr := newLineReader(endlessReader{})

	line, err := lr.next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", line)

	lr.close()
	lr.close() // idempotent

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-lr.lines:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestLineReader_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	lr := newLineReader(pr)
	defer lr.close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := lr.next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
