package shell

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// lineReader feeds console lines to the shell. Reading runs on its own
// goroutine so a blocked read can still observe context cancellation.
// Lines of any length are delivered; over-long input is the validators'
// concern, not the reader's.
type lineReader struct {
	lines chan string
	done  chan struct{}
	once  sync.Once
	err   error // set before lines is closed
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		lines: make(chan string),
		done:  make(chan struct{}),
	}
	go lr.read(bufio.NewReader(r))
	return lr
}

func (lr *lineReader) read(br *bufio.Reader) {
	defer close(lr.lines)
	for {
		line, err := br.ReadString('\n')
		// A final line without a newline is still delivered.
		if line != "" {
			select {
			case lr.lines <- line:
			case <-lr.done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				lr.err = err
			}
			return
		}
	}
}

// close stops the reading goroutine once its pending line is abandoned.
// A read blocked inside the underlying reader returns when that reader does.
func (lr *lineReader) close() {
	lr.once.Do(func() { close(lr.done) })
}

// next returns the next line with surrounding whitespace removed.
// Returns io.EOF when input is exhausted and ctx.Err() on cancellation.
func (lr *lineReader) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lr.lines:
		if !ok {
			if lr.err != nil {
				return "", lr.err
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}
