package session

import (
	"bufio"
	"io"
)

const (
	initialReadBufSize = 64 * 1024        // 64KB
	maxLineSize        = 20 * 1024 * 1024 // 20MB
)

// lineReader reads JSONL files line by line, tracking 1-based
// physical line numbers. Lines that exceed maxLen are skipped
// rather than aborting the whole file; the caller still sees the
// correct line number for every returned line.
type lineReader struct {
	r      *bufio.Reader
	maxLen int
	buf    []byte
	lineNo int
}

func newLineReader(r io.Reader, maxLen int) *lineReader {
	return &lineReader{
		r:      bufio.NewReaderSize(r, initialReadBufSize),
		maxLen: maxLen,
		buf:    make([]byte, 0, initialReadBufSize),
	}
}

// next returns the next line (without trailing newline), its 1-based
// line number, and true, or ("", 0, false) at EOF. Oversized lines
// are silently skipped but still consume a line number.
func (lr *lineReader) next() (string, int, bool) {
	for {
		line, err := lr.readLine()
		if err != nil {
			return "", 0, false
		}
		lr.lineNo++
		if line != "" {
			return line, lr.lineNo, true
		}
		// Blank or oversized line — keep the number, move on.
	}
}

// readLine reads a full physical line, returning "" for oversized
// lines and a non-nil error only at EOF or read failure.
func (lr *lineReader) readLine() (string, error) {
	lr.buf = lr.buf[:0]
	oversized := false

	for {
		chunk, isPrefix, err := lr.r.ReadLine()
		if err != nil {
			if len(lr.buf) > 0 && err == io.EOF {
				break
			}
			return "", err
		}

		if oversized {
			if !isPrefix {
				return "", nil // done skipping
			}
			continue
		}

		lr.buf = append(lr.buf, chunk...)

		if len(lr.buf) > lr.maxLen {
			oversized = true
			lr.buf = lr.buf[:0]
			if !isPrefix {
				return "", nil
			}
			continue
		}

		if !isPrefix {
			break
		}
	}

	return string(lr.buf), nil
}
