package parsing

import (
	"bufio"
	"io"
)

// lineReader splits input on "\n", "\r\n" or a lone "\r". Lines longer than
// maxLineBytes are consumed to their end but only the prefix is kept.
type lineReader struct {
	r   *bufio.Reader
	buf []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// next returns the next line without its terminator. It returns io.EOF once
// the input is exhausted.
func (lr *lineReader) next() (line string, tooLong bool, err error) {
	lr.buf = lr.buf[:0]
	read := false
	for {
		b, rerr := lr.r.ReadByte()
		if rerr == io.EOF && read {
			return string(lr.buf), tooLong, nil
		}
		if rerr != nil {
			return "", false, rerr
		}
		read = true

		switch b {
		case '\n':
			return string(lr.buf), tooLong, nil
		case '\r':
			if peek, perr := lr.r.Peek(1); perr == nil && peek[0] == '\n' {
				_, _ = lr.r.Discard(1)
			}
			return string(lr.buf), tooLong, nil
		}

		if len(lr.buf) < maxLineBytes {
			lr.buf = append(lr.buf, b)
		} else {
			tooLong = true
		}
	}
}
