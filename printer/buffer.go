package printer

import (
	"bytes"
	"io"
)

// lineBuffer batches writes and flushes complete lines to an underlying
// writer, the way socutil.WriteBuffer batched scandown's emitted text —
// trimmed here to just the line-chunked flush the printer actually needs.
type lineBuffer struct {
	to io.Writer
	bytes.Buffer
}

// flush writes every buffered byte to the destination, regardless of
// whether it ends on a line boundary. Call once after the main write phase.
func (buf *lineBuffer) flush() error {
	_, err := buf.WriteTo(buf.to)
	return err
}

// maybeFlush writes as large a whole-line chunk as possible — through the
// last buffered newline — discarding the written bytes from the buffer.
func (buf *lineBuffer) maybeFlush() error {
	b := buf.Bytes()
	i := bytes.LastIndexByte(b, '\n')
	if i < 0 {
		return nil
	}
	n := i + 1
	m, err := buf.to.Write(b[:n])
	buf.Next(m)
	return err
}
