package session

import (
	"bytes"
	"fmt"
	"io"
)

// ReadBounded reads r to completion and returns the bytes consumed, failing
// with ErrPayloadTooLarge as soon as the running total would exceed max. The
// remainder of an oversized stream is never drained, and no more than max+1
// bytes are buffered at the point the limit trips. max <= 0 disables the
// bound (used for backend-origin reads that were already capped at write
// time).
func ReadBounded(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading stream: %w", err)
		}
		return data, nil
	}

	// Reading one byte past the cap distinguishes "exactly max" from "over".
	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("reading stream: %w", err)
	}
	if n > max {
		return nil, ErrPayloadTooLarge
	}
	return buf.Bytes(), nil
}
