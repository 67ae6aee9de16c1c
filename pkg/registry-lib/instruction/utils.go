package instruction

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// serializeString writes a utf8 string as a one byte length prefix followed
// by its raw bytes.
func serializeString(w io.Writer, s string) error {
	if len(s) > math.MaxUint8 {
		return fmt.Errorf("string too long: got %d bytes, max %d", len(s), math.MaxUint8)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("invalid utf8 string")
	}
	if _, err := w.Write([]byte{byte(len(s))}); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// deserializeSlice reads exactly size bytes from the reader into a new slice.
func deserializeSlice(r *bytes.Reader, size int) ([]byte, error) {
	if r.Len() < size {
		return nil, io.EOF
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// deserializeString reads a length prefixed string, rejecting invalid utf8.
func deserializeString(r *bytes.Reader) (string, error) {
	size, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	buf, err := deserializeSlice(r, int(size))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("invalid utf8 string")
	}
	return string(buf), nil
}
