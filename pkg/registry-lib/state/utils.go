package state

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
)

var (
	coptionNone = [4]byte{0, 0, 0, 0}
	coptionSome = [4]byte{1, 0, 0, 0}
)

// serializeBool writes a bool as a single 0/1 byte.
func serializeBool(w io.Writer, value bool) error {
	b := byte(0)
	if value {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

// serializeUint64 writes a uint64 in little-endian byte order to the writer.
func serializeUint64(w io.Writer, value uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	_, err := w.Write(buf[:])
	return err
}

// serializeCOptionKey writes an optional key as a 4-byte tag followed by 32
// key bytes, zeroed when the key is absent.
func serializeCOptionKey(w io.Writer, key *solana.PublicKey) error {
	if key == nil {
		if _, err := w.Write(coptionNone[:]); err != nil {
			return err
		}
		_, err := w.Write(make([]byte, solana.PublicKeyLength))
		return err
	}
	if _, err := w.Write(coptionSome[:]); err != nil {
		return err
	}
	_, err := w.Write(key[:])
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

// deserializeBool reads a single byte that must be either 0 or 1.
func deserializeBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value %d", b)
	}
}

// deserializeUint64 reads a little-endian uint64 from the reader.
func deserializeUint64(r *bytes.Reader) (uint64, error) {
	buf, err := deserializeSlice(r, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// deserializeKey reads a 32-byte public key from the reader.
func deserializeKey(r *bytes.Reader) (solana.PublicKey, error) {
	buf, err := deserializeSlice(r, solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(buf), nil
}

// deserializeCOptionKey reads an optional key. The key bytes of an absent
// option are ignored.
func deserializeCOptionKey(r *bytes.Reader) (*solana.PublicKey, error) {
	tag, err := deserializeSlice(r, len(coptionNone))
	if err != nil {
		return nil, err
	}
	key, err := deserializeKey(r)
	if err != nil {
		return nil, err
	}
	switch {
	case bytes.Equal(tag, coptionNone[:]):
		return nil, nil
	case bytes.Equal(tag, coptionSome[:]):
		return &key, nil
	default:
		return nil, fmt.Errorf("invalid option tag %x", tag)
	}
}
