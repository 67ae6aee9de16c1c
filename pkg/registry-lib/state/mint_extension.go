package state

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/arkade-os/mint-registry/pkg/errors"
	"github.com/gagliardetto/solana-go"
)

const (
	// MINT_EXTENSION_LEN is the serialized size of a MintExtension in bytes.
	MINT_EXTENSION_LEN = 67
	// LABEL_BUFFER_LEN is the size of the fixed symbol and name buffers.
	LABEL_BUFFER_LEN = 16
	// MAX_LABEL_LEN is the largest symbol or name length a record can hold.
	MAX_LABEL_LEN = LABEL_BUFFER_LEN - 1
)

// MintExtension is the registry record attaching a symbol and a name to a
// mint. Bytes of Symbol and Name past their length are not part of the value.
type MintExtension struct {
	IsInitialized bool
	Mint          solana.PublicKey
	SymbolLen     uint8
	Symbol        [LABEL_BUFFER_LEN]byte
	NameLen       uint8
	Name          [LABEL_BUFFER_LEN]byte
}

// NewMintExtension returns an initialized record for the given mint.
func NewMintExtension(mint solana.PublicKey, symbol, name string) (*MintExtension, error) {
	ext := &MintExtension{IsInitialized: true, Mint: mint}
	if err := ext.SetSymbol(symbol); err != nil {
		return nil, err
	}
	if err := ext.SetName(name); err != nil {
		return nil, err
	}
	return ext, nil
}

// NewMintExtensionFromString parses a hex-encoded string into a MintExtension.
func NewMintExtensionFromString(s string) (*MintExtension, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid mint extension format, must be hex")
	}
	return NewMintExtensionFromBytes(buf)
}

// NewMintExtensionFromBytes unpacks a MintExtension from exactly
// MINT_EXTENSION_LEN bytes. A zero-filled buffer yields the uninitialized
// record.
func NewMintExtensionFromBytes(buf []byte) (*MintExtension, error) {
	if len(buf) != MINT_EXTENSION_LEN {
		return nil, errors.INVALID_ACCOUNT_DATA.New(
			"invalid mint extension length: got %d, want %d", len(buf), MINT_EXTENSION_LEN,
		).WithMetadata(errors.AccountDataMetadata{Length: len(buf), Expected: MINT_EXTENSION_LEN})
	}
	ext, err := newMintExtensionFromReader(bytes.NewReader(buf))
	if err != nil {
		return nil, errors.INVALID_ACCOUNT_DATA.Wrap(err).
			WithMetadata(errors.AccountDataMetadata{Length: len(buf), Expected: MINT_EXTENSION_LEN})
	}
	return ext, nil
}

// Serialize packs the record into MINT_EXTENSION_LEN bytes.
func (e *MintExtension) Serialize() []byte {
	var buf bytes.Buffer
	buf.Grow(MINT_EXTENSION_LEN)
	// nolint
	e.serialize(&buf)
	return buf.Bytes()
}

// PackInto writes the record at the start of an account data buffer, which
// must be exactly MINT_EXTENSION_LEN bytes long.
func (e *MintExtension) PackInto(dst []byte) error {
	if len(dst) != MINT_EXTENSION_LEN {
		return errors.INVALID_ACCOUNT_DATA.New(
			"invalid mint extension length: got %d, want %d", len(dst), MINT_EXTENSION_LEN,
		).WithMetadata(errors.AccountDataMetadata{Length: len(dst), Expected: MINT_EXTENSION_LEN})
	}
	copy(dst, e.Serialize())
	return nil
}

// String returns the hex encoding of the serialized record.
func (e *MintExtension) String() string {
	return hex.EncodeToString(e.Serialize())
}

// SetSymbol clears the symbol buffer and stores s in it.
func (e *MintExtension) SetSymbol(s string) error {
	n, err := setLabel(&e.Symbol, "symbol", s)
	if err != nil {
		return err
	}
	e.SymbolLen = n
	return nil
}

// SetName clears the name buffer and stores s in it.
func (e *MintExtension) SetName(s string) error {
	n, err := setLabel(&e.Name, "name", s)
	if err != nil {
		return err
	}
	e.NameLen = n
	return nil
}

// SymbolString returns the occupied part of the symbol buffer.
func (e *MintExtension) SymbolString() string {
	return getLabel(e.Symbol, e.SymbolLen)
}

// NameString returns the occupied part of the name buffer.
func (e *MintExtension) NameString() string {
	return getLabel(e.Name, e.NameLen)
}

func (e *MintExtension) serialize(w io.Writer) error {
	if err := serializeBool(w, e.IsInitialized); err != nil {
		return err
	}
	if _, err := w.Write(e.Mint[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{e.SymbolLen}); err != nil {
		return err
	}
	if _, err := w.Write(e.Symbol[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{e.NameLen}); err != nil {
		return err
	}
	_, err := w.Write(e.Name[:])
	return err
}

func newMintExtensionFromReader(r *bytes.Reader) (*MintExtension, error) {
	isInitialized, err := deserializeBool(r)
	if err != nil {
		return nil, fmt.Errorf("invalid is_initialized: %w", err)
	}
	mint, err := deserializeKey(r)
	if err != nil {
		return nil, err
	}
	symbolLen, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	symbol, err := deserializeSlice(r, LABEL_BUFFER_LEN)
	if err != nil {
		return nil, err
	}
	nameLen, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	name, err := deserializeSlice(r, LABEL_BUFFER_LEN)
	if err != nil {
		return nil, err
	}

	ext := &MintExtension{
		IsInitialized: isInitialized,
		Mint:          mint,
		SymbolLen:     symbolLen,
		NameLen:       nameLen,
	}
	copy(ext.Symbol[:], symbol)
	copy(ext.Name[:], name)
	return ext, nil
}

func setLabel(buf *[LABEL_BUFFER_LEN]byte, field, s string) (uint8, error) {
	if len(s) > MAX_LABEL_LEN {
		return 0, errors.SYMBOL_TOO_LONG.New(
			"%s is %d bytes long, max %d", field, len(s), MAX_LABEL_LEN,
		).WithMetadata(errors.SymbolTooLongMetadata{
			Field:     field,
			Length:    len(s),
			MaxLength: MAX_LABEL_LEN,
		})
	}
	*buf = [LABEL_BUFFER_LEN]byte{}
	copy(buf[:], s)
	return uint8(len(s)), nil
}

// getLabel clamps the stored length to the buffer, since unpack does not
// bound it, and drops invalid utf8 so readers always get printable text.
func getLabel(buf [LABEL_BUFFER_LEN]byte, n uint8) string {
	l := min(int(n), LABEL_BUFFER_LEN)
	s := buf[:l]
	if !utf8.Valid(s) {
		return string(bytes.ToValidUTF8(s, nil))
	}
	return string(s)
}
