package state

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/arkade-os/mint-registry/pkg/errors"
	"github.com/gagliardetto/solana-go"
)

// MINT_LEN is the serialized size of an SPL token mint in bytes.
const MINT_LEN = 82

// Mint is the SPL token mint layout. The registry only reads it to resolve
// the authority allowed to edit a mint's extension.
type Mint struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
}

func NewMintFromString(s string) (*Mint, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid mint format, must be hex")
	}
	return NewMintFromBytes(buf)
}

// NewMintFromBytes unpacks a Mint from exactly MINT_LEN bytes.
func NewMintFromBytes(buf []byte) (*Mint, error) {
	if len(buf) != MINT_LEN {
		return nil, errors.INVALID_ACCOUNT_DATA.New(
			"invalid mint length: got %d, want %d", len(buf), MINT_LEN,
		).WithMetadata(errors.AccountDataMetadata{Length: len(buf), Expected: MINT_LEN})
	}
	mint, err := newMintFromReader(bytes.NewReader(buf))
	if err != nil {
		return nil, errors.INVALID_ACCOUNT_DATA.Wrap(err).
			WithMetadata(errors.AccountDataMetadata{Length: len(buf), Expected: MINT_LEN})
	}
	return mint, nil
}

func (m *Mint) Serialize() []byte {
	var buf bytes.Buffer
	buf.Grow(MINT_LEN)
	// nolint
	m.serialize(&buf)
	return buf.Bytes()
}

func (m *Mint) String() string {
	return hex.EncodeToString(m.Serialize())
}

func (m *Mint) serialize(w io.Writer) error {
	if err := serializeCOptionKey(w, m.MintAuthority); err != nil {
		return err
	}
	if err := serializeUint64(w, m.Supply); err != nil {
		return err
	}
	if _, err := w.Write([]byte{m.Decimals}); err != nil {
		return err
	}
	if err := serializeBool(w, m.IsInitialized); err != nil {
		return err
	}
	return serializeCOptionKey(w, m.FreezeAuthority)
}

func newMintFromReader(r *bytes.Reader) (*Mint, error) {
	mintAuthority, err := deserializeCOptionKey(r)
	if err != nil {
		return nil, fmt.Errorf("invalid mint authority: %w", err)
	}
	supply, err := deserializeUint64(r)
	if err != nil {
		return nil, err
	}
	decimals, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	isInitialized, err := deserializeBool(r)
	if err != nil {
		return nil, fmt.Errorf("invalid is_initialized: %w", err)
	}
	freezeAuthority, err := deserializeCOptionKey(r)
	if err != nil {
		return nil, fmt.Errorf("invalid freeze authority: %w", err)
	}
	return &Mint{
		MintAuthority:   mintAuthority,
		Supply:          supply,
		Decimals:        decimals,
		IsInitialized:   isInitialized,
		FreezeAuthority: freezeAuthority,
	}, nil
}
