package instruction

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/arkade-os/mint-registry/pkg/errors"
	"github.com/gagliardetto/solana-go"
)

// Tag identifies an instruction variant on the wire. Tags are append-only.
type Tag uint8

const (
	REGISTER_MINT Tag = 1
	CLOSE_MINT    Tag = 2
	MODIFY_MINT   Tag = 3
)

func (t Tag) String() string {
	switch t {
	case REGISTER_MINT:
		return "RegisterMint"
	case CLOSE_MINT:
		return "CloseMint"
	case MODIFY_MINT:
		return "ModifyMint"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// Instruction is one of RegisterMint, CloseMint or ModifyMint.
type Instruction interface {
	Tag() Tag
	Serialize() ([]byte, error)
	isInstruction()
}

// RegisterMint attaches a symbol and a name to a mint.
//
// Accounts:
//
//	0. [] the mint
//	1. [signer] the mint authority
//	2. [signer, writable] the uninitialized extension account
type RegisterMint struct {
	Mint   solana.PublicKey
	Symbol string
	Name   string
}

// CloseMint revokes an extension and drains its lamports.
//
// Accounts:
//
//	0. [writable] the extension account
//	1. [signer, writable] the mint authority, receiving the lamports
//	2. [] the mint
type CloseMint struct{}

// ModifyMint overwrites the symbol and name of a registered extension.
//
// Accounts:
//
//	0. [] the mint
//	1. [signer] the mint authority
//	2. [writable] the extension account
type ModifyMint struct {
	Symbol string
	Name   string
}

func (RegisterMint) Tag() Tag { return REGISTER_MINT }
func (CloseMint) Tag() Tag    { return CLOSE_MINT }
func (ModifyMint) Tag() Tag   { return MODIFY_MINT }

func (RegisterMint) isInstruction() {}
func (CloseMint) isInstruction()    {}
func (ModifyMint) isInstruction()   {}

func (i RegisterMint) Serialize() ([]byte, error) { return Encode(i) }
func (i CloseMint) Serialize() ([]byte, error)    { return Encode(i) }
func (i ModifyMint) Serialize() ([]byte, error)   { return Encode(i) }

// Encode serializes an instruction. Strings longer than 255 bytes cannot be
// represented and are rejected.
func Encode(ix Instruction) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, ix); err != nil {
		return nil, errors.INVALID_INSTRUCTION.Wrap(err)
	}
	return buf.Bytes(), nil
}

func encode(w io.Writer, ix Instruction) error {
	if ix == nil {
		return fmt.Errorf("missing instruction")
	}
	if _, err := w.Write([]byte{byte(ix.Tag())}); err != nil {
		return err
	}

	switch v := ix.(type) {
	case RegisterMint:
		if _, err := w.Write(v.Mint[:]); err != nil {
			return err
		}
		if err := serializeString(w, v.Symbol); err != nil {
			return fmt.Errorf("invalid symbol: %w", err)
		}
		if err := serializeString(w, v.Name); err != nil {
			return fmt.Errorf("invalid name: %w", err)
		}
	case CloseMint:
	case ModifyMint:
		if err := serializeString(w, v.Symbol); err != nil {
			return fmt.Errorf("invalid symbol: %w", err)
		}
		if err := serializeString(w, v.Name); err != nil {
			return fmt.Errorf("invalid name: %w", err)
		}
	default:
		return fmt.Errorf("unknown instruction type %T", ix)
	}
	return nil
}

// NewInstructionFromString decodes a hex-encoded instruction.
func NewInstructionFromString(s string) (Instruction, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid instruction format, must be hex")
	}
	return Decode(buf)
}

// Decode parses the raw instruction data handed to the program. Bytes after a
// complete payload are ignored.
func Decode(data []byte) (Instruction, error) {
	ix, err := newInstructionFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.INVALID_INSTRUCTION.Wrap(err).
			WithMetadata(errors.InstructionMetadata{Data: hex.EncodeToString(data)})
	}
	return ix, nil
}

func newInstructionFromReader(r *bytes.Reader) (Instruction, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("missing instruction tag")
	}

	switch Tag(tag) {
	case REGISTER_MINT:
		buf, err := deserializeSlice(r, solana.PublicKeyLength)
		if err != nil {
			return nil, fmt.Errorf("invalid mint: %w", err)
		}
		symbol, err := deserializeString(r)
		if err != nil {
			return nil, fmt.Errorf("invalid symbol: %w", err)
		}
		name, err := deserializeString(r)
		if err != nil {
			return nil, fmt.Errorf("invalid name: %w", err)
		}
		return RegisterMint{
			Mint:   solana.PublicKeyFromBytes(buf),
			Symbol: symbol,
			Name:   name,
		}, nil
	case CLOSE_MINT:
		return CloseMint{}, nil
	case MODIFY_MINT:
		symbol, err := deserializeString(r)
		if err != nil {
			return nil, fmt.Errorf("invalid symbol: %w", err)
		}
		name, err := deserializeString(r)
		if err != nil {
			return nil, fmt.Errorf("invalid name: %w", err)
		}
		return ModifyMint{Symbol: symbol, Name: name}, nil
	default:
		return nil, fmt.Errorf("unknown instruction tag %d", tag)
	}
}
