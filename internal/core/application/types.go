package application

import (
	"context"

	"github.com/arkade-os/mint-registry/internal/core/domain"
	registrylib "github.com/arkade-os/mint-registry/pkg/registry-lib"
	"github.com/gagliardetto/solana-go"
)

// Service is a local host for the registry program. It owns the account
// state and executes instructions against it the way a validator would.
type Service interface {
	ProgramID() solana.PublicKey
	// CreateMint stores a new initialized mint account and returns its key.
	CreateMint(
		ctx context.Context, authority, freezeAuthority *solana.PublicKey,
		decimals uint8, supply uint64,
	) (solana.PublicKey, error)
	// CreateExtensionAccount allocates a zeroed extension account owned by
	// the program. Zero lamports means the rent exempt minimum.
	CreateExtensionAccount(ctx context.Context, key solana.PublicKey, lamports uint64) error
	Airdrop(ctx context.Context, key solana.PublicKey, lamports uint64) error
	Execute(
		ctx context.Context, ix solana.Instruction, signers ...solana.PrivateKey,
	) (*ExecutionResult, error)
	GetAccount(ctx context.Context, key solana.PublicKey) (*domain.Account, error)
	GetMintExtension(
		ctx context.Context, key solana.PublicKey,
	) (*registrylib.MintExtensionView, error)
	// ListMintExtensions returns the extension records of the program, only
	// those recording the given mint if it is not nil.
	ListMintExtensions(
		ctx context.Context, mint *solana.PublicKey,
	) ([]registrylib.MintExtensionView, error)
	Close()
}

type ExecutionResult struct {
	RequestID   string            `json:"request_id"`
	Instruction string            `json:"instruction"`
	Updated     []AccountSnapshot `json:"updated"`
}

type AccountSnapshot struct {
	Key      string `json:"key"`
	Owner    string `json:"owner"`
	Lamports uint64 `json:"lamports"`
	DataLen  int    `json:"data_len"`
}

func newAccountSnapshot(account domain.Account) AccountSnapshot {
	return AccountSnapshot{
		Key:      account.Key.String(),
		Owner:    account.Owner.String(),
		Lamports: account.Lamports,
		DataLen:  len(account.Data),
	}
}
