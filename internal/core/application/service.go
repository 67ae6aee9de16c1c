package application

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/arkade-os/mint-registry/internal/core/domain"
	"github.com/arkade-os/mint-registry/internal/core/ports"
	"github.com/arkade-os/mint-registry/pkg/errors"
	registryclient "github.com/arkade-os/mint-registry/pkg/client-lib"
	registrylib "github.com/arkade-os/mint-registry/pkg/registry-lib"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/instruction"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/processor"
	"github.com/arkade-os/mint-registry/pkg/registry-lib/state"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type service struct {
	programID   solana.PublicKey
	repoManager ports.RepoManager

	// executions and balance changes are serialized, like transactions
	// touching the same accounts on a real host.
	lock sync.Mutex
}

func NewService(programID solana.PublicKey, repoManager ports.RepoManager) (Service, error) {
	if programID.IsZero() {
		return nil, fmt.Errorf("missing program id")
	}
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	return &service{
		programID:   programID,
		repoManager: repoManager,
	}, nil
}

func (s *service) ProgramID() solana.PublicKey {
	return s.programID
}

func (s *service) CreateMint(
	ctx context.Context, authority, freezeAuthority *solana.PublicKey,
	decimals uint8, supply uint64,
) (solana.PublicKey, error) {
	prvkey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to generate mint key: %s", err)
	}
	key := prvkey.PublicKey()

	mint := state.Mint{
		MintAuthority:   authority,
		Supply:          supply,
		Decimals:        decimals,
		IsInitialized:   true,
		FreezeAuthority: freezeAuthority,
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repoManager.Accounts().Upsert(ctx, domain.Account{
		Key:      key,
		Owner:    solana.TokenProgramID,
		Lamports: registrylib.RentExemptMinimum(state.MINT_LEN),
		Data:     mint.Serialize(),
	}); err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to store mint: %s", err)
	}

	log.Debugf("created mint %s", key)
	return key, nil
}

func (s *service) CreateExtensionAccount(
	ctx context.Context, key solana.PublicKey, lamports uint64,
) error {
	if lamports == 0 {
		lamports = registryclient.MinBalanceForRentExemptExtension()
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	existing, err := s.repoManager.Accounts().Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get account: %s", err)
	}
	if existing != nil {
		return fmt.Errorf("account %s already exists", key)
	}

	if err := s.repoManager.Accounts().Upsert(ctx, domain.Account{
		Key:      key,
		Owner:    s.programID,
		Lamports: lamports,
		Data:     make([]byte, state.MINT_EXTENSION_LEN),
	}); err != nil {
		return fmt.Errorf("failed to store extension account: %s", err)
	}

	log.Debugf("created extension account %s with %d lamports", key, lamports)
	return nil
}

func (s *service) Airdrop(ctx context.Context, key solana.PublicKey, lamports uint64) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	account, err := s.repoManager.Accounts().Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get account: %s", err)
	}
	if account == nil {
		account = &domain.Account{Key: key, Owner: solana.SystemProgramID}
	}

	balance := account.Lamports + lamports
	if balance < account.Lamports {
		return errors.OVERFLOW.New(
			"crediting %d lamports to %s overflows", lamports, key,
		).WithMetadata(errors.OverflowMetadata{
			Destination:       key.String(),
			DestinationAmount: account.Lamports,
			SourceAmount:      lamports,
		})
	}
	account.Lamports = balance

	if err := s.repoManager.Accounts().Upsert(ctx, *account); err != nil {
		return fmt.Errorf("failed to store account: %s", err)
	}
	return nil
}

func (s *service) Execute(
	ctx context.Context, ix solana.Instruction, signers ...solana.PrivateKey,
) (*ExecutionResult, error) {
	requestID := uuid.New().String()
	logger := log.WithField("request_id", requestID)

	if ix == nil {
		return nil, errors.INVALID_INSTRUCTION.New("missing instruction")
	}
	if !ix.ProgramID().Equals(s.programID) {
		return nil, errors.INVALID_INSTRUCTION.New(
			"instruction targets program %s, host runs %s", ix.ProgramID(), s.programID,
		)
	}
	data, err := ix.Data()
	if err != nil {
		return nil, errors.INVALID_INSTRUCTION.Wrap(err)
	}

	signed, err := verifySigners(ix, data, signers)
	if err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	txn, err := s.loadAccounts(ctx, ix, signed)
	if err != nil {
		return nil, err
	}

	logger.WithField("accounts", len(txn.accounts)).Debug("executing instruction")

	infos := txn.invocationInfos()
	if err := processor.Process(s.programID, infos, data); err != nil {
		logFailure(logger, err)
		return nil, err
	}

	updated, err := txn.verify(s.programID)
	if err != nil {
		logFailure(logger, err)
		return nil, err
	}

	if len(updated) > 0 {
		if err := s.repoManager.Accounts().Upsert(ctx, updated...); err != nil {
			return nil, fmt.Errorf("failed to persist accounts: %s", err)
		}
	}

	result := &ExecutionResult{
		RequestID:   requestID,
		Instruction: instructionName(data),
		Updated:     make([]AccountSnapshot, 0, len(updated)),
	}
	for _, account := range updated {
		result.Updated = append(result.Updated, newAccountSnapshot(account))
	}

	logger.WithField("updated", len(updated)).Infof("executed %s", result.Instruction)
	return result, nil
}

func (s *service) GetAccount(ctx context.Context, key solana.PublicKey) (*domain.Account, error) {
	account, err := s.repoManager.Accounts().Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %s", err)
	}
	if account == nil {
		return nil, accountNotFound(key)
	}
	return account, nil
}

func (s *service) GetMintExtension(
	ctx context.Context, key solana.PublicKey,
) (*registrylib.MintExtensionView, error) {
	account, err := s.GetAccount(ctx, key)
	if err != nil {
		return nil, err
	}
	if !account.IsOwnedBy(s.programID) {
		return nil, errors.INVALID_ACCOUNT_DATA.New(
			"account %s is owned by %s", key, account.Owner,
		).WithMetadata(errors.AccountDataMetadata{
			Account:  key.String(),
			Length:   len(account.Data),
			Expected: state.MINT_EXTENSION_LEN,
		})
	}
	return registryclient.DecodeMintExtension(account.Key, account.Lamports, account.Data)
}

func (s *service) ListMintExtensions(
	ctx context.Context, mint *solana.PublicKey,
) ([]registrylib.MintExtensionView, error) {
	accounts, err := s.repoManager.Accounts().List(ctx, &s.programID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %s", err)
	}

	views := make([]registrylib.MintExtensionView, 0, len(accounts))
	for _, account := range accounts {
		if len(account.Data) != state.MINT_EXTENSION_LEN {
			continue
		}
		// the mint follows the 1-byte initialized flag
		if mint != nil && !bytes.Equal(account.Data[1:1+solana.PublicKeyLength], mint[:]) {
			continue
		}
		view, err := registryclient.DecodeMintExtension(account.Key, account.Lamports, account.Data)
		if err != nil {
			log.WithError(err).Warnf("skipping malformed extension account %s", account.Key)
			continue
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *service) Close() {
	s.repoManager.Close()
}

func (s *service) loadAccounts(
	ctx context.Context, ix solana.Instruction, signed map[solana.PublicKey]struct{},
) (*transaction, error) {
	metas := ix.Accounts()
	keys := make([]solana.PublicKey, 0, len(metas))
	for _, meta := range metas {
		keys = append(keys, meta.PublicKey)
	}

	stored, err := s.repoManager.Accounts().GetMany(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %s", err)
	}
	byKey := make(map[solana.PublicKey]domain.Account, len(stored))
	for _, account := range stored {
		byKey[account.Key] = account
	}

	txn := newTransaction()
	for _, meta := range metas {
		// unknown keys are empty system accounts, stored only once credited
		account, ok := byKey[meta.PublicKey]
		if !ok {
			account = domain.Account{Key: meta.PublicKey, Owner: solana.SystemProgramID}
		}
		_, isSigned := signed[meta.PublicKey]
		txn.add(account, meta.IsWritable, meta.IsSigner && isSigned)
	}
	return txn, nil
}

// verifySigners signs the instruction message with every given key and
// returns the set of keys whose signature verifies.
func verifySigners(
	ix solana.Instruction, data []byte, signers []solana.PrivateKey,
) (map[solana.PublicKey]struct{}, error) {
	message := instructionMessage(ix, data)
	signed := make(map[solana.PublicKey]struct{}, len(signers))
	for _, signer := range signers {
		pubkey := signer.PublicKey()
		sig, err := signer.Sign(message)
		if err != nil {
			return nil, errors.INVALID_SIGNATURE.Wrap(err).
				WithMetadata(errors.AccountMetadata{Account: pubkey.String()})
		}
		if !sig.Verify(pubkey, message) {
			return nil, errors.INVALID_SIGNATURE.New(
				"signature of %s does not verify", pubkey,
			).WithMetadata(errors.AccountMetadata{Account: pubkey.String()})
		}
		signed[pubkey] = struct{}{}
	}
	return signed, nil
}

func instructionMessage(ix solana.Instruction, data []byte) []byte {
	metas := ix.Accounts()
	message := make([]byte, 0, solana.PublicKeyLength*(len(metas)+1)+len(data))
	programID := ix.ProgramID()
	message = append(message, programID[:]...)
	for _, meta := range metas {
		message = append(message, meta.PublicKey[:]...)
	}
	return append(message, data...)
}

func instructionName(data []byte) string {
	ix, err := instruction.Decode(data)
	if err != nil {
		return "Unknown"
	}
	return ix.Tag().String()
}

func accountNotFound(key solana.PublicKey) error {
	return errors.ACCOUNT_NOT_FOUND.New("account %s not found", key).
		WithMetadata(errors.AccountMetadata{Account: key.String()})
}

func logFailure(logger *log.Entry, err error) {
	if e, ok := err.(errors.Error); ok {
		e.Log().WithField("request_id", logger.Data["request_id"]).Warn(e.Error())
		return
	}
	logger.WithError(err).Warn("execution failed")
}
