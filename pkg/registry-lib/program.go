package registrylib

import (
	"github.com/arkade-os/mint-registry/pkg/registry-lib/state"
	"github.com/gagliardetto/solana-go"
)

// MAX_LABEL_LEN is the largest symbol or name, in bytes, a registry record
// accepts.
const MAX_LABEL_LEN = state.MAX_LABEL_LEN

// ProgramID is the default id the registry program is deployed at.
var ProgramID = solana.MustPublicKeyFromBase58("CexavZV4tacCSLGBPSeu46DUXDU9osNzHscCimZVS4HN")

// MintExtensionView is the decoded, client facing form of a MintExtension
// account.
type MintExtensionView struct {
	Extension   string `json:"extension"`
	Mint        string `json:"mint"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Initialized bool   `json:"initialized"`
	Lamports    uint64 `json:"lamports"`
}

const (
	ACCOUNT_STORAGE_OVERHEAD  = 128
	LAMPORTS_PER_BYTE_YEAR    = 3480
	EXEMPTION_THRESHOLD_YEARS = 2
)

// RentExemptMinimum returns the balance an account holding dataLen bytes
// needs to be exempt from rent.
func RentExemptMinimum(dataLen int) uint64 {
	return uint64(ACCOUNT_STORAGE_OVERHEAD+dataLen) * LAMPORTS_PER_BYTE_YEAR * EXEMPTION_THRESHOLD_YEARS
}
