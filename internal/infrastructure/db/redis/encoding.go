package redisdb

import (
	"bytes"

	"github.com/arkade-os/mint-registry/internal/core/domain"
	"github.com/gagliardetto/solana-go"
	"github.com/lightningnetwork/lnd/tlv"
)

const (
	tlvTypeKey       tlv.Type = 0
	tlvTypeOwner     tlv.Type = 2
	tlvTypeLamports  tlv.Type = 4
	tlvTypeData      tlv.Type = 6
	tlvTypeUpdatedAt tlv.Type = 8
)

type accountDTO struct {
	Key       [32]byte
	Owner     [32]byte
	Lamports  uint64
	Data      []byte
	UpdatedAt uint64
}

func newAccountDTO(account domain.Account, updatedAt int64) *accountDTO {
	return &accountDTO{
		Key:       account.Key,
		Owner:     account.Owner,
		Lamports:  account.Lamports,
		Data:      account.Data,
		UpdatedAt: uint64(updatedAt),
	}
}

func (a *accountDTO) records() []tlv.Record {
	return []tlv.Record{
		tlv.MakePrimitiveRecord(tlvTypeKey, &a.Key),
		tlv.MakePrimitiveRecord(tlvTypeOwner, &a.Owner),
		tlv.MakePrimitiveRecord(tlvTypeLamports, &a.Lamports),
		tlv.MakePrimitiveRecord(tlvTypeData, &a.Data),
		tlv.MakePrimitiveRecord(tlvTypeUpdatedAt, &a.UpdatedAt),
	}
}

func (a *accountDTO) serialize() ([]byte, error) {
	tlvStream, err := tlv.NewStream(a.records()...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tlvStream.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeAccount(buf []byte) (*accountDTO, error) {
	dto := &accountDTO{}
	tlvStream, err := tlv.NewStream(dto.records()...)
	if err != nil {
		return nil, err
	}
	if err := tlvStream.Decode(bytes.NewReader(buf)); err != nil {
		return nil, err
	}
	return dto, nil
}

func (a *accountDTO) owner() solana.PublicKey {
	return solana.PublicKey(a.Owner)
}

func (a *accountDTO) toDomain() *domain.Account {
	return &domain.Account{
		Key:       solana.PublicKey(a.Key),
		Owner:     solana.PublicKey(a.Owner),
		Lamports:  a.Lamports,
		Data:      a.Data,
		UpdatedAt: int64(a.UpdatedAt),
	}
}

