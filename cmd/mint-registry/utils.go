package main

import (
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

func printJSON(resp interface{}) error {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonBytes))
	return nil
}

func parseOptionalKey(value string) (*solana.PublicKey, error) {
	if value == "" {
		return nil, nil
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
