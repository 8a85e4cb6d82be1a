package contract

import "errors"

var (
	// ErrContractNotFound indicates the contract doesn't exist.
	ErrContractNotFound = errors.New("contract not found")
)
