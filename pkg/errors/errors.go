package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code is the type representing a namespace error code.
type Code[MT any] struct {
	Code     uint16
	Name     string
	GrpcCode grpccodes.Code
}

// New creates a new error with the given code and the message
func (c Code[MT]) New(msg string, args ...any) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: fmt.Errorf(msg, args...),
	}
}

// Wrap creates a new Error with the given code and the cause error
func (c Code[MT]) Wrap(cause error) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: cause,
	}
}

// Is reports whether err, or any error it wraps, carries this code.
func (c Code[MT]) Is(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == c.Code
}

func (c Code[MT]) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.Code)
}

type Error interface {
	error
	Log() *log.Entry
	Code() uint16
	CodeName() string
	GrpcCode() grpccodes.Code
	Metadata() map[string]string
}

type TypedError[MT any] interface {
	Error
	WithMetadata(MT) TypedError[MT]
}

// CodeOf returns the numeric code of the first Error found in err's chain.
func CodeOf(err error) (uint16, bool) {
	var e Error
	if !stderrors.As(err, &e) {
		return 0, false
	}
	return e.Code(), true
}

// ErrorImpl is the default concrete implementation of TypedError.
type ErrorImpl[MT any] struct {
	code     Code[MT]
	cause    error
	metadata MT
}

func (e *ErrorImpl[MT]) Log() *log.Entry {
	return log.WithField("name", e.code.Name).
		WithField("code", e.code.Code).
		WithField("metadata", e.metadata)
}

func (e *ErrorImpl[MT]) Metadata() map[string]string {
	// convert any metadata to map[string]string
	metadata := make(map[string]string)
	buf, err := json.Marshal(e.metadata)
	if err == nil {
		var genericMap map[string]any
		if err := json.Unmarshal(buf, &genericMap); err == nil {
			for k, v := range genericMap {
				vStr := ""
				if v != nil {
					vStr = fmt.Sprintf("%v", v)
				}
				metadata[k] = vStr
			}
		}
	}
	return metadata
}

func (e *ErrorImpl[MT]) GrpcCode() grpccodes.Code {
	return e.code.GrpcCode
}

// GRPCStatus lets grpc/status convert the error without losing its class.
func (e *ErrorImpl[MT]) GRPCStatus() *status.Status {
	return status.New(e.code.GrpcCode, e.Error())
}

func (e *ErrorImpl[MT]) Code() uint16 {
	return e.code.Code
}

func (e *ErrorImpl[MT]) CodeName() string {
	return e.code.Name
}

// Error() implements the error interface.
func (e *ErrorImpl[MT]) Error() string {
	return fmt.Sprintf("%s: %s", e.code.String(), e.cause.Error())
}

func (e *ErrorImpl[MT]) Unwrap() error {
	return e.cause
}

func (e *ErrorImpl[MT]) WithMetadata(metadata MT) TypedError[MT] {
	e.metadata = metadata
	return e
}

type InstructionMetadata struct {
	Data string `json:"data"`
}

type SymbolTooLongMetadata struct {
	Field     string `json:"field"`
	Length    int    `json:"length"`
	MaxLength int    `json:"max_length"`
}

type AuthorityMetadata struct {
	Mint     string `json:"mint"`
	Expected string `json:"expected,omitempty"`
	Got      string `json:"got"`
}

type ExtensionMetadata struct {
	Extension string `json:"extension"`
	Mint      string `json:"mint,omitempty"`
}

type OverflowMetadata struct {
	Destination       string `json:"destination"`
	DestinationAmount uint64 `json:"destination_amount"`
	SourceAmount      uint64 `json:"source_amount"`
}

type AccountMetadata struct {
	Account string `json:"account"`
}

type AccountDataMetadata struct {
	Account  string `json:"account,omitempty"`
	Length   int    `json:"length"`
	Expected int    `json:"expected"`
}

type NotEnoughAccountKeysMetadata struct {
	Got      int `json:"got"`
	Expected int `json:"expected"`
}

type UnbalancedTransactionMetadata struct {
	Before uint64 `json:"before"`
	After  uint64 `json:"after"`
}

// Registry error codes. The numeric values are part of the program's public
// interface: append new codes, never renumber.
var INVALID_INSTRUCTION = Code[InstructionMetadata]{
	0,
	"INVALID_INSTRUCTION",
	grpccodes.InvalidArgument,
}

var SYMBOL_TOO_LONG = Code[SymbolTooLongMetadata]{
	1,
	"SYMBOL_TOO_LONG",
	grpccodes.InvalidArgument,
}
var NO_AUTHORITY = Code[AuthorityMetadata]{2, "NO_AUTHORITY", grpccodes.PermissionDenied}

var NO_MINT_AUTHORITY = Code[AuthorityMetadata]{
	3,
	"NO_MINT_AUTHORITY",
	grpccodes.FailedPrecondition,
}
var OVERFLOW = Code[OverflowMetadata]{4, "OVERFLOW", grpccodes.OutOfRange}
var NO_REGISTRY = Code[ExtensionMetadata]{5, "NO_REGISTRY", grpccodes.NotFound}

var ALREADY_REGISTERED = Code[ExtensionMetadata]{
	6,
	"ALREADY_REGISTERED",
	grpccodes.AlreadyExists,
}

// Host error codes, reported by the runtime that invokes the program rather
// than by the program itself.
var MISSING_REQUIRED_SIGNATURE = Code[AccountMetadata]{
	1000,
	"MISSING_REQUIRED_SIGNATURE",
	grpccodes.Unauthenticated,
}

var INVALID_ACCOUNT_DATA = Code[AccountDataMetadata]{
	1001,
	"INVALID_ACCOUNT_DATA",
	grpccodes.InvalidArgument,
}

var NOT_ENOUGH_ACCOUNT_KEYS = Code[NotEnoughAccountKeysMetadata]{
	1002,
	"NOT_ENOUGH_ACCOUNT_KEYS",
	grpccodes.InvalidArgument,
}
var ACCOUNT_NOT_FOUND = Code[AccountMetadata]{1003, "ACCOUNT_NOT_FOUND", grpccodes.NotFound}

var READONLY_ACCOUNT_MODIFIED = Code[AccountMetadata]{
	1004,
	"READONLY_ACCOUNT_MODIFIED",
	grpccodes.PermissionDenied,
}

var EXTERNAL_ACCOUNT_MODIFIED = Code[AccountMetadata]{
	1005,
	"EXTERNAL_ACCOUNT_MODIFIED",
	grpccodes.PermissionDenied,
}

var UNBALANCED_TRANSACTION = Code[UnbalancedTransactionMetadata]{
	1006,
	"UNBALANCED_TRANSACTION",
	grpccodes.Internal,
}
var INVALID_SIGNATURE = Code[AccountMetadata]{1007, "INVALID_SIGNATURE", grpccodes.Unauthenticated}
