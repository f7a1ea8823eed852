package event

import (
	"errors"
	"fmt"
	"time"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

// Tx is a Stellar transaction as reported by the agent.
type Tx struct {
	Env    Envelope
	Result TxResult

	// The following fields may not be available for failed transactions.

	PT         string
	LedgerNum  int32
	LedgerTime time.Time
	SeqNum     string
}

// Envelope is the transaction envelope.
type Envelope struct {
	Tx Transaction
}

// Transaction is the body of a transaction envelope.
type Transaction struct {
	SourceAccount AccountID
	Fee           uint32
	Operations    []Operation
}

// AccountID is an account key in the JSON projection of XDR.
type AccountID struct {
	Type    int32
	Ed25519 *[32]byte
}

var errNoKey = errors.New("account id has no ed25519 key")

// Address returns the G address of the account.
func (a AccountID) Address() (string, error) {
	if a.Ed25519 == nil {
		return "", errNoKey
	}
	addr, err := strkey.Encode(strkey.VersionByteAccountID, a.Ed25519[:])
	if err != nil {
		return "", fmt.Errorf("encoding account id: %w", err)
	}
	return addr, nil
}

// Operation is one operation of a transaction.
type Operation struct {
	SourceAccount *AccountID
	Body          OperationBody
}

// OperationBody is the operation union. Only the arms the wallet client reads
// are modeled.
type OperationBody struct {
	Type            int32
	CreateAccountOp *CreateAccountOp
	PaymentOp       *PaymentOp
	Destination     *AccountID
}

// OperationType returns the XDR operation type of the body.
func (b OperationBody) OperationType() xdr.OperationType {
	return xdr.OperationType(b.Type)
}

type CreateAccountOp struct {
	Destination     AccountID
	StartingBalance int64
}

type PaymentOp struct {
	Destination AccountID
	Amount      int64
}

// TxResult is the result of a transaction.
type TxResult struct {
	FeeCharged int64
	Result     TxResultResult
}

type TxResultResult struct {
	Code    int32
	Results []OperationResult
}

type OperationResult struct {
	Code int32
	Tr   *OperationResultTr
}

type OperationResultTr struct {
	AccountMergeResult *AccountMergeResult
}

type AccountMergeResult struct {
	Code                 int32
	SourceAccountBalance *int64
}

// Operation returns the operation at index i.
func (tx *Tx) Operation(i int) (Operation, bool) {
	ops := tx.Env.Tx.Operations
	if i < 0 || i >= len(ops) {
		return Operation{}, false
	}
	return ops[i], true
}

// SourceAddress returns the G address of the transaction source account.
func (tx *Tx) SourceAddress() (string, error) {
	return tx.Env.Tx.SourceAccount.Address()
}

// OperationSourceAddress returns the G address of the source of the
// operation at index i, falling back to the transaction source account when
// the operation has none.
func (tx *Tx) OperationSourceAddress(i int) (string, error) {
	op, ok := tx.Operation(i)
	if ok && op.SourceAccount != nil {
		return op.SourceAccount.Address()
	}
	return tx.SourceAddress()
}

// MergeBalance returns the source account balance reported in the result of
// the account merge operation at index i.
func (tx *Tx) MergeBalance(i int) (int64, bool) {
	results := tx.Result.Result.Results
	if i < 0 || i >= len(results) {
		return 0, false
	}
	tr := results[i].Tr
	if tr == nil || tr.AccountMergeResult == nil || tr.AccountMergeResult.SourceAccountBalance == nil {
		return 0, false
	}
	return *tr.AccountMergeResult.SourceAccountBalance, true
}

// PaymentsTo returns the sum of payment operations in the transaction whose
// destination is the given G address.
func (tx *Tx) PaymentsTo(address string) int64 {
	var sum int64
	for _, op := range tx.Env.Tx.Operations {
		if op.Body.OperationType() != xdr.OperationTypePayment || op.Body.PaymentOp == nil {
			continue
		}
		dest, err := op.Body.PaymentOp.Destination.Address()
		if err != nil || dest != address {
			continue
		}
		sum += op.Body.PaymentOp.Amount
	}
	return sum
}
