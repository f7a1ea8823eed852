// Package derive turns agent updates into wallet and channel operations.
//
// The functions in this package are pure: the same update, and the same
// known accounts, always derive the same operations.
package derive

import (
	"errors"
	"fmt"

	"github.com/stellar/go/xdr"
	"github.com/stellar/starlight/walletclient/event"
	"github.com/stellar/starlight/walletclient/ops"
)

var (
	// ErrMissingMergeResult is returned when an account merge operation has
	// no merge result in its transaction result.
	ErrMissingMergeResult = errors.New("account merge result unexpectedly missing")

	// ErrUnhandledOperation is returned when an account update cannot be
	// mapped to a wallet operation.
	ErrUnhandledOperation = errors.New("unhandled wallet operation")
)

// Accounts looks up accounts the client has learned about from channels.
type Accounts interface {
	// CounterpartyForEscrow returns the counterparty address of the channel
	// with the given escrow account.
	CounterpartyForEscrow(account string) (string, bool)
	// AddressForAccount returns the federation address of a counterparty
	// account.
	AddressForAccount(account string) (string, bool)
}

// WalletOp derives the wallet operation of an account update.
//
// The second result reports whether the update's transaction was submitted
// by a known channel escrow account. Such updates are channel activity and no
// operation is returned for them.
func WalletOp(e event.AccountEvent, known Accounts) (ops.WalletOp, bool, error) {
	if e.InputTx == nil {
		if e.InputCommand == nil {
			return nil, false, fmt.Errorf("account update %d has no input: %w", e.UpdateNum, ErrUnhandledOperation)
		}
		return ops.OutgoingPayment{
			Amount:    e.InputCommand.Amount,
			Recipient: e.InputCommand.Recipient,
			Timestamp: e.InputCommand.Time,
			Sequence:  e.PendingSequence,
			Pending:   true,
			Failed:    false,
		}, false, nil
	}

	tx := e.InputTx
	if txSource, err := tx.SourceAddress(); err == nil {
		if _, ok := known.CounterpartyForEscrow(txSource); ok {
			return nil, true, nil
		}
	}

	op, ok := tx.Operation(e.OpIndex)
	if !ok {
		return nil, false, fmt.Errorf("account update %d: operation %d out of range: %w", e.UpdateNum, e.OpIndex, ErrUnhandledOperation)
	}
	source, err := tx.OperationSourceAddress(e.OpIndex)
	if err != nil {
		return nil, false, fmt.Errorf("account update %d: source account: %w", e.UpdateNum, err)
	}
	received := ops.Received{
		SourceAccount: source,
		Timestamp:     tx.LedgerTime,
	}
	if addr, ok := known.AddressForAccount(source); ok {
		received.Counterparty = addr
	}

	switch op.Body.OperationType() {
	case xdr.OperationTypeCreateAccount:
		if op.Body.CreateAccountOp == nil {
			break
		}
		received.Amount = op.Body.CreateAccountOp.StartingBalance
		return ops.CreateAccount{Received: received}, false, nil
	case xdr.OperationTypePayment:
		if op.Body.PaymentOp == nil {
			break
		}
		received.Amount = op.Body.PaymentOp.Amount
		return ops.IncomingPayment{Received: received}, false, nil
	case xdr.OperationTypeAccountMerge:
		balance, ok := tx.MergeBalance(e.OpIndex)
		if !ok {
			return nil, false, fmt.Errorf("account update %d: %w", e.UpdateNum, ErrMissingMergeResult)
		}
		received.Amount = balance
		return ops.AccountMerge{Received: received}, false, nil
	}
	return nil, false, fmt.Errorf("account update %d: operation type %d: %w", e.UpdateNum, op.Body.Type, ErrUnhandledOperation)
}
