// Package eventtest builds agent updates for tests.
package eventtest

import (
	"time"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
	"github.com/stellar/starlight/walletclient/event"
)

// AccountID returns the XDR JSON account id of a G address. It panics if the
// address is invalid.
func AccountID(address string) event.AccountID {
	raw := strkey.MustDecode(strkey.VersionByteAccountID, address)
	var key [32]byte
	copy(key[:], raw)
	return event.AccountID{Type: 0, Ed25519: &key}
}

// AccountIDPtr is AccountID returning a pointer, for operation sources.
func AccountIDPtr(address string) *event.AccountID {
	a := AccountID(address)
	return &a
}

// CreateAccount returns a create account operation.
func CreateAccount(dest string, startingBalance int64) event.Operation {
	return event.Operation{
		Body: event.OperationBody{
			Type: int32(xdr.OperationTypeCreateAccount),
			CreateAccountOp: &event.CreateAccountOp{
				Destination:     AccountID(dest),
				StartingBalance: startingBalance,
			},
		},
	}
}

// Payment returns a native payment operation.
func Payment(dest string, amount int64) event.Operation {
	return event.Operation{
		Body: event.OperationBody{
			Type: int32(xdr.OperationTypePayment),
			PaymentOp: &event.PaymentOp{
				Destination: AccountID(dest),
				Amount:      amount,
			},
		},
	}
}

// AccountMerge returns an account merge operation.
func AccountMerge(dest string) event.Operation {
	return event.Operation{
		Body: event.OperationBody{
			Type:        int32(xdr.OperationTypeAccountMerge),
			Destination: AccountIDPtr(dest),
		},
	}
}

// Tx returns a successful transaction from source containing ops, with one
// empty operation result per operation.
func Tx(source string, seqNum string, ledgerTime time.Time, ops ...event.Operation) *event.Tx {
	results := make([]event.OperationResult, len(ops))
	for i := range results {
		results[i] = event.OperationResult{Tr: &event.OperationResultTr{}}
	}
	return &event.Tx{
		Env: event.Envelope{
			Tx: event.Transaction{
				SourceAccount: AccountID(source),
				Fee:           100,
				Operations:    ops,
			},
		},
		Result: event.TxResult{
			FeeCharged: 100,
			Result: event.TxResultResult{
				Results: results,
			},
		},
		LedgerTime: ledgerTime,
		SeqNum:     seqNum,
	}
}

// WithMergeResult sets the account merge result of operation i of tx.
func WithMergeResult(tx *event.Tx, i int, balance int64) *event.Tx {
	tx.Result.Result.Results[i].Tr = &event.OperationResultTr{
		AccountMergeResult: &event.AccountMergeResult{
			SourceAccountBalance: &balance,
		},
	}
	return tx
}
