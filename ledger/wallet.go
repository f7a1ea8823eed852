// Package ledger holds the wallet and channel ledgers of the wallet client.
//
// Ledgers are values. Every method that changes a ledger returns a new value
// and leaves the receiver as it was, so snapshots handed to readers never
// change underneath them.
package ledger

import (
	"maps"
	"slices"
	"time"

	"github.com/stellar/starlight/walletclient/ops"
)

// Wallet is the ledger of the wallet account.
type Wallet struct {
	ID      string
	Balance int64
	Ops     ops.WalletOps
	// Pending maps the sequence number of an outgoing payment awaiting its
	// transaction result to the index of the payment in Ops.
	Pending map[string]int
}

// WithAccount returns the wallet with the account ID and balance set.
func (w Wallet) WithAccount(id string, balance int64) Wallet {
	if id != "" {
		w.ID = id
	}
	w.Balance = balance
	return w
}

// ApplyWalletOp returns the wallet with op appended and the balance set.
// Outgoing payments are tracked as pending by their sequence number, and a
// later payment with the same sequence number replaces the tracked index.
func (w Wallet) ApplyWalletOp(op ops.WalletOp, balance int64) Wallet {
	next := Wallet{
		ID:      w.ID,
		Balance: balance,
		Ops:     append(slices.Clip(w.Ops), op),
		Pending: maps.Clone(w.Pending),
	}
	if p, ok := op.(ops.OutgoingPayment); ok {
		if next.Pending == nil {
			next.Pending = map[string]int{}
		}
		next.Pending[p.Sequence] = len(next.Ops) - 1
	}
	return next
}

// ApplyTxSuccess returns the wallet with the outgoing payment waiting on
// sequence marked as no longer pending. An unknown sequence number leaves the
// wallet unchanged.
func (w Wallet) ApplyTxSuccess(sequence string) Wallet {
	return w.resolve(sequence, false)
}

// ApplyTxFailed returns the wallet with the outgoing payment waiting on
// sequence marked as failed. An unknown sequence number leaves the wallet
// unchanged.
func (w Wallet) ApplyTxFailed(sequence string) Wallet {
	return w.resolve(sequence, true)
}

func (w Wallet) resolve(sequence string, failed bool) Wallet {
	i, ok := w.Pending[sequence]
	if !ok || i < 0 || i >= len(w.Ops) {
		return w
	}
	p, ok := w.Ops[i].(ops.OutgoingPayment)
	if !ok {
		return w
	}
	p.Pending = false
	p.Failed = failed

	next := Wallet{
		ID:      w.ID,
		Balance: w.Balance,
		Ops:     slices.Clone(w.Ops),
		Pending: maps.Clone(w.Pending),
	}
	next.Ops[i] = p
	delete(next.Pending, sequence)
	return next
}

// WalletActivity is one wallet operation for display.
type WalletActivity struct {
	Op      ops.WalletOp
	Pending bool
	// Timestamp is zero while the operation is pending.
	Timestamp time.Time
}

// Activity returns the wallet operations for display, oldest first.
func (w Wallet) Activity() []WalletActivity {
	activity := make([]WalletActivity, 0, len(w.Ops))
	for _, op := range w.Ops {
		a := WalletActivity{Op: op, Timestamp: op.Time()}
		if p, ok := op.(ops.OutgoingPayment); ok && p.Pending {
			a.Pending = true
			a.Timestamp = time.Time{}
		}
		activity = append(activity, a)
	}
	return activity
}
