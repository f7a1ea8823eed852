package ledger

import (
	"iter"
	"slices"
	"time"

	"github.com/stellar/starlight/walletclient/ops"
)

// Activity is one channel operation for display.
type Activity struct {
	Op           ops.ChannelOp
	Timestamp    time.Time
	Pending      bool
	ChannelID    string
	Counterparty string
	IsHost       bool
}

// Activity yields the channel's operations newest first, resolving whether
// each payment is still pending.
//
// Payments are pending until a later PaymentCompleted, which is not itself
// yielded, settles them and gives them its timestamp. Deposits, top ups and
// withdrawals have their transaction time and settle every earlier payment.
// The sequence is computed from Ops on each iteration.
func (e ChannelEntry) Activity() iter.Seq[Activity] {
	return func(yield func(Activity) bool) {
		pending := true
		var timestamp time.Time
		for i := len(e.Ops) - 1; i >= 0; i-- {
			op := e.Ops[i]
			switch op := op.(type) {
			case ops.PaymentCompleted:
				pending = false
				timestamp = op.Timestamp
				continue
			case ops.Deposit:
				pending = false
				timestamp = op.Timestamp
			case ops.TopUp:
				pending = false
				timestamp = op.Timestamp
			case ops.Withdrawal:
				pending = false
				timestamp = op.Timestamp
			}
			a := Activity{
				Op:           op,
				Timestamp:    timestamp,
				Pending:      pending,
				ChannelID:    e.Channel.ID,
				Counterparty: e.Channel.CounterpartyAddress,
				IsHost:       e.Channel.IsHost(),
			}
			if !yield(a) {
				return
			}
		}
	}
}

// ChannelActivity returns the activity of the channel newest first.
func ChannelActivity(e ChannelEntry) []Activity {
	return slices.Collect(e.Activity())
}
