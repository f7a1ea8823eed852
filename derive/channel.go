package derive

import (
	"github.com/stellar/starlight/walletclient/event"
	"github.com/stellar/starlight/walletclient/ops"
)

// transition is a (State, PrevState) pair of a channel update.
type transition struct {
	State, PrevState event.State
}

// ChannelOps derives the channel operations of a channel update. Amounts on
// the update are the amounts after the transition, and the balances recorded
// on each operation are those before it.
//
// Transitions that are not listed derive no operations.
func ChannelOps(e event.ChannelEvent) []ops.ChannelOp {
	e = canonical(e)
	ch := e.Channel
	isHost := ch.IsHost()
	myBalance := ch.MyAmount()
	theirBalance := ch.TheirAmount()

	switch e.Trigger() {
	case event.TriggerTx:
		return txOps(e, isHost, myBalance, theirBalance)
	case event.TriggerMessage:
		return messageOps(e, isHost, myBalance, theirBalance)
	case event.TriggerCommand:
		return commandOps(e, isHost, myBalance, theirBalance)
	}
	return nil
}

func txOps(e event.ChannelEvent, isHost bool, myBalance, theirBalance int64) []ops.ChannelOp {
	ch := e.Channel
	ts := e.InputTx.LedgerTime
	switch ch.State {
	case event.StateOpen:
		if ch.RoundNumber == 1 {
			a := ops.Amounts{IsHost: isHost}
			if isHost {
				a.MyDelta = ch.HostAmount
			} else {
				a.TheirDelta = ch.HostAmount
			}
			return []ops.ChannelOp{ops.Deposit{Amounts: a, Timestamp: ts}}
		}
		topUp := e.InputTx.PaymentsTo(ch.EscrowAcct)
		a := ops.Amounts{IsHost: isHost}
		if isHost {
			a.MyDelta = topUp
		} else {
			a.TheirDelta = topUp
		}
		a.MyBalance = myBalance - a.MyDelta
		a.TheirBalance = theirBalance - a.TheirDelta
		return []ops.ChannelOp{ops.TopUp{Amounts: a, Timestamp: ts}}
	case event.StateClosed:
		return []ops.ChannelOp{ops.Withdrawal{
			Amounts: ops.Amounts{
				MyDelta:      -myBalance,
				TheirDelta:   -theirBalance,
				MyBalance:    myBalance,
				TheirBalance: theirBalance,
				IsHost:       isHost,
			},
			Timestamp: ts,
		}}
	}
	return nil
}

func canonical(e event.ChannelEvent) event.ChannelEvent {
	e.Channel.State = e.Channel.State.Canonical()
	e.Channel.PrevState = e.Channel.PrevState.Canonical()
	return e
}

func messageOps(e event.ChannelEvent, isHost bool, myBalance, theirBalance int64) []ops.ChannelOp {
	ch := e.Channel
	incoming := ops.IncomingChannelPayment{Amounts: ops.Amounts{
		MyDelta:      ch.PendingAmountReceived,
		TheirDelta:   -ch.PendingAmountReceived,
		MyBalance:    myBalance,
		TheirBalance: theirBalance,
		IsHost:       isHost,
	}}

	// Any message in AwaitingPaymentMerge is treated as a new proposal.
	if ch.State == event.StateAwaitingPaymentMerge {
		return []ops.ChannelOp{incoming}
	}

	switch (transition{ch.State, ch.PrevState}) {
	case transition{event.StateOpen, event.StatePaymentAccepted},
		transition{event.StateOpen, event.StatePaymentProposed}:
		return []ops.ChannelOp{ops.PaymentCompleted{Timestamp: e.UpdateLedgerTime, IsHost: isHost}}
	case transition{event.StatePaymentProposed, event.StatePaymentProposed},
		transition{event.StatePaymentAccepted, event.StateOpen}:
		return []ops.ChannelOp{incoming}
	case transition{event.StatePaymentAccepted, event.StateAwaitingPaymentMerge}:
		// Counted when the proposal arrived.
		return nil
	}
	return nil
}

func commandOps(e event.ChannelEvent, isHost bool, myBalance, theirBalance int64) []ops.ChannelOp {
	ch := e.Channel
	switch (transition{ch.State, ch.PrevState}) {
	case transition{event.StatePaymentProposed, event.StateOpen}:
		return []ops.ChannelOp{ops.OutgoingChannelPayment{Amounts: ops.Amounts{
			MyDelta:      -ch.PendingAmountSent,
			TheirDelta:   ch.PendingAmountSent,
			MyBalance:    myBalance,
			TheirBalance: theirBalance,
			IsHost:       isHost,
		}}}
	}
	// TODO: record TopUp commands, (Open, Open), as a pending top-up.
	return nil
}

// Known reports whether the transition of a channel update is one that
// ChannelOps maps. Callers use it to log transitions that derive nothing.
func Known(e event.ChannelEvent) bool {
	e = canonical(e)
	ch := e.Channel
	t := transition{ch.State, ch.PrevState}
	switch e.Trigger() {
	case event.TriggerTx:
		return ch.State == event.StateOpen || ch.State == event.StateClosed
	case event.TriggerMessage:
		if ch.State == event.StateAwaitingPaymentMerge {
			return true
		}
		switch t {
		case transition{event.StateOpen, event.StatePaymentAccepted},
			transition{event.StateOpen, event.StatePaymentProposed},
			transition{event.StatePaymentProposed, event.StatePaymentProposed},
			transition{event.StatePaymentAccepted, event.StateOpen},
			transition{event.StatePaymentAccepted, event.StateAwaitingPaymentMerge}:
			return true
		}
	case event.TriggerCommand:
		return t == transition{event.StatePaymentProposed, event.StateOpen}
	}
	return false
}
