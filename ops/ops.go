// Package ops defines the operations the wallet client derives from agent
// updates: wallet operations on the wallet account and channel operations
// describing balance changes inside a channel.
//
// Both are closed sets. WalletOp and ChannelOp are implemented only by the
// types in this package, and the Type constants name each variant in JSON.
package ops

import (
	"time"
)

// Type names a variant of WalletOp or ChannelOp.
type Type string

const (
	TypeCreateAccount   Type = "createAccount"
	TypeIncomingPayment Type = "incomingPayment"
	TypeOutgoingPayment Type = "outgoingPayment"
	TypeAccountMerge    Type = "accountMerge"

	TypeDeposit                Type = "deposit"
	TypeTopUp                  Type = "topUp"
	TypeWithdrawal             Type = "withdrawal"
	TypeOutgoingChannelPayment Type = "outgoingChannelPayment"
	TypeIncomingChannelPayment Type = "incomingChannelPayment"
	TypePaymentCompleted       Type = "paymentCompleted"
)

// WalletOp is an operation on the wallet account.
type WalletOp interface {
	Type() Type
	// Delta is the change in the wallet balance, negative for outgoing
	// payments.
	Delta() int64
	// Time is when the operation happened or, for a reservation, when it
	// was requested.
	Time() time.Time
	isWalletOp()
}

// Received is the common shape of operations that credit the wallet.
type Received struct {
	Amount        int64
	SourceAccount string
	// Counterparty is the federation address of SourceAccount when it is
	// known to be a channel counterparty.
	Counterparty string `json:",omitempty"`
	Timestamp    time.Time
}

// CreateAccount is the creation of the wallet account.
type CreateAccount struct{ Received }

// IncomingPayment is a payment into the wallet account.
type IncomingPayment struct{ Received }

// AccountMerge is an account merged into the wallet account.
type AccountMerge struct{ Received }

// OutgoingPayment is a payment from the wallet account. It is recorded when
// the agent reserves it and is resolved when the transaction with Sequence
// succeeds or fails.
type OutgoingPayment struct {
	Amount    int64
	Recipient string
	Timestamp time.Time
	Sequence  string
	Pending   bool
	Failed    bool
}

func (CreateAccount) Type() Type   { return TypeCreateAccount }
func (IncomingPayment) Type() Type { return TypeIncomingPayment }
func (AccountMerge) Type() Type    { return TypeAccountMerge }
func (OutgoingPayment) Type() Type { return TypeOutgoingPayment }

func (r Received) Delta() int64        { return r.Amount }
func (o OutgoingPayment) Delta() int64 { return -o.Amount }

func (r Received) Time() time.Time        { return r.Timestamp }
func (o OutgoingPayment) Time() time.Time { return o.Timestamp }

func (CreateAccount) isWalletOp()   {}
func (IncomingPayment) isWalletOp() {}
func (AccountMerge) isWalletOp()    {}
func (OutgoingPayment) isWalletOp() {}

// ChannelOp is a change inside one channel.
type ChannelOp interface {
	Type() Type
	Host() bool
	isChannelOp()
}

// Amounts holds balance deltas of a channel operation and the balances before
// it, from the point of view of the local party.
type Amounts struct {
	MyDelta      int64
	TheirDelta   int64
	MyBalance    int64
	TheirBalance int64
	IsHost       bool
}

func (a Amounts) Host() bool { return a.IsHost }

// Deposit is the funding of a channel.
type Deposit struct {
	Amounts
	Timestamp time.Time
}

// TopUp is an additional deposit by the host into an open channel.
type TopUp struct {
	Amounts
	Timestamp time.Time
}

// Withdrawal is the payout of both balances when a channel closes.
type Withdrawal struct {
	Amounts
	Timestamp time.Time
}

// OutgoingChannelPayment is a payment proposed by the local party.
type OutgoingChannelPayment struct{ Amounts }

// IncomingChannelPayment is a payment proposed by the counterparty.
type IncomingChannelPayment struct{ Amounts }

// PaymentCompleted marks that every earlier payment in the channel is
// settled. It carries no balance change.
type PaymentCompleted struct {
	Timestamp time.Time
	IsHost    bool
}

func (PaymentCompleted) Type() Type       { return TypePaymentCompleted }
func (p PaymentCompleted) Host() bool     { return p.IsHost }
func (Deposit) Type() Type                { return TypeDeposit }
func (TopUp) Type() Type                  { return TypeTopUp }
func (Withdrawal) Type() Type             { return TypeWithdrawal }
func (OutgoingChannelPayment) Type() Type { return TypeOutgoingChannelPayment }
func (IncomingChannelPayment) Type() Type { return TypeIncomingChannelPayment }

func (Deposit) isChannelOp()                {}
func (TopUp) isChannelOp()                  {}
func (Withdrawal) isChannelOp()             {}
func (OutgoingChannelPayment) isChannelOp() {}
func (IncomingChannelPayment) isChannelOp() {}
func (PaymentCompleted) isChannelOp()       {}
