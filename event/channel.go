package event

import (
	"time"
)

// Role is the role of the local party in a channel.
type Role string

const (
	RoleHost  Role = "Host"
	RoleGuest Role = "Guest"
)

// State is a state of the agent's channel state machine.
type State string

const (
	StateStart                     State = ""
	StateSettingUp                 State = "SettingUp"
	StateChannelProposed           State = "ChannelProposed"
	StateAwaitingFunding           State = "AwaitingFunding"
	StateOpen                      State = "Open"
	StatePaymentProposed           State = "PaymentProposed"
	StatePaymentAccepted           State = "PaymentAccepted"
	StateAwaitingPaymentMerge      State = "AwaitingPaymentMerge"
	StateAwaitingClose             State = "AwaitingClose"
	StateAwaitingRatchet           State = "AwaitingRatchet"
	StateAwaitingSettlementMintime State = "AwaitingSettlementMintime"
	StateAwaitingSettlement        State = "AwaitingSettlement"
	StateAwaitingCleanup           State = "AwaitingCleanup"
	StateClosed                    State = "Closed"

	// StateAwaitingMerge is another name some agents report for
	// StateAwaitingPaymentMerge.
	StateAwaitingMerge State = "AwaitingMerge"
)

// Canonical returns the state with alternate names mapped to the state
// constants above.
func (s State) Canonical() State {
	if s == StateAwaitingMerge {
		return StateAwaitingPaymentMerge
	}
	return s
}

// Channel is a snapshot of one channel as reported by the agent. Amounts are
// in stroops and are the amounts after the transition that produced the
// snapshot.
type Channel struct {
	ID                    string
	Role                  Role
	State                 State
	PrevState             State
	CounterpartyAddress   string
	RemoteURL             string
	RoundNumber           uint64
	MaxRoundDuration      time.Duration
	FinalityDelay         time.Duration
	ChannelFeerate        int64
	HostFeerate           int64
	FundingTime           time.Time
	PaymentTime           time.Time
	HostAmount            int64
	GuestAmount           int64
	TopUpAmount           int64
	PendingAmountSent     int64
	PendingAmountReceived int64
	HostAcct              string
	GuestAcct             string
	EscrowAcct            string
	HostRatchetAcct       string
	GuestRatchetAcct      string
}

// IsHost reports whether the local party is the host of the channel.
func (c Channel) IsHost() bool {
	return c.Role == RoleHost
}

// MyAmount returns the local party's balance in the channel.
func (c Channel) MyAmount() int64 {
	if c.IsHost() {
		return c.HostAmount
	}
	return c.GuestAmount
}

// TheirAmount returns the counterparty's balance in the channel.
func (c Channel) TheirAmount() int64 {
	if c.IsHost() {
		return c.GuestAmount
	}
	return c.HostAmount
}

// MyAcct returns the local party's wallet account.
func (c Channel) MyAcct() string {
	if c.IsHost() {
		return c.HostAcct
	}
	return c.GuestAcct
}

// TheirAcct returns the counterparty's wallet account.
func (c Channel) TheirAcct() string {
	if c.IsHost() {
		return c.GuestAcct
	}
	return c.HostAcct
}
