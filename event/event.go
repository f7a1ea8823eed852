package event

import (
	"time"
)

// Type is the type of an update in the agent's log.
type Type string

const (
	TypeInit      Type = "init"
	TypeConfig    Type = "config"
	TypeAccount   Type = "account"
	TypeChannel   Type = "channel"
	TypeTxSuccess Type = "tx_success"
	TypeTxFailed  Type = "tx_failed"
	TypeWarning   Type = "warning"
)

// Event is an entry in the agent's update log. It is implemented by the
// variant types in this package only.
type Event interface {
	Head() Header
	isEvent()
}

// Header holds the fields present on every update.
type Header struct {
	UpdateNum        uint64
	UpdateLedgerTime time.Time
	Account          Account
}

// Head returns the header. It is promoted to every variant.
func (h Header) Head() Header {
	return h
}

// Account is the wallet account of the agent as of the update.
type Account struct {
	Balance int64
	ID      string
}

// Config is the agent configuration visible to the client.
type Config struct {
	Username   string
	HorizonURL string
}

// Command is a user command accepted by the agent, either a wallet payment
// reservation or a channel command.
type Command struct {
	Name      string
	Amount    int64
	Time      time.Time
	Recipient string
}

// Message is a channel protocol message received from the counterparty.
type Message struct {
	ChannelID string
	MsgNum    uint64
}

// InitEvent is the first update of a configured agent.
type InitEvent struct {
	Header
	Config Config
}

// ConfigEvent reports an edit of the agent configuration.
type ConfigEvent struct {
	Header
	Config Config
}

// AccountEvent reports activity on the wallet account. A command-originated
// reservation has InputCommand set and InputTx nil; a transaction-originated
// event has InputTx set and OpIndex names the operation in it.
type AccountEvent struct {
	Header
	InputCommand    *Command
	InputTx         *Tx
	OpIndex         int
	PendingSequence string
}

// ChannelEvent reports a transition of one channel's state machine.
type ChannelEvent struct {
	Header
	Channel         Channel
	InputCommand    *Command
	InputMessage    *Message
	InputTx         *Tx
	InputLedgerTime time.Time
}

// TxSuccessEvent reports that a wallet transaction was included in a ledger.
type TxSuccessEvent struct {
	Header
	InputTx *Tx
}

// TxFailedEvent reports that a wallet transaction failed.
type TxFailedEvent struct {
	Header
	InputTx *Tx
}

// WarningEvent carries an agent warning.
type WarningEvent struct {
	Header
	Warning string
}

// UnknownEvent carries an update whose type the client does not know.
type UnknownEvent struct {
	Header
	Type Type
}

func (InitEvent) isEvent()      {}
func (ConfigEvent) isEvent()    {}
func (AccountEvent) isEvent()   {}
func (ChannelEvent) isEvent()   {}
func (TxSuccessEvent) isEvent() {}
func (TxFailedEvent) isEvent()  {}
func (WarningEvent) isEvent()   {}
func (UnknownEvent) isEvent()   {}

// Trigger is the input that caused a channel transition.
type Trigger int

const (
	TriggerTimeout Trigger = iota
	TriggerTx
	TriggerMessage
	TriggerCommand
)

func (t Trigger) String() string {
	switch t {
	case TriggerTx:
		return "tx"
	case TriggerMessage:
		return "message"
	case TriggerCommand:
		return "command"
	}
	return "timeout"
}

// Trigger returns the kind of input that caused the event.
func (e ChannelEvent) Trigger() Trigger {
	switch {
	case e.InputTx != nil:
		return TriggerTx
	case e.InputMessage != nil:
		return TriggerMessage
	case e.InputCommand != nil:
		return TriggerCommand
	}
	return TriggerTimeout
}

// IsTimeout reports whether the event was caused by a ledger timer.
func (e ChannelEvent) IsTimeout() bool {
	return !e.InputLedgerTime.IsZero()
}

// SeqNum returns the sequence number of the transaction, or "" if there is
// none.
func (e TxSuccessEvent) SeqNum() string {
	if e.InputTx == nil {
		return ""
	}
	return e.InputTx.SeqNum
}

// SeqNum returns the sequence number of the transaction, or "" if there is
// none.
func (e TxFailedEvent) SeqNum() string {
	if e.InputTx == nil {
		return ""
	}
	return e.InputTx.SeqNum
}
