package client

import (
	"time"

	"github.com/stellar/starlight/walletclient/event"
	"github.com/stellar/starlight/walletclient/ops"
)

// UpdateType names the kind of an Update.
type UpdateType string

const (
	TypeInitUpdate            UpdateType = "initUpdate"
	TypeConfigUpdate          UpdateType = "configUpdate"
	TypeAccountUpdate         UpdateType = "accountUpdate"
	TypeWalletActivityUpdate  UpdateType = "walletActivityUpdate"
	TypeChannelUpdate         UpdateType = "channelUpdate"
	TypeChannelActivityUpdate UpdateType = "channelActivityUpdate"
	TypeTxSuccessUpdate       UpdateType = "txSuccessUpdate"
	TypeTxFailureUpdate       UpdateType = "txFailureUpdate"
)

// Update is emitted to the subscriber for each agent update the client has
// applied. It is one of InitUpdate, ConfigUpdate, AccountUpdate,
// WalletActivityUpdate, ChannelUpdate, ChannelActivityUpdate,
// TxSuccessUpdate or TxFailureUpdate.
type Update interface {
	Type() UpdateType
	Head() UpdateHeader
	isUpdate()
}

// UpdateHeader holds the fields common to all updates.
type UpdateHeader struct {
	Account          event.Account
	UpdateNum        uint64
	UpdateLedgerTime time.Time
	// ClientState is the client state as it was right after the update was
	// applied.
	ClientState ClientState
}

func (h UpdateHeader) Head() UpdateHeader {
	return h
}

type InitUpdate struct {
	UpdateHeader
	Config event.Config
}

type ConfigUpdate struct {
	UpdateHeader
	Config event.Config
}

// AccountUpdate is a change to the wallet account made by a channel. The
// channel updates describe the activity.
type AccountUpdate struct {
	UpdateHeader
}

type WalletActivityUpdate struct {
	UpdateHeader
	WalletOp ops.WalletOp
}

// ChannelUpdate is a change to a channel that is not activity, such as a step
// of its setup.
type ChannelUpdate struct {
	UpdateHeader
	Channel event.Channel
}

type ChannelActivityUpdate struct {
	UpdateHeader
	Channel    event.Channel
	ChannelOps []ops.ChannelOp
}

type TxSuccessUpdate struct {
	UpdateHeader
	Tx *event.Tx
}

type TxFailureUpdate struct {
	UpdateHeader
	Tx *event.Tx
}

func (InitUpdate) Type() UpdateType            { return TypeInitUpdate }
func (ConfigUpdate) Type() UpdateType          { return TypeConfigUpdate }
func (AccountUpdate) Type() UpdateType         { return TypeAccountUpdate }
func (WalletActivityUpdate) Type() UpdateType  { return TypeWalletActivityUpdate }
func (ChannelUpdate) Type() UpdateType         { return TypeChannelUpdate }
func (ChannelActivityUpdate) Type() UpdateType { return TypeChannelActivityUpdate }
func (TxSuccessUpdate) Type() UpdateType       { return TypeTxSuccessUpdate }
func (TxFailureUpdate) Type() UpdateType       { return TypeTxFailureUpdate }

func (InitUpdate) isUpdate()            {}
func (ConfigUpdate) isUpdate()          {}
func (AccountUpdate) isUpdate()         {}
func (WalletActivityUpdate) isUpdate()  {}
func (ChannelUpdate) isUpdate()         {}
func (ChannelActivityUpdate) isUpdate() {}
func (TxSuccessUpdate) isUpdate()       {}
func (TxFailureUpdate) isUpdate()       {}
