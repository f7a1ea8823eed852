package client

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/stellar/starlight/walletclient/derive"
	"github.com/stellar/starlight/walletclient/event"
)

// applyBatch applies a batch of events fetched while the state was at epoch.
// The batch is applied as a whole or not at all. If the state was cleared
// after the batch was fetched the batch is dropped.
func (c *Client) applyBatch(epoch uint64, events []event.Event) ([]Update, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		c.log.WithField("events", len(events)).Info("state cleared while fetching, dropping batch")
		return nil, c.state.ClientState.From, nil
	}

	s := c.state
	updates := make([]Update, 0, len(events))
	for _, e := range events {
		var u Update
		var err error
		s, u, err = c.applyEvent(s, e)
		if err != nil {
			return nil, c.state.ClientState.From, err
		}
		if u != nil {
			updates = append(updates, u)
		}
	}

	c.state = s
	return updates, s.ClientState.From, nil
}

// applyEvent returns the state after the event and the update to emit for
// it, if any. Events older than the cursor have been applied already and are
// skipped.
func (c *Client) applyEvent(s State, e event.Event) (State, Update, error) {
	h := e.Head()
	if h.UpdateNum < s.ClientState.From {
		c.log.WithField("update_num", h.UpdateNum).WithField("from", s.ClientState.From).Debug("skipping update already applied")
		return s, nil, nil
	}
	s.ClientState.From = h.UpdateNum + 1

	header := func() UpdateHeader {
		return UpdateHeader{
			Account:          h.Account,
			UpdateNum:        h.UpdateNum,
			UpdateLedgerTime: h.UpdateLedgerTime,
			ClientState: ClientState{
				From:      s.ClientState.From,
				Addresses: c.cache.Snapshot(),
			},
		}
	}

	switch e := e.(type) {
	case event.InitEvent:
		s.Config = e.Config
		s.Wallet = s.Wallet.WithAccount(e.Account.ID, e.Account.Balance)
		return s, InitUpdate{UpdateHeader: header(), Config: e.Config}, nil

	case event.ConfigEvent:
		s.Config = e.Config
		return s, ConfigUpdate{UpdateHeader: header(), Config: e.Config}, nil

	case event.AccountEvent:
		op, fromEscrow, err := derive.WalletOp(e, c.cache)
		if err != nil {
			return s, nil, err
		}
		if fromEscrow {
			s.Wallet = s.Wallet.WithAccount(e.Account.ID, e.Account.Balance)
			return s, AccountUpdate{UpdateHeader: header()}, nil
		}
		s.Wallet = s.Wallet.ApplyWalletOp(op, e.Account.Balance)
		return s, WalletActivityUpdate{UpdateHeader: header(), WalletOp: op}, nil

	case event.ChannelEvent:
		c.cache.ObserveChannel(e.Channel)
		channelOps := derive.ChannelOps(e)
		if len(channelOps) == 0 && e.Trigger() != event.TriggerTimeout && !derive.Known(e) {
			c.log.WithFields(logrus.Fields{
				"update_num": e.UpdateNum,
				"channel":    e.Channel.ID,
				"trigger":    e.Trigger().String(),
				"state":      e.Channel.State,
				"prev_state": e.Channel.PrevState,
			}).Debug("channel transition derives no operations")
		}
		s.Channels = s.Channels.Merge(e.Channel, channelOps)
		if len(channelOps) == 0 {
			return s, ChannelUpdate{UpdateHeader: header(), Channel: e.Channel}, nil
		}
		return s, ChannelActivityUpdate{UpdateHeader: header(), Channel: e.Channel, ChannelOps: channelOps}, nil

	case event.TxSuccessEvent:
		s.Wallet = s.Wallet.ApplyTxSuccess(e.SeqNum())
		return s, TxSuccessUpdate{UpdateHeader: header(), Tx: e.InputTx}, nil

	case event.TxFailedEvent:
		s.Wallet = s.Wallet.ApplyTxFailed(e.SeqNum())
		return s, TxFailureUpdate{UpdateHeader: header(), Tx: e.InputTx}, nil

	case event.WarningEvent:
		c.log.WithField("update_num", e.UpdateNum).Warn("agent warning: ", e.Warning)
		return s, nil, nil

	case event.UnknownEvent:
		c.log.WithField("update_num", e.UpdateNum).WithField("type", e.Type).Debug("skipping update of unknown type")
		return s, nil, nil

	default:
		return s, nil, fmt.Errorf("update %d: unexpected event %T", h.UpdateNum, e)
	}
}
