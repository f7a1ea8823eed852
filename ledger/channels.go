package ledger

import (
	"cmp"
	"maps"
	"slices"

	"github.com/stellar/starlight/walletclient/event"
	"github.com/stellar/starlight/walletclient/ops"
)

// ChannelEntry is the latest snapshot of a channel and the operations
// derived for it since it was opened.
type ChannelEntry struct {
	Channel event.Channel
	Ops     ops.ChannelOps
}

// Channels is the channel ledger, keyed by counterparty address.
type Channels map[string]ChannelEntry

// Merge returns the ledger with the channel snapshot stored and newOps added
// to its operations. A counterparty without an entry, or whose stored channel
// is closed, gets a fresh entry holding only newOps.
func (c Channels) Merge(ch event.Channel, newOps []ops.ChannelOp) Channels {
	next := maps.Clone(c)
	if next == nil {
		next = Channels{}
	}
	key := ch.CounterpartyAddress
	existing, ok := c[key]
	if !ok || existing.Channel.State == event.StateClosed {
		next[key] = ChannelEntry{
			Channel: ch,
			Ops:     append(ops.ChannelOps{}, newOps...),
		}
		return next
	}
	next[key] = ChannelEntry{
		Channel: ch,
		Ops:     append(slices.Clip(existing.Ops), newOps...),
	}
	return next
}

// ByID returns the entry of the channel with the given ID.
func (c Channels) ByID(id string) (ChannelEntry, bool) {
	for _, e := range c {
		if e.Channel.ID == id {
			return e, true
		}
	}
	return ChannelEntry{}, false
}

// MyBalance returns the local party's balance in the channel, or 0 if the
// channel is closed or not yet set up.
func (e ChannelEntry) MyBalance() int64 {
	if !e.live() {
		return 0
	}
	return e.Channel.MyAmount()
}

// TheirBalance returns the counterparty's balance in the channel, or 0 if the
// channel is closed or not yet set up.
func (e ChannelEntry) TheirBalance() int64 {
	if !e.live() {
		return 0
	}
	return e.Channel.TheirAmount()
}

// MyAccount returns the local party's wallet account.
func (e ChannelEntry) MyAccount() string {
	return e.Channel.MyAcct()
}

// TheirAccount returns the counterparty's wallet account.
func (e ChannelEntry) TheirAccount() string {
	return e.Channel.TheirAcct()
}

func (e ChannelEntry) live() bool {
	s := e.Channel.State
	return s != event.StateClosed && s != event.StateStart
}

// Sorted returns the entries ordered by funding time, earliest first.
func (c Channels) Sorted() []ChannelEntry {
	entries := slices.Collect(maps.Values(c))
	slices.SortStableFunc(entries, func(a, b ChannelEntry) int {
		if n := a.Channel.FundingTime.Compare(b.Channel.FundingTime); n != 0 {
			return n
		}
		return cmp.Compare(a.Channel.CounterpartyAddress, b.Channel.CounterpartyAddress)
	})
	return entries
}

// CounterpartyAccounts maps the wallet account of each counterparty to its
// address.
func (c Channels) CounterpartyAccounts() map[string]string {
	accounts := map[string]string{}
	for _, e := range c {
		accounts[e.TheirAccount()] = e.Channel.CounterpartyAddress
	}
	return accounts
}

// EscrowAccounts maps the escrow account of each channel to the counterparty
// address.
func (c Channels) EscrowAccounts() map[string]string {
	accounts := map[string]string{}
	for _, e := range c {
		accounts[e.Channel.EscrowAcct] = e.Channel.CounterpartyAddress
	}
	return accounts
}

// NumOpenHostChannels returns the number of channels that are not closed in
// which the local party is host.
func (c Channels) NumOpenHostChannels() int {
	n := 0
	for _, e := range c {
		if e.Channel.IsHost() && e.Channel.State != event.StateClosed {
			n++
		}
	}
	return n
}

// TotalBalance returns the sum of the local party's balances across channels.
func (c Channels) TotalBalance() int64 {
	var sum int64
	for _, e := range c {
		sum += e.MyBalance()
	}
	return sum
}

// TotalCounterpartyBalance returns the sum of the counterparties' balances
// across channels.
func (c Channels) TotalCounterpartyBalance() int64 {
	var sum int64
	for _, e := range c {
		sum += e.TheirBalance()
	}
	return sum
}
