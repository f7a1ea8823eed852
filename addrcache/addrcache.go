// Package addrcache maps Stellar federation addresses to the accounts they
// resolve to, and the escrow accounts of channels to their counterparties.
package addrcache

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/stellar/starlight/walletclient/event"
)

// ErrNotFound is returned by a Resolver when an address does not resolve.
var ErrNotFound = errors.New("address not found")

// Resolver resolves a federation address to an account ID.
type Resolver interface {
	Resolve(ctx context.Context, address string) (string, error)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(ctx context.Context, address string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, address string) (string, error) {
	return f(ctx, address)
}

// Snapshot is a copy of the cache contents.
type Snapshot struct {
	AddressToAccount        map[string]string
	AccountToAddress        map[string]string
	ChannelAccountToAddress map[string]string
}

// Cache is safe for concurrent use.
type Cache struct {
	resolver Resolver

	mu                      sync.RWMutex
	addressToAccount        map[string]string
	accountToAddress        map[string]string
	channelAccountToAddress map[string]string
}

// New returns a cache that resolves addresses it does not hold with
// resolver, starting with the contents of s.
func New(resolver Resolver, s Snapshot) *Cache {
	c := &Cache{
		resolver:                resolver,
		addressToAccount:        maps.Clone(s.AddressToAccount),
		accountToAddress:        maps.Clone(s.AccountToAddress),
		channelAccountToAddress: maps.Clone(s.ChannelAccountToAddress),
	}
	if c.addressToAccount == nil {
		c.addressToAccount = map[string]string{}
	}
	if c.accountToAddress == nil {
		c.accountToAddress = map[string]string{}
	}
	if c.channelAccountToAddress == nil {
		c.channelAccountToAddress = map[string]string{}
	}
	return c
}

// Resolve returns the account ID of the federation address. Addresses
// already in the cache are returned without calling the resolver.
func (c *Cache) Resolve(ctx context.Context, address string) (string, error) {
	if account, ok := c.AccountForAddress(address); ok {
		return account, nil
	}
	if c.resolver == nil {
		return "", fmt.Errorf("resolving %s: %w", address, ErrNotFound)
	}
	account, err := c.resolver.Resolve(ctx, address)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", address, err)
	}
	c.Put(address, account)
	return account, nil
}

// Put records that address resolves to account.
func (c *Cache) Put(address, account string) {
	if address == "" || account == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addressToAccount[address] = account
	c.accountToAddress[account] = address
}

// ObserveChannel records the escrow account and the counterparty account of
// a channel.
func (c *Cache) ObserveChannel(ch event.Channel) {
	addr := ch.CounterpartyAddress
	if addr == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch.EscrowAcct != "" {
		c.channelAccountToAddress[ch.EscrowAcct] = addr
	}
	if acct := ch.TheirAcct(); acct != "" {
		c.addressToAccount[addr] = acct
		c.accountToAddress[acct] = addr
	}
}

// AccountForAddress returns the cached account of a federation address.
func (c *Cache) AccountForAddress(address string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.addressToAccount[address]
	return a, ok
}

// AddressForAccount returns the cached federation address of an account.
func (c *Cache) AddressForAccount(account string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.accountToAddress[account]
	return a, ok
}

// CounterpartyForEscrow returns the counterparty address of the channel with
// the given escrow account.
func (c *Cache) CounterpartyForEscrow(account string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.channelAccountToAddress[account]
	return a, ok
}

// Snapshot returns a copy of the cache contents.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		AddressToAccount:        maps.Clone(c.addressToAccount),
		AccountToAddress:        maps.Clone(c.accountToAddress),
		ChannelAccountToAddress: maps.Clone(c.channelAccountToAddress),
	}
}

// Reset empties the cache.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addressToAccount = map[string]string{}
	c.accountToAddress = map[string]string{}
	c.channelAccountToAddress = map[string]string{}
}
