// Package client contains a client for the wallet RPCs of a Starlight agent.
//
// The client long-polls the agent for updates, reconciles them into a wallet
// ledger and a channel ledger, and emits typed updates to a single consumer.
// It also issues the wallet commands (payments, channel opens, closes and
// top-ups) and the session lifecycle calls.
package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stellar/starlight/walletclient/addrcache"
	"github.com/stellar/starlight/walletclient/event"
	"github.com/stellar/starlight/walletclient/ledger"
)

const (
	defaultBackoff      = 10 * time.Second
	defaultUpdateBuffer = 100
)

// ClientState is the poller's cursor and the addresses it has learned.
type ClientState struct {
	// From is the number of the next update to request.
	From      uint64
	Addresses addrcache.Snapshot
}

// Lifecycle is the configuration and session status of the agent.
type Lifecycle struct {
	IsConfigured bool
	IsLoggedIn   bool
}

// State is everything the client knows. A State returned by Snapshot is not
// changed by the client afterwards.
type State struct {
	ClientState ClientState
	Config      event.Config
	Lifecycle   Lifecycle
	Wallet      ledger.Wallet
	Channels    ledger.Channels
}

// Metrics records the activity of the poller.
type Metrics interface {
	ObservePoll(err error, started time.Time)
	ObserveBatch(events int, next uint64)
	ObserveUpdate(updateType string)
	ObserveLogout()
}

type nopMetrics struct{}

func (nopMetrics) ObservePoll(error, time.Time) {}
func (nopMetrics) ObserveBatch(int, uint64)     {}
func (nopMetrics) ObserveUpdate(string)         {}
func (nopMetrics) ObserveLogout()               {}

// Config configures a Client. Only URL is required.
type Config struct {
	// URL is the base URL of the agent, e.g. http://localhost:7000.
	URL string

	// HTTPClient is used for all requests. If nil a client with its own
	// cookie jar is created. A client given here must carry a cookie jar for
	// the session to survive across requests.
	HTTPClient *http.Client

	// State is the state to start from, usually loaded from a store.
	State State

	// Resolver resolves federation addresses the client has not learned from
	// channels. If nil the agent's find-account RPC is used.
	Resolver addrcache.Resolver

	// Backoff is the delay before retrying a failed poll. Defaults to 10s.
	Backoff time.Duration

	// UpdateBuffer is the capacity of the subscription's update channel.
	UpdateBuffer int

	Metrics Metrics
	Logger  logrus.FieldLogger

	// OnLogout is called when the agent reports the session is no longer
	// valid.
	OnLogout func()

	// ResponseHook is given every response before the client looks at it and
	// returns the response to use in its place.
	ResponseHook func(Response) Response
}

// ErrSubscribed is the error of a subscription started while another
// subscription of the same client is running.
var ErrSubscribed = errors.New("client already has a running subscription")

// Client is a client of one agent. Its methods are safe for concurrent use,
// but a client runs at most one subscription at a time.
type Client struct {
	url          string
	http         *http.Client
	backoff      time.Duration
	updateBuffer int
	metrics      Metrics
	log          logrus.FieldLogger
	onLogout     func()
	responseHook func(Response) Response

	cache *addrcache.Cache

	polling atomic.Bool

	// mu guards state and epoch. The poller holds it while it applies a
	// batch, and nothing else changes the ledgers.
	mu    sync.RWMutex
	state State
	// epoch is incremented each time the state is cleared, so a batch
	// fetched before the clear is not applied after it.
	epoch uint64
}

// New creates a client of the agent at c.URL.
func New(c Config) (*Client, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("agent url required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing agent url %s: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("agent url %s: unsupported scheme %q", c.URL, u.Scheme)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar}
	}

	client := &Client{
		url:          strings.TrimSuffix(c.URL, "/"),
		http:         httpClient,
		backoff:      c.Backoff,
		updateBuffer: c.UpdateBuffer,
		metrics:      c.Metrics,
		log:          c.Logger,
		onLogout:     c.OnLogout,
		responseHook: c.ResponseHook,
		state:        c.State,
	}
	if client.backoff <= 0 {
		client.backoff = defaultBackoff
	}
	if client.updateBuffer <= 0 {
		client.updateBuffer = defaultUpdateBuffer
	}
	if client.metrics == nil {
		client.metrics = nopMetrics{}
	}
	if client.log == nil {
		client.log = logrus.StandardLogger()
	}

	resolver := c.Resolver
	if resolver == nil {
		resolver = addrcache.ResolverFunc(client.findAccount)
	}
	client.cache = addrcache.New(resolver, c.State.ClientState.Addresses)
	client.state.ClientState.Addresses = addrcache.Snapshot{}

	return client, nil
}

// URL returns the base URL of the agent.
func (c *Client) URL() string {
	return c.url
}

// Snapshot returns the current state.
func (c *Client) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	s.ClientState.Addresses = c.cache.Snapshot()
	return s
}

// Addresses returns the address cache of the client.
func (c *Client) Addresses() *addrcache.Cache {
	return c.cache
}

func (c *Client) updateState(f func(s *State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f(&c.state)
}

// clear drops the cursor, the ledgers and the learned addresses, and marks
// the session logged out. The configuration is kept.
func (c *Client) clear() {
	c.mu.Lock()
	c.state = State{
		Config: c.state.Config,
		Lifecycle: Lifecycle{
			IsConfigured: c.state.Lifecycle.IsConfigured,
		},
	}
	c.epoch++
	c.mu.Unlock()
	c.cache.Reset()
}

func (c *Client) sessionLost() {
	c.log.Info("session lost, clearing state")
	c.clear()
	if c.onLogout != nil {
		c.onLogout()
	}
}
