package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stellar/starlight/walletclient/addrcache"
)

// ErrChannelExists is the error of a CreateChannel response when a channel
// with the guest already exists. Retrying will not succeed.
var ErrChannelExists = errors.New("channel already exists")

// CommandName is the name of a channel command.
type CommandName string

const (
	CommandCloseChannel CommandName = "CloseChannel"
	CommandCleanUp      CommandName = "CleanUp"
	CommandForceClose   CommandName = "ForceClose"
	CommandChannelPay   CommandName = "ChannelPay"
	CommandTopUp        CommandName = "TopUp"
)

// Command is a command for a channel.
type Command struct {
	Name   CommandName
	Amount int64 `json:",omitempty"`
}

// DoCommand sends a command to the channel with the given ID.
func (c *Client) DoCommand(ctx context.Context, channelID string, cmd Command) Response {
	return c.post(ctx, "/api/do-command", struct {
		ChannelID string
		Command   Command
	}{
		ChannelID: channelID,
		Command:   cmd,
	})
}

// CloseChannel cooperatively closes the channel.
func (c *Client) CloseChannel(ctx context.Context, channelID string) Response {
	return c.DoCommand(ctx, channelID, Command{Name: CommandCloseChannel})
}

// CleanUp cleans up a channel whose setup did not complete.
func (c *Client) CleanUp(ctx context.Context, channelID string) Response {
	return c.DoCommand(ctx, channelID, Command{Name: CommandCleanUp})
}

// ForceClose closes the channel without the counterparty.
func (c *Client) ForceClose(ctx context.Context, channelID string) Response {
	return c.DoCommand(ctx, channelID, Command{Name: CommandForceClose})
}

// ChannelPay pays amount stroops to the counterparty of the channel.
func (c *Client) ChannelPay(ctx context.Context, channelID string, amount int64) Response {
	return c.DoCommand(ctx, channelID, Command{Name: CommandChannelPay, Amount: amount})
}

// TopUp deposits amount stroops from the wallet into the channel.
func (c *Client) TopUp(ctx context.Context, channelID string, amount int64) Response {
	return c.DoCommand(ctx, channelID, Command{Name: CommandTopUp, Amount: amount})
}

// CreateChannel opens a channel hosted by the wallet with the guest at
// guestAddr, funded with hostAmount stroops. The agent responds to an
// existing channel with 205, which is reported as ErrChannelExists.
func (c *Client) CreateChannel(ctx context.Context, guestAddr string, hostAmount int64) Response {
	r := c.post(ctx, "/api/do-create-channel", struct {
		GuestAddr  string
		HostAmount int64
	}{
		GuestAddr:  guestAddr,
		HostAmount: hostAmount,
	})
	if r.Status == http.StatusResetContent {
		r.OK = false
		r.Err = fmt.Errorf("creating channel with %s: %w", guestAddr, ErrChannelExists)
	}
	return r
}

// WalletPay pays amount stroops from the wallet account to dest.
func (c *Client) WalletPay(ctx context.Context, dest string, amount int64) Response {
	return c.post(ctx, "/api/do-wallet-pay", struct {
		Dest   string
		Amount int64
	}{
		Dest:   dest,
		Amount: amount,
	})
}

// FindAccount asks the agent to look up the federation address. The address
// is sent under both keys agents have read it from.
func (c *Client) FindAccount(ctx context.Context, address string) Response {
	return c.post(ctx, "/api/find-account", struct {
		StarlightAddr string `json:"starlight_addr"`
		StellarAddr   string `json:"stellar_addr"`
	}{
		StarlightAddr: address,
		StellarAddr:   address,
	})
}

// findAccount resolves an address with the agent. The agent confirms the
// address exists and may include the account ID in its response; without
// it the address does not resolve.
func (c *Client) findAccount(ctx context.Context, address string) (string, error) {
	r := c.FindAccount(ctx, address)
	err := r.Check()
	if err != nil {
		return "", err
	}
	if len(r.Body) == 0 {
		return "", addrcache.ErrNotFound
	}
	var v struct{ AccountID string }
	err = r.Decode(&v)
	if err != nil {
		return "", err
	}
	if v.AccountID == "" {
		return "", addrcache.ErrNotFound
	}
	return v.AccountID, nil
}

// Resolve returns the account ID of a federation address, from the
// addresses learned from channels if possible.
func (c *Client) Resolve(ctx context.Context, address string) (string, error) {
	return c.cache.Resolve(ctx, address)
}

// Status gets the configuration and session status of the agent.
func (c *Client) Status(ctx context.Context) (Lifecycle, Response) {
	r := c.post(ctx, "/api/status", nil)
	var l Lifecycle
	if err := r.Decode(&l); err != nil {
		return Lifecycle{}, r
	}
	c.updateState(func(s *State) {
		s.Lifecycle = l
	})
	return l, r
}

// Login starts a session for the user.
func (c *Client) Login(ctx context.Context, username, password string) Response {
	r := c.post(ctx, loginPath, struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{
		Username: username,
		Password: password,
	})
	if r.OK {
		c.updateState(func(s *State) {
			s.Config.Username = username
			s.Lifecycle = Lifecycle{IsConfigured: true, IsLoggedIn: true}
		})
	}
	return r
}

// Logout ends the session and clears the cursor, the ledgers and the
// learned addresses.
func (c *Client) Logout(ctx context.Context) Response {
	r := c.post(ctx, "/api/logout", nil)
	if r.OK {
		c.clear()
	}
	return r
}

// InitParams configures a new agent.
type InitParams struct {
	Username   string
	Password   string
	HorizonURL string
}

// ConfigInit configures the agent and starts a session.
func (c *Client) ConfigInit(ctx context.Context, p InitParams) Response {
	r := c.post(ctx, "/api/config-init", p)
	c.updateState(func(s *State) {
		if r.OK {
			s.Config.Username = p.Username
			s.Config.HorizonURL = p.HorizonURL
			s.Lifecycle = Lifecycle{IsConfigured: true, IsLoggedIn: true}
		} else {
			s.Lifecycle = Lifecycle{}
		}
	})
	return r
}

// EditParams changes the configuration of the agent. Empty fields are left
// unchanged.
type EditParams struct {
	HorizonURL  string `json:",omitempty"`
	OldPassword string `json:",omitempty"`
	Password    string `json:",omitempty"`
}

// ConfigEdit edits the configuration of the agent.
func (c *Client) ConfigEdit(ctx context.Context, p EditParams) Response {
	r := c.post(ctx, "/api/config-edit", p)
	if r.OK && p.HorizonURL != "" {
		c.updateState(func(s *State) {
			s.Config.HorizonURL = p.HorizonURL
		})
	}
	return r
}
