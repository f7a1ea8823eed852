// Package clienthttp serves a read-only view of a wallet client's state.
package clienthttp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/stellar/starlight/walletclient/client"
	"github.com/stellar/starlight/walletclient/ops"
)

func New(c *client.Client) http.Handler {
	m := http.NewServeMux()
	m.HandleFunc("/", handleSnapshot(c))
	m.HandleFunc("/activity", handleActivity(c))
	m.Handle("/metrics", promhttp.Handler())
	return cors.Default().Handler(m)
}

func handleSnapshot(c *client.Client) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		s := c.Snapshot()
		v := struct {
			Agent            string
			State            client.State
			TotalBalance     int64
			ChannelBalance   int64
			OpenHostChannels int
		}{
			Agent:            c.URL(),
			State:            s,
			TotalBalance:     s.Wallet.Balance + s.Channels.TotalBalance(),
			ChannelBalance:   s.Channels.TotalBalance(),
			OpenHostChannels: s.Channels.NumOpenHostChannels(),
		}
		writeJSON(w, v)
	}
}

type walletActivity struct {
	Type      ops.Type
	Delta     int64
	Pending   bool
	Timestamp time.Time
	Op        ops.WalletOp
}

type channelActivity struct {
	Type         ops.Type
	ChannelID    string
	Counterparty string
	IsHost       bool
	Pending      bool
	Timestamp    time.Time
	Op           ops.ChannelOp
}

// handleActivity serves the wallet activity oldest first and the activity of
// each channel newest first. The counterparty query parameter limits the
// channel activity to one channel.
func handleActivity(c *client.Client) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		s := c.Snapshot()
		counterparty := r.URL.Query().Get("counterparty")

		v := struct {
			Wallet   []walletActivity
			Channels []channelActivity
		}{
			Wallet:   []walletActivity{},
			Channels: []channelActivity{},
		}
		for _, a := range s.Wallet.Activity() {
			v.Wallet = append(v.Wallet, walletActivity{
				Type:      a.Op.Type(),
				Delta:     a.Op.Delta(),
				Pending:   a.Pending,
				Timestamp: a.Timestamp,
				Op:        a.Op,
			})
		}
		for _, e := range s.Channels.Sorted() {
			if counterparty != "" && e.Channel.CounterpartyAddress != counterparty {
				continue
			}
			for a := range e.Activity() {
				v.Channels = append(v.Channels, channelActivity{
					Type:         a.Op.Type(),
					ChannelID:    a.ChannelID,
					Counterparty: a.Counterparty,
					IsHost:       a.IsHost,
					Pending:      a.Pending,
					Timestamp:    a.Timestamp,
					Op:           a.Op,
				})
			}
		}
		writeJSON(w, v)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(append(b, '\n'))
}
