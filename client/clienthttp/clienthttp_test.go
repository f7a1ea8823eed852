package clienthttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stellar/starlight/walletclient/client"
	"github.com/stellar/starlight/walletclient/event"
	"github.com/stellar/starlight/walletclient/ledger"
	"github.com/stellar/starlight/walletclient/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *client.Client {
	t.Helper()
	paid := time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)
	channels := ledger.Channels{}.
		Merge(event.Channel{
			ID:                  "ch1",
			Role:                event.RoleHost,
			State:               event.StateOpen,
			CounterpartyAddress: "bob*example.com",
			HostAmount:          400,
			GuestAmount:         100,
		}, []ops.ChannelOp{
			ops.Deposit{Amounts: ops.Amounts{MyDelta: 500, IsHost: true}, Timestamp: paid},
			ops.OutgoingChannelPayment{Amounts: ops.Amounts{MyDelta: -100, TheirDelta: 100, MyBalance: 500, IsHost: true}},
		}).
		Merge(event.Channel{
			ID:                  "ch2",
			Role:                event.RoleGuest,
			State:               event.StateClosed,
			CounterpartyAddress: "carol*example.com",
		}, nil)
	wallet := ledger.Wallet{}.
		WithAccount("GME", 0).
		ApplyWalletOp(ops.IncomingPayment{Received: ops.Received{Amount: 1000, SourceAccount: "GSENDER", Timestamp: paid}}, 1000)

	c, err := client.New(client.Config{
		URL: "http://agent.invalid",
		State: client.State{
			ClientState: client.ClientState{From: 3},
			Config:      event.Config{Username: "alice"},
			Wallet:      wallet,
			Channels:    channels,
		},
	})
	require.NoError(t, err)
	return c
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSnapshot(t *testing.T) {
	h := New(newClient(t))

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var v struct {
		Agent            string
		State            client.State
		TotalBalance     int64
		ChannelBalance   int64
		OpenHostChannels int
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "http://agent.invalid", v.Agent)
	assert.Equal(t, uint64(3), v.State.ClientState.From)
	assert.Equal(t, "alice", v.State.Config.Username)
	assert.Equal(t, int64(1400), v.TotalBalance)
	assert.Equal(t, int64(400), v.ChannelBalance)
	assert.Equal(t, 1, v.OpenHostChannels)
	require.Len(t, v.State.Wallet.Ops, 1)
	assert.Equal(t, ops.TypeIncomingPayment, v.State.Wallet.Ops[0].Type())
	assert.Len(t, v.State.Channels["bob*example.com"].Ops, 2)
}

func TestActivity(t *testing.T) {
	h := New(newClient(t))

	rec := get(t, h, "/activity?counterparty=bob*example.com")
	require.Equal(t, http.StatusOK, rec.Code)

	var v struct {
		Wallet []struct {
			Type    ops.Type
			Delta   int64
			Pending bool
		}
		Channels []struct {
			Type         ops.Type
			ChannelID    string
			Counterparty string
			Pending      bool
		}
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Len(t, v.Wallet, 1)
	assert.Equal(t, ops.TypeIncomingPayment, v.Wallet[0].Type)
	assert.Equal(t, int64(1000), v.Wallet[0].Delta)

	require.Len(t, v.Channels, 2)
	assert.Equal(t, ops.TypeOutgoingChannelPayment, v.Channels[0].Type)
	assert.True(t, v.Channels[0].Pending)
	assert.Equal(t, ops.TypeDeposit, v.Channels[1].Type)
	assert.False(t, v.Channels[1].Pending)
	assert.Equal(t, "ch1", v.Channels[1].ChannelID)
}

func TestMetricsAndCORS(t *testing.T) {
	h := New(newClient(t))

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
