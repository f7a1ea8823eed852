package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stellar/starlight/walletclient/addrcache"
	"github.com/stellar/starlight/walletclient/client"
	"github.com/stellar/starlight/walletclient/event"
	"github.com/stellar/starlight/walletclient/ledger"
	"github.com/stellar/starlight/walletclient/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() client.State {
	ts := time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)
	return client.State{
		ClientState: client.ClientState{
			From: 42,
			Addresses: addrcache.Snapshot{
				AddressToAccount:        map[string]string{"bob*example.com": "GBOB"},
				AccountToAddress:        map[string]string{"GBOB": "bob*example.com"},
				ChannelAccountToAddress: map[string]string{"GESCROW": "bob*example.com"},
			},
		},
		Config:    event.Config{Username: "alice", HorizonURL: "https://horizon-testnet.stellar.org"},
		Lifecycle: client.Lifecycle{IsConfigured: true, IsLoggedIn: true},
		Wallet: ledger.Wallet{}.WithAccount("GME", 900).ApplyWalletOp(ops.OutgoingPayment{
			Amount:    100,
			Recipient: "bob*example.com",
			Timestamp: ts,
			Sequence:  "7",
			Pending:   true,
		}, 900),
		Channels: ledger.Channels{}.Merge(event.Channel{
			ID:                  "ch1",
			Role:                event.RoleHost,
			State:               event.StateOpen,
			CounterpartyAddress: "bob*example.com",
			HostAmount:          500,
			FundingTime:         ts,
		}, []ops.ChannelOp{ops.Deposit{Amounts: ops.Amounts{MyDelta: 500, IsHost: true}, Timestamp: ts}}),
	}
}

func TestFile_roundTrip(t *testing.T) {
	for _, name := range []string{"state.json", "state.json.gz"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			f := File{Path: filepath.Join(dir, name)}
			want := testState()

			require.NoError(t, f.Save(want))
			got, ok, err := f.Load()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, want, got)

			// Saving again replaces the file and leaves no temp files.
			require.NoError(t, f.Save(want))
			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestFile_gzip(t *testing.T) {
	f := File{Path: filepath.Join(t.TempDir(), "state.json.gz")}
	require.NoError(t, f.Save(testState()))

	b, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, b[:2])
}

func TestFile_loadMissing(t *testing.T) {
	f := File{Path: filepath.Join(t.TempDir(), "missing.json")}
	s, ok, err := f.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, client.State{}, s)
}

func TestFile_loadOtherVersion(t *testing.T) {
	f := File{Path: filepath.Join(t.TempDir(), "state.json")}
	require.NoError(t, os.WriteFile(f.Path, []byte(`{
		"Version": 0,
		"Config": {"Username": "alice"},
		"Lifecycle": {"IsConfigured": true},
		"ClientState": {"From": 99},
		"Wallet": {"Ops": "an older format"}
	}`), 0o600))

	s, ok, err := f.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, client.State{
		Config:    event.Config{Username: "alice"},
		Lifecycle: client.Lifecycle{IsConfigured: true},
	}, s)
}

func TestFile_loadCorrupt(t *testing.T) {
	f := File{Path: filepath.Join(t.TempDir(), "state.json.gz")}
	require.NoError(t, os.WriteFile(f.Path, []byte("not gzip"), 0o600))

	_, _, err := f.Load()
	assert.Error(t, err)
}
