package ops

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletOp_Delta(t *testing.T) {
	ts := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(10), IncomingPayment{Received{Amount: 10, Timestamp: ts}}.Delta())
	assert.Equal(t, int64(10), CreateAccount{Received{Amount: 10}}.Delta())
	assert.Equal(t, int64(-10), OutgoingPayment{Amount: 10}.Delta())
	assert.Equal(t, ts, IncomingPayment{Received{Amount: 10, Timestamp: ts}}.Time())
}

func TestWalletOps_json(t *testing.T) {
	ts := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	l := WalletOps{
		CreateAccount{Received{Amount: 100, SourceAccount: "GA", Timestamp: ts}},
		OutgoingPayment{Amount: 5, Recipient: "bob*example.com", Timestamp: ts, Sequence: "7", Pending: true},
		AccountMerge{Received{Amount: 3, SourceAccount: "GB", Counterparty: "carol*example.com", Timestamp: ts}},
	}
	b, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Type":"outgoingPayment"`)

	got := WalletOps{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, l, got)
}

func TestChannelOps_json(t *testing.T) {
	ts := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	l := ChannelOps{
		Deposit{Amounts: Amounts{MyDelta: 10, IsHost: true}, Timestamp: ts},
		OutgoingChannelPayment{Amounts{MyDelta: -1, TheirDelta: 1, MyBalance: 10, IsHost: true}},
		PaymentCompleted{Timestamp: ts, IsHost: true},
		Withdrawal{Amounts: Amounts{MyDelta: -9, TheirDelta: -1, MyBalance: 9, TheirBalance: 1, IsHost: true}, Timestamp: ts},
	}
	b, err := json.Marshal(l)
	require.NoError(t, err)

	got := ChannelOps{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, l, got)
	assert.True(t, got[1].Host())
}

func TestChannelOps_unmarshalUnknown(t *testing.T) {
	got := ChannelOps{}
	err := json.Unmarshal([]byte(`[{"Type":"refund"}]`), &got)
	assert.EqualError(t, err, `decoding channel op 0: unknown or empty type "refund"`)

	err = json.Unmarshal([]byte(`[{"Type":"deposit"}]`), &got)
	assert.EqualError(t, err, `decoding channel op 0: unknown or empty type "deposit"`)
}
