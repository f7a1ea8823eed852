package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// wire is the shape of one entry of the update log.
type wire struct {
	Type             Type
	UpdateNum        uint64
	UpdateLedgerTime time.Time
	Account          Account
	Config           *Config
	Channel          *Channel
	InputCommand     *Command
	InputMessage     *Message
	InputTx          *Tx
	InputLedgerTime  time.Time
	OpIndex          int
	Warning          string
	PendingSequence  string
}

// Decode decodes one update.
func Decode(data []byte) (Event, error) {
	w := wire{}
	err := json.Unmarshal(data, &w)
	if err != nil {
		return nil, fmt.Errorf("decoding update: %w", err)
	}
	return w.event()
}

// DecodeBatch decodes a JSON array of updates, preserving their order.
func DecodeBatch(data []byte) ([]Event, error) {
	raw := []json.RawMessage{}
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("decoding update batch: %w", err)
	}
	events := make([]Event, 0, len(raw))
	for i, r := range raw {
		e, err := Decode(r)
		if err != nil {
			return nil, fmt.Errorf("update %d of batch: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func (w wire) event() (Event, error) {
	h := Header{
		UpdateNum:        w.UpdateNum,
		UpdateLedgerTime: w.UpdateLedgerTime,
		Account:          w.Account,
	}
	switch w.Type {
	case TypeInit:
		return InitEvent{Header: h, Config: w.config()}, nil
	case TypeConfig:
		return ConfigEvent{Header: h, Config: w.config()}, nil
	case TypeAccount:
		return AccountEvent{
			Header:          h,
			InputCommand:    w.InputCommand,
			InputTx:         w.InputTx,
			OpIndex:         w.OpIndex,
			PendingSequence: w.PendingSequence,
		}, nil
	case TypeChannel:
		if w.Channel == nil {
			return nil, fmt.Errorf("channel update %d has no channel", w.UpdateNum)
		}
		ch := *w.Channel
		ch.State = ch.State.Canonical()
		ch.PrevState = ch.PrevState.Canonical()
		return ChannelEvent{
			Header:          h,
			Channel:         ch,
			InputCommand:    w.InputCommand,
			InputMessage:    w.InputMessage,
			InputTx:         w.InputTx,
			InputLedgerTime: w.InputLedgerTime,
		}, nil
	case TypeTxSuccess:
		return TxSuccessEvent{Header: h, InputTx: w.InputTx}, nil
	case TypeTxFailed:
		return TxFailedEvent{Header: h, InputTx: w.InputTx}, nil
	case TypeWarning:
		return WarningEvent{Header: h, Warning: w.Warning}, nil
	}
	return UnknownEvent{Header: h, Type: w.Type}, nil
}

func (w wire) config() Config {
	if w.Config == nil {
		return Config{}
	}
	return *w.Config
}
