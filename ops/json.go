package ops

import (
	"encoding/json"
	"fmt"
)

// WalletOps is a list of wallet operations that encodes to JSON with each
// operation tagged by its Type.
type WalletOps []WalletOp

// ChannelOps is a list of channel operations that encodes to JSON with each
// operation tagged by its Type.
type ChannelOps []ChannelOp

type walletOpJSON struct {
	Type Type

	CreateAccount   *CreateAccount   `json:",omitempty"`
	IncomingPayment *IncomingPayment `json:",omitempty"`
	OutgoingPayment *OutgoingPayment `json:",omitempty"`
	AccountMerge    *AccountMerge    `json:",omitempty"`
}

type channelOpJSON struct {
	Type Type

	Deposit                *Deposit                `json:",omitempty"`
	TopUp                  *TopUp                  `json:",omitempty"`
	Withdrawal             *Withdrawal             `json:",omitempty"`
	OutgoingChannelPayment *OutgoingChannelPayment `json:",omitempty"`
	IncomingChannelPayment *IncomingChannelPayment `json:",omitempty"`
	PaymentCompleted       *PaymentCompleted       `json:",omitempty"`
}

func (l WalletOps) MarshalJSON() ([]byte, error) {
	out := make([]walletOpJSON, 0, len(l))
	for i, op := range l {
		j := walletOpJSON{Type: op.Type()}
		switch op := op.(type) {
		case CreateAccount:
			j.CreateAccount = &op
		case IncomingPayment:
			j.IncomingPayment = &op
		case OutgoingPayment:
			j.OutgoingPayment = &op
		case AccountMerge:
			j.AccountMerge = &op
		default:
			return nil, fmt.Errorf("encoding wallet op %d: unknown type %T", i, op)
		}
		out = append(out, j)
	}
	return json.Marshal(out)
}

func (l *WalletOps) UnmarshalJSON(b []byte) error {
	in := []walletOpJSON{}
	err := json.Unmarshal(b, &in)
	if err != nil {
		return err
	}
	ops := make(WalletOps, 0, len(in))
	for i, j := range in {
		var op WalletOp
		switch {
		case j.Type == TypeCreateAccount && j.CreateAccount != nil:
			op = *j.CreateAccount
		case j.Type == TypeIncomingPayment && j.IncomingPayment != nil:
			op = *j.IncomingPayment
		case j.Type == TypeOutgoingPayment && j.OutgoingPayment != nil:
			op = *j.OutgoingPayment
		case j.Type == TypeAccountMerge && j.AccountMerge != nil:
			op = *j.AccountMerge
		default:
			return fmt.Errorf("decoding wallet op %d: unknown or empty type %q", i, j.Type)
		}
		ops = append(ops, op)
	}
	*l = ops
	return nil
}

func (l ChannelOps) MarshalJSON() ([]byte, error) {
	out := make([]channelOpJSON, 0, len(l))
	for i, op := range l {
		j := channelOpJSON{Type: op.Type()}
		switch op := op.(type) {
		case Deposit:
			j.Deposit = &op
		case TopUp:
			j.TopUp = &op
		case Withdrawal:
			j.Withdrawal = &op
		case OutgoingChannelPayment:
			j.OutgoingChannelPayment = &op
		case IncomingChannelPayment:
			j.IncomingChannelPayment = &op
		case PaymentCompleted:
			j.PaymentCompleted = &op
		default:
			return nil, fmt.Errorf("encoding channel op %d: unknown type %T", i, op)
		}
		out = append(out, j)
	}
	return json.Marshal(out)
}

func (l *ChannelOps) UnmarshalJSON(b []byte) error {
	in := []channelOpJSON{}
	err := json.Unmarshal(b, &in)
	if err != nil {
		return err
	}
	ops := make(ChannelOps, 0, len(in))
	for i, j := range in {
		var op ChannelOp
		switch {
		case j.Type == TypeDeposit && j.Deposit != nil:
			op = *j.Deposit
		case j.Type == TypeTopUp && j.TopUp != nil:
			op = *j.TopUp
		case j.Type == TypeWithdrawal && j.Withdrawal != nil:
			op = *j.Withdrawal
		case j.Type == TypeOutgoingChannelPayment && j.OutgoingChannelPayment != nil:
			op = *j.OutgoingChannelPayment
		case j.Type == TypeIncomingChannelPayment && j.IncomingChannelPayment != nil:
			op = *j.IncomingChannelPayment
		case j.Type == TypePaymentCompleted && j.PaymentCompleted != nil:
			op = *j.PaymentCompleted
		default:
			return fmt.Errorf("decoding channel op %d: unknown or empty type %q", i, j.Type)
		}
		ops = append(ops, op)
	}
	*l = ops
	return nil
}
