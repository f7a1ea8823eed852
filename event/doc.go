/*
Package event contains the wire model of the update log served by a Starlight
agent at /api/updates.

Each entry in the log is decoded into one of the Event variants. The variant
is chosen by the update Type, and for account and channel updates the
inputs that are set (InputCommand, InputMessage, InputTx) determine what
caused the update.

Transactions are carried in the JSON projection of their XDR, and only the
fields the wallet client reads are modeled here. Account IDs in that
projection are raw Ed25519 keys and are converted to G addresses with
AccountID.Address.
*/
package event
