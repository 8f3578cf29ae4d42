package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Actions carried by a transaction event. The worker re-reads the full ledger
// on any event, so the message only needs to say that something changed and
// to which record.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEventMessage announces a change to the transaction set. It is
// intentionally lightweight: ID and action only, the consumer reloads state
// from the ledger itself.
type TransactionEventMessage struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event message stamped with the current time.
func NewTransactionEvent(id int64, action string) *TransactionEventMessage {
	return &TransactionEventMessage{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// Validate checks the action is one of the known values.
func (m *TransactionEventMessage) Validate() error {
	switch m.Action {
	case ActionCreated, ActionDeleted:
		return nil
	default:
		return fmt.Errorf("unknown event action %q", m.Action)
	}
}

// ToJSON converts the message to JSON bytes.
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON parses a message from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
