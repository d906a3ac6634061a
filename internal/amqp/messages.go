package amqp

import (
	"encoding/json"
	"time"
)

// Reasons carried by a data-changed message.
const (
	ReasonAccountCreated      = "account_created"
	ReasonDefaultChanged      = "default_changed"
	ReasonTransactionRecorded = "transaction_recorded"
)

// DataChangedMessage tells presentation layers that an owner's financial
// data changed and any cached views for that owner should be refreshed.
// It is fire-and-forget: no reply is expected and losing one is harmless.
type DataChangedMessage struct {
	OwnerID   string    `json:"ownerId"`
	AccountID string    `json:"accountId,omitempty"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDataChangedMessage creates a data-changed message stamped with now.
func NewDataChangedMessage(ownerID, accountID, reason string) *DataChangedMessage {
	return &DataChangedMessage{
		OwnerID:   ownerID,
		AccountID: accountID,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *DataChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DataChangedMessageFromJSON parses a message from JSON bytes.
func DataChangedMessageFromJSON(data []byte) (*DataChangedMessage, error) {
	var msg DataChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
