package amqp

import (
	"encoding/json"
	"time"
)

// PurchaseRecordedMessage announces a purchase accepted by the service. It
// carries the full entry so consumers can mirror it without a read back to
// the primary backend.
type PurchaseRecordedMessage struct {
	ItemID     string    `json:"item_id"`
	Ref        string    `json:"ref"`
	Date       string    `json:"date"`
	Qty        int64     `json:"qty"`
	PriceCents int64     `json:"price_cents"`
	TotalCents int64     `json:"total_cents"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewPurchaseRecordedMessage(itemID, ref, date string, qty, priceCents, totalCents int64) *PurchaseRecordedMessage {
	return &PurchaseRecordedMessage{
		ItemID:     itemID,
		Ref:        ref,
		Date:       date,
		Qty:        qty,
		PriceCents: priceCents,
		TotalCents: totalCents,
		Timestamp:  time.Now(),
	}
}

func (m *PurchaseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PurchaseRecordedMessageFromJSON(data []byte) (*PurchaseRecordedMessage, error) {
	var msg PurchaseRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
