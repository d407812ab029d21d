package models

import (
	"encoding/json"
	"fmt"

	"github.com/go-openapi/strfmt"
)

const (
	AsynqTaskDeliverEndpointMessage = "notification:deliver"
)

// DeliveryPayload is the message handed to the queue for one endpoint of one
// approved notification.
type DeliveryPayload struct {
	NotificationID strfmt.UUID4    `json:"notification_id"`
	EndpointID     strfmt.UUID4    `json:"endpoint_id"`
	OrgID          strfmt.UUID4    `json:"org_id"`
	Address        string          `json:"address"`
	Body           json.RawMessage `json:"body"`
}

func (p *DeliveryPayload) ToJSON() ([]byte, error) {
	return json.Marshal(p)
}

// DeliveryIdempotencyKey is stable for a (notification, endpoint) pair, so a
// retried publish can never enqueue a second delivery.
func DeliveryIdempotencyKey(notificationID, endpointID strfmt.UUID4) string {
	return fmt.Sprintf("deliver:%s:%s", notificationID, endpointID)
}
