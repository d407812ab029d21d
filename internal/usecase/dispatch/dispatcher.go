package dispatch

import (
	"context"
	goErrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-openapi/strfmt"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/internal/domain"
	endpointDomain "github.com/victor-lby/sos-cidadao-sub000/internal/domain/endpoint"
	notificationDomain "github.com/victor-lby/sos-cidadao-sub000/internal/domain/notification"
	asynqModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/asynq"
	endpointModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/endpoint"
	notificationModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/broker"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

type DispatcherHandler interface {
	DispatchApproved(ctx context.Context, n *notificationModels.Notification) *Result
}

// EndpointOutcome reports one endpoint's publish attempt.
type EndpointOutcome struct {
	EndpointID strfmt.UUID4 `json:"endpoint_id"`
	Name       string       `json:"name"`
	Delivered  bool         `json:"delivered"`
	Attempts   int          `json:"attempts"`
	Error      string       `json:"error,omitempty"`
}

// Result is the per-endpoint breakdown of one dispatch run. Err is set only
// when every matched endpoint failed; the approval itself stays intact either
// way.
type Result struct {
	NotificationID strfmt.UUID4      `json:"notification_id"`
	FinalStatus    string            `json:"final_status"`
	FinalVersion   int64             `json:"-"`
	Outcomes       []EndpointOutcome `json:"outcomes"`
	Err            error             `json:"-"`
}

func (r *Result) DeliveredCount() int {
	c := 0
	for _, o := range r.Outcomes {
		if o.Delivered {
			c++
		}
	}
	return c
}

type Dispatcher struct {
	cfg                *configs.AppConfig
	log                logger.Logger
	notificationDomain notificationDomain.NotificationDomainHandler
	endpointDomain     endpointDomain.EndpointDomainReader
	broker             broker.Client
}

func NewDispatcher(cfg *configs.AppConfig, log logger.Logger, dom *domain.Domain, br broker.Client) *Dispatcher {
	return &Dispatcher{
		cfg:                cfg,
		log:                log,
		notificationDomain: dom.Notification,
		endpointDomain:     dom.Endpoint,
		broker:             br,
	}
}

// DispatchApproved publishes the approved notification to every endpoint whose
// category subscriptions intersect its categories. Endpoint publishes run
// concurrently and independently. When at least one endpoint acknowledges, the
// notification advances APPROVED -> DISPATCHED through a single
// compare-and-set; when all fail it stays APPROVED and the caller (or the
// sweeper) retries later.
func (d *Dispatcher) DispatchApproved(ctx context.Context, n *notificationModels.Notification) *Result {
	res := &Result{
		NotificationID: n.ID,
		FinalStatus:    n.Status,
		FinalVersion:   n.Version,
	}

	endpoints, err := d.endpointDomain.ListByCategories(ctx, n.OrgID, n.Categories)
	if err != nil {
		res.Err = err
		return res
	}
	if len(endpoints) == 0 {
		d.log.InfoWithContext(ctx, "notification ", n.ID, ": no subscribed endpoints, staying approved")
		return res
	}

	pool := make(chan struct{}, d.cfg.Dispatch.MaxConcurrency)
	wg := &sync.WaitGroup{}
	outcomes := make([]EndpointOutcome, len(endpoints))

	for i, ep := range endpoints {
		wg.Add(1)
		pool <- struct{}{}
		go func(i int, ep endpointModels.Endpoint) {
			defer func() {
				<-pool
				wg.Done()
			}()
			outcomes[i] = d.publishOne(ctx, n, &ep)
		}(i, ep)
	}
	wg.Wait()

	res.Outcomes = outcomes
	if res.DeliveredCount() == 0 {
		res.Err = errors.NewDispatchFailure(fmt.Sprintf("all %d endpoint publishes failed", len(endpoints)))
		return res
	}

	d.markDispatched(ctx, n, res)
	return res
}

// markDispatched advances the status with a compare-and-set so that two
// concurrent dispatch runs cannot both write. Losing the race means another
// run already advanced it, which is the outcome we wanted.
func (d *Dispatcher) markDispatched(ctx context.Context, n *notificationModels.Notification, res *Result) {
	updated := *n
	updated.Status = notificationModels.StatusDispatched

	err := d.notificationDomain.CompareAndSet(ctx, n.OrgID, n.ID, n.Version, &updated)
	if err != nil {
		if goErrors.Is(err, errors.ErrConcurrentModification) {
			d.log.InfoWithContext(ctx, "notification ", n.ID, " already dispatched by a concurrent run")
			res.FinalStatus = notificationModels.StatusDispatched
			return
		}
		d.log.ErrorWithContext(ctx, "notification ", n.ID, ": failed to mark dispatched: ", err)
		res.Err = err
		return
	}

	res.FinalStatus = updated.Status
	res.FinalVersion = updated.Version
}

func (d *Dispatcher) publishOne(ctx context.Context, n *notificationModels.Notification, ep *endpointModels.Endpoint) EndpointOutcome {
	out := EndpointOutcome{EndpointID: ep.ID, Name: ep.Name}

	body, err := Transform(n, ep)
	if err != nil {
		d.log.ErrorWithContext(ctx, "notification ", n.ID, ": transform for endpoint ", ep.Name, " failed: ", err)
		out.Error = err.Error()
		return out
	}

	payload := asynqModels.DeliveryPayload{
		NotificationID: n.ID,
		EndpointID:     ep.ID,
		OrgID:          n.OrgID,
		Address:        ep.Address,
		Body:           body,
	}
	data, err := payload.ToJSON()
	if err != nil {
		out.Error = err.Error()
		return out
	}

	key := asynqModels.DeliveryIdempotencyKey(n.ID, ep.ID)
	attemptTimeout := time.Duration(d.cfg.Dispatch.PublishTimeoutInMs) * time.Millisecond

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Duration(d.cfg.Dispatch.InitialBackoffInMs) * time.Millisecond
	bo.MaxInterval = time.Duration(d.cfg.Dispatch.MaxBackoffInMs) * time.Millisecond

	operation := func() error {
		out.Attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		defer cancel()
		return d.broker.Publish(attemptCtx, asynqModels.AsynqTaskDeliverEndpointMessage, data, key, attemptTimeout)
	}

	err = backoff.Retry(operation,
		backoff.WithMaxRetries(backoff.WithContext(bo, ctx), uint64(d.cfg.Dispatch.MaxAttempts-1)))
	if err != nil {
		d.log.ErrorWithContext(ctx, "notification ", n.ID, ": publish to endpoint ", ep.Name, " failed after ", out.Attempts, " attempts: ", err)
		out.Error = err.Error()
		return out
	}

	out.Delivered = true
	return out
}
