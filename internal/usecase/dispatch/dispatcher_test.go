package dispatch

import (
	"context"
	goErrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/internal/domain"
	asynqModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/asynq"
	endpointModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/endpoint"
	notificationModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/util"
)

var orgID = strfmt.UUID4("11111111-1111-4111-8111-111111111111")

type storeFake struct {
	mu    sync.Mutex
	items map[strfmt.UUID4]*notificationModels.Notification
}

func newStoreFake() *storeFake {
	return &storeFake{items: map[strfmt.UUID4]*notificationModels.Notification{}}
}

func (f *storeFake) GetByID(ctx context.Context, org, id strfmt.UUID4) (*notificationModels.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.items[id]
	if !ok || n.OrgID != org {
		return nil, errors.NewNotFound("not found")
	}
	cp := *n
	return &cp, nil
}

func (f *storeFake) Find(ctx context.Context, org strfmt.UUID4, filter notificationModels.Filter) ([]notificationModels.Notification, error) {
	return nil, nil
}

func (f *storeFake) FindStaleApproved(ctx context.Context, olderThan time.Time, limit int) ([]notificationModels.Notification, error) {
	return nil, nil
}

func (f *storeFake) Create(ctx context.Context, n *notificationModels.Notification, opts ...util.DbOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *n
	f.items[n.ID] = &cp
	return nil
}

func (f *storeFake) CompareAndSet(ctx context.Context, org, id strfmt.UUID4, expectedVersion int64, updated *notificationModels.Notification, opts ...util.DbOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.items[id]
	if !ok || n.OrgID != org || n.Version != expectedVersion {
		return errors.NewConcurrentModification("stale")
	}
	n.Status = updated.Status
	n.Version = expectedVersion + 1
	updated.Version = n.Version
	return nil
}

type endpointsFake struct {
	endpoints []endpointModels.Endpoint
}

func (f *endpointsFake) ListByCategories(ctx context.Context, org strfmt.UUID4, categories []string) ([]endpointModels.Endpoint, error) {
	var out []endpointModels.Endpoint
	for _, ep := range f.endpoints {
		if ep.OrgID == org && ep.Active && ep.SubscribesToAny(categories) {
			out = append(out, ep)
		}
	}
	return out, nil
}

func (f *endpointsFake) CountByIDs(ctx context.Context, org strfmt.UUID4, ids []string) (int64, error) {
	return int64(len(ids)), nil
}

// brokerFake mimics the queue's task-id dedup: a key that was already
// enqueued is acknowledged without adding a second message.
type brokerFake struct {
	mu           sync.Mutex
	enqueued     map[string]int
	failuresLeft map[string]int
	alwaysFail   map[string]bool
	attempts     map[string]int
}

func newBrokerFake() *brokerFake {
	return &brokerFake{
		enqueued:     map[string]int{},
		failuresLeft: map[string]int{},
		alwaysFail:   map[string]bool{},
		attempts:     map[string]int{},
	}
}

func (b *brokerFake) Publish(ctx context.Context, destination string, body []byte, key string, timeout time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts[key]++
	if b.alwaysFail[key] {
		return goErrors.New("broker unavailable")
	}
	if b.failuresLeft[key] > 0 {
		b.failuresLeft[key]--
		return goErrors.New("transient broker error")
	}
	if b.enqueued[key] == 0 {
		b.enqueued[key] = 1
	}
	return nil
}

func dispatchConfig() *configs.AppConfig {
	return &configs.AppConfig{
		Dispatch: configs.Dispatch{
			MaxAttempts:          3,
			MaxConcurrency:       4,
			PublishTimeoutInMs:   200,
			InitialBackoffInMs:   1,
			MaxBackoffInMs:       2,
			PipelineTimeoutInSec: 5,
		},
	}
}

func quietLogger() logger.Logger {
	return logger.Init(logger.Options{Output: logger.OutputStdout, Formatter: logger.FormatJSON, Level: logger.LevelError})
}

type dispatchFixture struct {
	d      *Dispatcher
	store  *storeFake
	eps    *endpointsFake
	broker *brokerFake
}

func newDispatchFixture() *dispatchFixture {
	store := newStoreFake()
	eps := &endpointsFake{}
	br := newBrokerFake()
	dom := &domain.Domain{Notification: store, Endpoint: eps}
	d := NewDispatcher(dispatchConfig(), quietLogger(), dom, br)
	return &dispatchFixture{d: d, store: store, eps: eps, broker: br}
}

func (fx *dispatchFixture) seedApproved(categories ...string) *notificationModels.Notification {
	n := &notificationModels.Notification{
		ID:         strfmt.UUID4(uuid.NewString()),
		OrgID:      orgID,
		Title:      "flooding downtown",
		Body:       "river over threshold",
		Severity:   3,
		Status:     notificationModels.StatusApproved,
		Categories: pq.StringArray(categories),
		Targets:    pq.StringArray{"t1"},
		Version:    2,
	}
	fx.store.Create(context.Background(), n)
	return n
}

func (fx *dispatchFixture) addEndpoint(categories ...string) endpointModels.Endpoint {
	ep := endpointModels.Endpoint{
		ID:         strfmt.UUID4(uuid.NewString()),
		OrgID:      orgID,
		Name:       "ep-" + uuid.NewString()[:8],
		Address:    "sms://city",
		Categories: pq.StringArray(categories),
		Active:     true,
	}
	fx.eps.endpoints = append(fx.eps.endpoints, ep)
	return ep
}

func TestDispatchApproved_OK(t *testing.T) {
	fx := newDispatchFixture()
	n := fx.seedApproved("flood")
	ep := fx.addEndpoint("flood")

	res := fx.d.DispatchApproved(context.Background(), n)
	if res.Err != nil {
		t.Fatalf("dispatch: %v", res.Err)
	}
	if res.FinalStatus != notificationModels.StatusDispatched {
		t.Fatalf("final status: %v", res.FinalStatus)
	}
	if res.DeliveredCount() != 1 || !res.Outcomes[0].Delivered {
		t.Fatalf("outcomes: %+v", res.Outcomes)
	}

	stored, _ := fx.store.GetByID(context.Background(), orgID, n.ID)
	if stored.Status != notificationModels.StatusDispatched || stored.Version != n.Version+1 {
		t.Fatalf("persisted: status=%v version=%d", stored.Status, stored.Version)
	}

	key := asynqModels.DeliveryIdempotencyKey(n.ID, ep.ID)
	if fx.broker.enqueued[key] != 1 {
		t.Fatalf("enqueued: %v", fx.broker.enqueued)
	}
}

func TestDispatchApproved_PartialFailureStillDispatches(t *testing.T) {
	fx := newDispatchFixture()
	n := fx.seedApproved("flood")
	good := fx.addEndpoint("flood")
	bad := fx.addEndpoint("flood")
	fx.broker.alwaysFail[asynqModels.DeliveryIdempotencyKey(n.ID, bad.ID)] = true

	res := fx.d.DispatchApproved(context.Background(), n)
	if res.Err != nil {
		t.Fatalf("dispatch: %v", res.Err)
	}
	if res.FinalStatus != notificationModels.StatusDispatched {
		t.Fatalf("final status: %v", res.FinalStatus)
	}
	if res.DeliveredCount() != 1 {
		t.Fatalf("delivered: %d", res.DeliveredCount())
	}
	for _, o := range res.Outcomes {
		if o.EndpointID == good.ID && !o.Delivered {
			t.Fatalf("good endpoint not delivered: %+v", o)
		}
		if o.EndpointID == bad.ID && (o.Delivered || o.Error == "") {
			t.Fatalf("bad endpoint outcome: %+v", o)
		}
	}
}

func TestDispatchApproved_AllFailStaysApproved(t *testing.T) {
	fx := newDispatchFixture()
	n := fx.seedApproved("flood")
	ep := fx.addEndpoint("flood")
	fx.broker.alwaysFail[asynqModels.DeliveryIdempotencyKey(n.ID, ep.ID)] = true

	res := fx.d.DispatchApproved(context.Background(), n)
	if !goErrors.Is(res.Err, errors.ErrDispatchFailure) {
		t.Fatalf("expected dispatch failure, got %v", res.Err)
	}
	if res.FinalStatus != notificationModels.StatusApproved {
		t.Fatalf("final status: %v", res.FinalStatus)
	}

	stored, _ := fx.store.GetByID(context.Background(), orgID, n.ID)
	if stored.Status != notificationModels.StatusApproved || stored.Version != n.Version {
		t.Fatalf("persisted state changed: %+v", stored)
	}
}

func TestDispatchApproved_RetriesTransientFailure(t *testing.T) {
	fx := newDispatchFixture()
	n := fx.seedApproved("flood")
	ep := fx.addEndpoint("flood")
	key := asynqModels.DeliveryIdempotencyKey(n.ID, ep.ID)
	fx.broker.failuresLeft[key] = 2

	res := fx.d.DispatchApproved(context.Background(), n)
	if res.Err != nil {
		t.Fatalf("dispatch: %v", res.Err)
	}
	if !res.Outcomes[0].Delivered || res.Outcomes[0].Attempts != 3 {
		t.Fatalf("outcome: %+v", res.Outcomes[0])
	}
	if fx.broker.enqueued[key] != 1 {
		t.Fatalf("enqueued: %v", fx.broker.enqueued)
	}
}

func TestDispatchApproved_MappingErrorDoesNotAbortOthers(t *testing.T) {
	fx := newDispatchFixture()
	n := fx.seedApproved("flood")
	broken := fx.addEndpoint("flood")
	if err := fx.eps.endpoints[0].Mapping.Set(map[string]string{"x": "no_such_field"}); err != nil {
		t.Fatalf("set mapping: %v", err)
	}
	good := fx.addEndpoint("flood")

	res := fx.d.DispatchApproved(context.Background(), n)
	if res.Err != nil {
		t.Fatalf("dispatch: %v", res.Err)
	}
	if res.FinalStatus != notificationModels.StatusDispatched {
		t.Fatalf("final status: %v", res.FinalStatus)
	}
	for _, o := range res.Outcomes {
		if o.EndpointID == broken.ID {
			if o.Delivered || o.Error == "" || o.Attempts != 0 {
				t.Fatalf("broken endpoint outcome: %+v", o)
			}
		}
		if o.EndpointID == good.ID && !o.Delivered {
			t.Fatalf("good endpoint outcome: %+v", o)
		}
	}
}

func TestDispatchApproved_RedispatchIsIdempotent(t *testing.T) {
	fx := newDispatchFixture()
	n := fx.seedApproved("flood")
	ep := fx.addEndpoint("flood")
	key := asynqModels.DeliveryIdempotencyKey(n.ID, ep.ID)

	first := fx.d.DispatchApproved(context.Background(), n)
	if first.FinalStatus != notificationModels.StatusDispatched {
		t.Fatalf("first run: %v", first.FinalStatus)
	}

	// A stale retry (sweeper or manual) re-publishes with the same key and
	// loses the compare-and-set. Nothing is enqueued twice.
	second := fx.d.DispatchApproved(context.Background(), n)
	if second.Err != nil {
		t.Fatalf("second run: %v", second.Err)
	}
	if second.FinalStatus != notificationModels.StatusDispatched {
		t.Fatalf("second run status: %v", second.FinalStatus)
	}
	if fx.broker.enqueued[key] != 1 {
		t.Fatalf("duplicate enqueue: %v", fx.broker.enqueued)
	}
}

func TestDispatchApproved_NoSubscribedEndpoints(t *testing.T) {
	fx := newDispatchFixture()
	n := fx.seedApproved("flood")
	fx.addEndpoint("earthquake")

	res := fx.d.DispatchApproved(context.Background(), n)
	if res.Err != nil {
		t.Fatalf("dispatch: %v", res.Err)
	}
	if res.FinalStatus != notificationModels.StatusApproved {
		t.Fatalf("final status: %v", res.FinalStatus)
	}
	if len(res.Outcomes) != 0 {
		t.Fatalf("outcomes: %+v", res.Outcomes)
	}
}
