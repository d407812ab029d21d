package moderation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgtype"

	auditModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/audit"
	authModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/auth"
	notificationModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase/dispatch"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

type ModerationUsecaseWriter interface {
	Ingest(ctx context.Context, param IngestParam, pctx *authModels.PermissionContext) (*View, error)
	Approve(ctx context.Context, param ApproveParam, pctx *authModels.PermissionContext) (*View, *dispatch.Result, error)
	Deny(ctx context.Context, param DenyParam, pctx *authModels.PermissionContext) (*View, error)
}

type IngestParam struct {
	Title        string          `json:"title" validate:"required"`
	Body         string          `json:"body" validate:"required"`
	Severity     int             `json:"severity" validate:"min=0,max=5"`
	OriginTag    string          `json:"origin_tag"`
	BaseTargetID *strfmt.UUID4   `json:"base_target_id,omitempty"`
	RawPayload   json.RawMessage `json:"raw_payload,omitempty"`
}

type ApproveParam struct {
	ID         strfmt.UUID4 `json:"-"`
	Version    int64        `json:"version" validate:"required"`
	Targets    []string     `json:"targets" validate:"required,min=1"`
	Categories []string     `json:"categories" validate:"required,min=1"`
}

type DenyParam struct {
	ID      strfmt.UUID4 `json:"-"`
	Version int64        `json:"version" validate:"required"`
	Reason  string       `json:"reason"`
}

// Ingest stores an inbound civic alert as RECEIVED, keeping the raw inbound
// payload byte for byte.
func (u *ModerationUsecase) Ingest(ctx context.Context, param IngestParam, pctx *authModels.PermissionContext) (*View, error) {
	if !pctx.Has(authModels.PermissionNotificationCreate) {
		return nil, errors.NewAuthorization("missing permission " + authModels.PermissionNotificationCreate)
	}
	if param.Title == "" || param.Body == "" {
		return nil, errors.NewValidation("title and body are required")
	}

	n := &notificationModels.Notification{
		OrgID:        pctx.OrgID,
		Title:        param.Title,
		Body:         param.Body,
		Severity:     param.Severity,
		OriginTag:    param.OriginTag,
		BaseTargetID: param.BaseTargetID,
		RawPayload:   rawJSONB(param.RawPayload),
		Status:       notificationModels.StatusReceived,
		CreatedBy:    pctx.UserID,
		UpdatedBy:    pctx.UserID,
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}

	if err := u.notificationDomain.Create(ctx, n); err != nil {
		return nil, err
	}

	u.recordAudit(ctx, auditModels.ActionIngest, pctx, n.ID, nil, n)

	return &View{
		Notification: n,
		Links:        BuildLinks(n.ID, n.Status, pctx),
	}, nil
}

// Approve moves RECEIVED -> APPROVED, then runs the dispatch pipeline. The
// approval is committed before any publish happens; dispatch runs on a context
// detached from the request, so a cancelled caller can never unwind it. The
// returned Result reports per-endpoint delivery, including the
// approved-but-pending case where every endpoint failed.
func (u *ModerationUsecase) Approve(ctx context.Context, param ApproveParam, pctx *authModels.PermissionContext) (view *View, result *dispatch.Result, err error) {
	var before, after *notificationModels.Notification
	defer func() {
		u.recordAudit(ctx, auditModels.ActionApprove, pctx, param.ID, before, after)
	}()

	before, err = u.notificationDomain.GetByID(ctx, pctx.OrgID, param.ID)
	if err != nil {
		return nil, nil, err
	}
	if !pctx.Has(authModels.PermissionNotificationApprove) {
		return nil, nil, errors.NewAuthorization("missing permission " + authModels.PermissionNotificationApprove)
	}
	if !before.CanTransitionTo(notificationModels.StatusApproved) {
		return nil, nil, errors.NewInvalidStateTransition("cannot approve notification in status " + before.Status)
	}

	targets := dedupe(param.Targets)
	categories := dedupe(param.Categories)
	if len(targets) == 0 || len(categories) == 0 {
		return nil, nil, errors.NewValidation("targets and categories must be non-empty")
	}
	count, err := u.endpointDomain.CountByIDs(ctx, pctx.OrgID, targets)
	if err != nil {
		return nil, nil, err
	}
	if count != int64(len(targets)) {
		return nil, nil, errors.NewValidation("one or more targets do not exist in this organization")
	}

	updated := *before
	updated.Status = notificationModels.StatusApproved
	updated.Targets = targets
	updated.Categories = categories
	updated.UpdatedBy = pctx.UserID
	if err = updated.Validate(); err != nil {
		return nil, nil, err
	}

	if err = u.notificationDomain.CompareAndSet(ctx, pctx.OrgID, param.ID, param.Version, &updated); err != nil {
		return nil, nil, err
	}
	after = &updated

	dispatchCtx, cancel := context.WithTimeout(
		logger.WithCorrelationID(context.Background(), logger.CorrelationID(ctx)),
		time.Duration(u.cfg.Dispatch.PipelineTimeoutInSec)*time.Second,
	)
	defer cancel()
	result = u.dispatcher.DispatchApproved(dispatchCtx, &updated)

	final := updated
	final.Status = result.FinalStatus
	if result.FinalVersion > final.Version {
		final.Version = result.FinalVersion
	}
	view = &View{
		Notification: &final,
		Links:        BuildLinks(final.ID, final.Status, pctx),
	}
	return view, result, nil
}

// Deny moves RECEIVED -> DENIED with a mandatory reason. DENIED is terminal.
func (u *ModerationUsecase) Deny(ctx context.Context, param DenyParam, pctx *authModels.PermissionContext) (view *View, err error) {
	var before, after *notificationModels.Notification
	defer func() {
		u.recordAudit(ctx, auditModels.ActionDeny, pctx, param.ID, before, after)
	}()

	before, err = u.notificationDomain.GetByID(ctx, pctx.OrgID, param.ID)
	if err != nil {
		return nil, err
	}
	if !pctx.Has(authModels.PermissionNotificationDeny) {
		return nil, errors.NewAuthorization("missing permission " + authModels.PermissionNotificationDeny)
	}
	if !before.CanTransitionTo(notificationModels.StatusDenied) {
		return nil, errors.NewInvalidStateTransition("cannot deny notification in status " + before.Status)
	}
	if param.Reason == "" {
		return nil, errors.NewValidation("denial reason must not be empty")
	}

	updated := *before
	updated.Status = notificationModels.StatusDenied
	reason := param.Reason
	updated.DenialReason = &reason
	updated.UpdatedBy = pctx.UserID
	if err = updated.Validate(); err != nil {
		return nil, err
	}

	if err = u.notificationDomain.CompareAndSet(ctx, pctx.OrgID, param.ID, param.Version, &updated); err != nil {
		return nil, err
	}
	after = &updated

	return &View{
		Notification: &updated,
		Links:        BuildLinks(updated.ID, updated.Status, pctx),
	}, nil
}

// recordAudit writes exactly one record per mutating call, failed attempts
// included (After stays null then). An audit write failure is logged and
// swallowed: the transition already persisted and must not be unwound.
func (u *ModerationUsecase) recordAudit(ctx context.Context, action string, pctx *authModels.PermissionContext, entityID strfmt.UUID4, before, after *notificationModels.Notification) {
	rec := &auditModels.Record{
		OrgID:         pctx.OrgID,
		ActorID:       pctx.UserID,
		EntityType:    auditModels.EntityTypeNotification,
		EntityID:      entityID,
		Action:        action,
		Before:        u.snapshot(ctx, before),
		After:         u.snapshot(ctx, after),
		CorrelationID: logger.CorrelationID(ctx),
		RemoteAddr:    pctx.RemoteAddr,
		UserAgent:     pctx.UserAgent,
	}

	if err := u.auditDomain.Create(ctx, rec); err != nil {
		u.log.ErrorWithContext(ctx, "audit write failed for ", action, " on ", entityID, ": ", err)
	}
}

// snapshot serializes one notification state for the audit trail. Only a nil
// state maps to null: a state that cannot be marshalled is logged and recorded
// as a marker object, never as null, since null means the mutation failed.
func (u *ModerationUsecase) snapshot(ctx context.Context, n *notificationModels.Notification) pgtype.JSONB {
	j := pgtype.JSONB{Status: pgtype.Null}
	if n == nil {
		return j
	}

	cp := *n
	if cp.RawPayload.Status == pgtype.Undefined {
		cp.RawPayload.Status = pgtype.Null
	}
	if err := j.Set(&cp); err != nil {
		u.log.ErrorWithContext(ctx, "audit snapshot of notification ", n.ID, " failed: ", err)
		if err := j.Set(map[string]string{"snapshot_error": err.Error()}); err != nil {
			return pgtype.JSONB{Status: pgtype.Null}
		}
	}
	return j
}

func rawJSONB(raw json.RawMessage) pgtype.JSONB {
	j := pgtype.JSONB{Status: pgtype.Null}
	if len(raw) == 0 {
		return j
	}
	if err := j.Set([]byte(raw)); err != nil {
		return pgtype.JSONB{Status: pgtype.Null}
	}
	return j
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
