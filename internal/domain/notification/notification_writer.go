package notification

import (
	"context"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	models "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/util"
)

type NotificationDomainWriter interface {
	Create(ctx context.Context, n *models.Notification, opts ...util.DbOptions) error
	CompareAndSet(ctx context.Context, orgID, id strfmt.UUID4, expectedVersion int64, updated *models.Notification, opts ...util.DbOptions) error
}

func (d *NotificationDomain) Create(ctx context.Context, n *models.Notification, opts ...util.DbOptions) error {
	if n.ID == "" {
		n.ID = strfmt.UUID4(uuid.NewString())
	}
	if n.Version == 0 {
		n.Version = 1
	}
	n.Schema = models.SchemaVersion

	db := d.db
	if len(opts) > 0 && opts[0].Transaction != nil {
		db = opts[0].Transaction
	}

	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return errors.NewInternal("create notification", err)
	}
	return nil
}

// CompareAndSet applies updated only when the persisted row still carries
// expectedVersion. The org filter is part of the predicate, so a cross-org
// write can never match. On success updated.Version holds the new version.
func (d *NotificationDomain) CompareAndSet(ctx context.Context, orgID, id strfmt.UUID4, expectedVersion int64, updated *models.Notification, opts ...util.DbOptions) error {
	db := d.db
	if len(opts) > 0 && opts[0].Transaction != nil {
		db = opts[0].Transaction
	}

	now := time.Now()
	values := map[string]interface{}{
		"status":        updated.Status,
		"targets":       updated.Targets,
		"categories":    updated.Categories,
		"denial_reason": updated.DenialReason,
		"updated_by":    updated.UpdatedBy,
		"version":       expectedVersion + 1,
		"updated_at":    now,
	}

	res := db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND org_id = ? AND version = ? AND deleted_at IS NULL", id, orgID, expectedVersion).
		Updates(values)
	if res.Error != nil {
		return errors.NewInternal("update notification", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NewConcurrentModification("notification " + string(id) + " changed since read")
	}

	updated.Version = expectedVersion + 1
	updated.UpdatedAt = now
	return nil
}
