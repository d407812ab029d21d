package notification

import (
	"context"
	goErrors "errors"
	"time"

	"github.com/go-openapi/strfmt"
	"gorm.io/gorm"

	models "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
)

type NotificationDomainReader interface {
	GetByID(ctx context.Context, orgID, id strfmt.UUID4) (*models.Notification, error)
	Find(ctx context.Context, orgID strfmt.UUID4, filter models.Filter) ([]models.Notification, error)
	FindStaleApproved(ctx context.Context, olderThan time.Time, limit int) ([]models.Notification, error)
}

// GetByID never returns a row from another organization. A cross-org id is
// reported as not found, same as a missing one.
func (d *NotificationDomain) GetByID(ctx context.Context, orgID, id strfmt.UUID4) (*models.Notification, error) {
	var n models.Notification
	err := d.db.WithContext(ctx).
		Where("id = ? AND org_id = ? AND deleted_at IS NULL", id, orgID).
		First(&n).Error
	if err != nil {
		if goErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFound("notification " + string(id) + " not found")
		}
		return nil, errors.NewInternal("fetch notification", err)
	}
	return &n, nil
}

func (d *NotificationDomain) Find(ctx context.Context, orgID strfmt.UUID4, filter models.Filter) ([]models.Notification, error) {
	q := d.db.WithContext(ctx).
		Where("org_id = ? AND deleted_at IS NULL", orgID).
		Order("created_at desc")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.OriginTag != "" {
		q = q.Where("origin_tag = ?", filter.OriginTag)
	}
	if filter.Category != "" {
		q = q.Where("? = ANY(categories)", filter.Category)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var out []models.Notification
	if err := q.Find(&out).Error; err != nil {
		return nil, errors.NewInternal("find notifications", err)
	}
	return out, nil
}

// FindStaleApproved returns approved notifications whose dispatch pipeline
// never completed. Used by the sweeper, which runs outside any single org.
func (d *NotificationDomain) FindStaleApproved(ctx context.Context, olderThan time.Time, limit int) ([]models.Notification, error) {
	var out []models.Notification
	err := d.db.WithContext(ctx).Raw(`
			SELECT *
			FROM notifications
			WHERE status = ? AND deleted_at IS NULL AND updated_at <= ?
			ORDER BY updated_at asc
			LIMIT ?
		`, models.StatusApproved, olderThan, limit).Scan(&out).Error
	if err != nil {
		return nil, errors.NewInternal("find stale approved notifications", err)
	}
	return out, nil
}
