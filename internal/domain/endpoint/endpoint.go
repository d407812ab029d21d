package endpoint

import (
	"context"

	"github.com/go-openapi/strfmt"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	models "github.com/victor-lby/sos-cidadao-sub000/internal/models/endpoint"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

type EndpointDomainHandler interface {
	EndpointDomainReader
}

type EndpointDomainReader interface {
	ListByCategories(ctx context.Context, orgID strfmt.UUID4, categories []string) ([]models.Endpoint, error)
	CountByIDs(ctx context.Context, orgID strfmt.UUID4, ids []string) (int64, error)
}

type EndpointDomain struct {
	cfg *configs.AppConfig
	log logger.Logger
	db  *gorm.DB
}

func NewEndpointDomain(cfg *configs.AppConfig, log logger.Logger, db *gorm.DB) *EndpointDomain {
	return &EndpointDomain{
		cfg: cfg,
		log: log,
		db:  db,
	}
}

// ListByCategories returns the active endpoints of one org whose category
// subscriptions overlap the given set.
func (d *EndpointDomain) ListByCategories(ctx context.Context, orgID strfmt.UUID4, categories []string) ([]models.Endpoint, error) {
	var out []models.Endpoint
	err := d.db.WithContext(ctx).
		Where("org_id = ? AND active = true AND categories && ?", orgID, pq.Array(categories)).
		Find(&out).Error
	if err != nil {
		return nil, errors.NewInternal("list endpoints by categories", err)
	}
	return out, nil
}

// CountByIDs counts how many of ids exist as endpoints of the given org. Used
// to validate that a target set stays inside the caller's organization.
func (d *EndpointDomain) CountByIDs(ctx context.Context, orgID strfmt.UUID4, ids []string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Endpoint{}).
		Where("org_id = ? AND id IN ?", orgID, ids).
		Count(&count).Error
	if err != nil {
		return 0, errors.NewInternal("count endpoints", err)
	}
	return count, nil
}
