package role

import (
	"context"

	"github.com/go-openapi/strfmt"
	"gorm.io/gorm"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	models "github.com/victor-lby/sos-cidadao-sub000/internal/models/role"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

type RoleDomainHandler interface {
	RoleDomainReader
}

type RoleDomainReader interface {
	ListForUser(ctx context.Context, orgID, userID strfmt.UUID4) ([]models.Role, error)
}

type RoleDomain struct {
	cfg *configs.AppConfig
	log logger.Logger
	db  *gorm.DB
}

func NewRoleDomain(cfg *configs.AppConfig, log logger.Logger, db *gorm.DB) *RoleDomain {
	return &RoleDomain{
		cfg: cfg,
		log: log,
		db:  db,
	}
}

// ListForUser returns every role bound to the user within the org. An empty
// result means the user has no standing there at all.
func (d *RoleDomain) ListForUser(ctx context.Context, orgID, userID strfmt.UUID4) ([]models.Role, error) {
	var out []models.Role
	err := d.db.WithContext(ctx).
		Joins("JOIN role_bindings rb ON rb.role_id = roles.id").
		Where("rb.org_id = ? AND rb.user_id = ? AND roles.org_id = ?", orgID, userID, orgID).
		Find(&out).Error
	if err != nil {
		return nil, errors.NewInternal("list roles for user", err)
	}
	return out, nil
}
