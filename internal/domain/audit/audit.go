package audit

import (
	"context"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	models "github.com/victor-lby/sos-cidadao-sub000/internal/models/audit"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/util"
)

type AuditDomainHandler interface {
	AuditDomainWriter
}

// AuditDomainWriter is create-only. Audit rows are never updated or deleted.
type AuditDomainWriter interface {
	Create(ctx context.Context, record *models.Record, opts ...util.DbOptions) error
}

type AuditDomain struct {
	cfg *configs.AppConfig
	log logger.Logger
	db  *gorm.DB
}

func NewAuditDomain(cfg *configs.AppConfig, log logger.Logger, db *gorm.DB) *AuditDomain {
	return &AuditDomain{
		cfg: cfg,
		log: log,
		db:  db,
	}
}

func (d *AuditDomain) Create(ctx context.Context, record *models.Record, opts ...util.DbOptions) error {
	if record.ID == "" {
		record.ID = strfmt.UUID4(uuid.NewString())
	}

	db := d.db
	if len(opts) > 0 && opts[0].Transaction != nil {
		db = opts[0].Transaction
	}

	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return errors.NewInternal("create audit record", err)
	}
	return nil
}
