package domain

import (
	"gorm.io/gorm"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/internal/domain/audit"
	"github.com/victor-lby/sos-cidadao-sub000/internal/domain/endpoint"
	"github.com/victor-lby/sos-cidadao-sub000/internal/domain/notification"
	"github.com/victor-lby/sos-cidadao-sub000/internal/domain/role"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

type Domain struct {
	Notification notification.NotificationDomainHandler
	Endpoint     endpoint.EndpointDomainHandler
	Role         role.RoleDomainHandler
	Audit        audit.AuditDomainHandler
}

func NewDomain(cfg *configs.AppConfig, log logger.Logger, db *gorm.DB) *Domain {
	return &Domain{
		Notification: notification.NewNotificationDomain(cfg, log, db),
		Endpoint:     endpoint.NewEndpointDomain(cfg, log, db),
		Role:         role.NewRoleDomain(cfg, log, db),
		Audit:        audit.NewAuditDomain(cfg, log, db),
	}
}
