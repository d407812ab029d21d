package notification

import (
	"gorm.io/gorm"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

type NotificationDomainHandler interface {
	NotificationDomainReader
	NotificationDomainWriter
}

type NotificationDomain struct {
	cfg *configs.AppConfig
	log logger.Logger
	db  *gorm.DB
}

func NewNotificationDomain(cfg *configs.AppConfig, log logger.Logger, db *gorm.DB) *NotificationDomain {
	return &NotificationDomain{
		cfg: cfg,
		log: log,
		db:  db,
	}
}
