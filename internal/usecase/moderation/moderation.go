package moderation

import (
	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/internal/domain"
	auditDomain "github.com/victor-lby/sos-cidadao-sub000/internal/domain/audit"
	endpointDomain "github.com/victor-lby/sos-cidadao-sub000/internal/domain/endpoint"
	notificationDomain "github.com/victor-lby/sos-cidadao-sub000/internal/domain/notification"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase/dispatch"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

type ModerationUsecaseHandler interface {
	ModerationUsecaseReader
	ModerationUsecaseWriter
}

// ModerationUsecase owns the notification lifecycle. Nothing else in the
// codebase is allowed to change a notification's status.
type ModerationUsecase struct {
	cfg                *configs.AppConfig
	log                logger.Logger
	notificationDomain notificationDomain.NotificationDomainHandler
	endpointDomain     endpointDomain.EndpointDomainReader
	auditDomain        auditDomain.AuditDomainWriter
	dispatcher         dispatch.DispatcherHandler
}

func NewModerationUsecase(cfg *configs.AppConfig, log logger.Logger, dom *domain.Domain, dispatcher dispatch.DispatcherHandler) *ModerationUsecase {
	return &ModerationUsecase{
		cfg:                cfg,
		log:                log,
		notificationDomain: dom.Notification,
		endpointDomain:     dom.Endpoint,
		auditDomain:        dom.Audit,
		dispatcher:         dispatcher,
	}
}
