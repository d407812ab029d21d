package usecase

import (
	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/internal/domain"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase/auth"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase/dispatch"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase/moderation"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/broker"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

type Usecase struct {
	Auth       auth.AuthUsecaseHandler
	Moderation moderation.ModerationUsecaseHandler
	Dispatch   dispatch.DispatcherHandler
}

func NewUsecase(
	cfg *configs.AppConfig,
	log logger.Logger,
	dom *domain.Domain,
	br broker.Client,
) *Usecase {
	dispatcher := dispatch.NewDispatcher(cfg, log, dom, br)
	return &Usecase{
		Auth:       auth.NewAuthUsecase(cfg, log, dom),
		Moderation: moderation.NewModerationUsecase(cfg, log, dom, dispatcher),
		Dispatch:   dispatcher,
	}
}
