package worker

import (
	"github.com/hibiken/asynq"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

type WorkerHandler struct {
	cfg *configs.AppConfig
	log logger.Logger
	mux *asynq.ServeMux
}

func NewWorkerHandler(cfg *configs.AppConfig, log logger.Logger, mux *asynq.ServeMux) *WorkerHandler {
	return &WorkerHandler{
		cfg: cfg,
		log: log,
		mux: mux,
	}
}

func (w *WorkerHandler) RegisterHandlers() {
	w.RegisterDeliveryHandlers()
}
