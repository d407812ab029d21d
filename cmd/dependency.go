package cmd

import (
	"log"
	"runtime"
	"sync"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/internal/domain"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/broker"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/databases"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

var (
	appDependency         *AppDependency
	appDependencySyncOnce sync.Once
)

type AppDependency struct {
	db        *gorm.DB
	cfg       *configs.AppConfig
	queue     *asynq.Client
	log       logger.Logger
	validator *goValidator.Validate
	dom       *domain.Domain
	usecase   *usecase.Usecase
}

func GetAppDependency() *AppDependency {
	appDependencySyncOnce.Do(func() {
		appDependency = NewAppDependency()
	})
	return appDependency
}

func NewAppDependency() *AppDependency {
	cfg := configs.Get()
	db, err := databases.NewSqlDb(cfg)
	lgOptions := logger.Options{
		Output:    logger.OutputStdout,
		Formatter: logger.FormatJSON,
		Level:     logger.LevelInfo,
		DefaultFields: map[string]string{
			"app.name":    cfg.Meta.Name,
			"app.runtime": runtime.Version(),
		},
	}
	lg := logger.Init(lgOptions)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Address})

	dom := domain.NewDomain(cfg, lg, db)
	uc := usecase.NewUsecase(cfg, lg, dom, broker.NewAsynqClient(asynqClient))

	return &AppDependency{
		db:        db,
		cfg:       cfg,
		queue:     asynqClient,
		log:       lg,
		validator: goValidator.New(),
		dom:       dom,
		usecase:   uc,
	}
}
