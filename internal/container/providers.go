package container

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/tpa-claims/internal/application/dispatcher"
	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/application/service"
	"github.com/garyjia/tpa-claims/internal/application/workflow"
	"github.com/garyjia/tpa-claims/internal/infrastructure/export"
	"github.com/garyjia/tpa-claims/internal/infrastructure/messaging"
	"github.com/garyjia/tpa-claims/internal/infrastructure/persistence/repository"
	"github.com/garyjia/tpa-claims/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/tpa-claims/pkg/database"
	"github.com/garyjia/tpa-claims/pkg/utils"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	SqlDB          *sql.DB
	TransactionMgr *sqlite.DB
}

// ProvideDatabase opens the SQLite file, applies the embedded migrations
// and wraps the connection in a transaction manager.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		SqlDB:          db.DB,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories over the transaction manager.
func ProvideRepositories(db *sqlite.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Claim:      repository.NewClaimRepository(db, logger),
		Audit:      repository.NewAuditRepository(db, logger),
		Categories: repository.NewAttachmentCategoryRepository(db, logger),
	}, nil
}

// ProvideDispatcher creates the in-process claim event dispatcher.
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewKVLogger(logger))), nil
}

// WorkflowDeps contains dependencies for the claim workflow engine.
type WorkflowDeps struct {
	Repos      *RepositoryBundle
	TxManager  port.TransactionManager
	Dispatcher dispatcher.Dispatcher
	Config     *WorkflowConfig
	Logger     *zap.Logger
}

// ProvideWorkflowEngine creates the claim workflow engine.
func ProvideWorkflowEngine(deps *WorkflowDeps) (workflow.ClaimWorkflow, error) {
	if deps == nil || deps.Repos == nil {
		return nil, fmt.Errorf("workflow dependencies are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	opts := []workflow.EngineOption{
		workflow.WithLogger(utils.NewKVLogger(deps.Logger)),
	}
	if deps.Dispatcher != nil {
		opts = append(opts, workflow.WithDispatcher(deps.Dispatcher))
	}
	if deps.Config != nil {
		opts = append(opts, workflow.WithTransactionTimeout(deps.Config.TransactionTimeout))
	}

	return workflow.NewEngine(
		deps.Repos.Claim,
		deps.Repos.Audit,
		deps.Repos.Categories,
		deps.TxManager,
		opts...,
	), nil
}

// ProvideHistoryService creates the audit history service with the XLSX exporter.
func ProvideHistoryService(repos *RepositoryBundle, logger *zap.Logger) (service.HistoryService, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return service.NewHistoryService(
		repos.Claim,
		repos.Audit,
		export.NewAuditWorkbookExporter(logger),
		utils.NewKVLogger(logger),
	), nil
}

// ProvideEventPublisher connects to RabbitMQ and subscribes the publisher to every claim event.
// It returns nil without error when publishing is not configured.
func ProvideEventPublisher(cfg *EventsConfig, disp dispatcher.Dispatcher, logger *zap.Logger) (port.EventPublisher, error) {
	if cfg == nil || cfg.AMQPURL == "" {
		logger.Info("Claim event publishing disabled")
		return nil, nil
	}
	if disp == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}

	publisher, err := messaging.Connect(cfg.AMQPURL, cfg.Queue, logger)
	if err != nil {
		return nil, err
	}

	disp.SubscribeAll("rabbitmq_publisher", publisher.Handler())
	return publisher, nil
}
