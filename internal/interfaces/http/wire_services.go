package http

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/parkwarden/parkwarden/internal/application/ticket/usecases"
	domainaudit "github.com/parkwarden/parkwarden/internal/domain/audit"
	"github.com/parkwarden/parkwarden/internal/domain/setting"
	"github.com/parkwarden/parkwarden/internal/infrastructure/audit"
	"github.com/parkwarden/parkwarden/internal/infrastructure/auth"
	"github.com/parkwarden/parkwarden/internal/infrastructure/cache"
	"github.com/parkwarden/parkwarden/internal/infrastructure/config"
	"github.com/parkwarden/parkwarden/internal/infrastructure/label"
	"github.com/parkwarden/parkwarden/internal/infrastructure/migration"
	"github.com/parkwarden/parkwarden/internal/infrastructure/permission"
	"github.com/parkwarden/parkwarden/internal/infrastructure/ratelimit"
	"github.com/parkwarden/parkwarden/internal/infrastructure/repository"
	"github.com/parkwarden/parkwarden/internal/infrastructure/schema"
	"github.com/parkwarden/parkwarden/internal/interfaces/http/handlers"
	ticketHandlers "github.com/parkwarden/parkwarden/internal/interfaces/http/handlers/ticket"
	"github.com/parkwarden/parkwarden/internal/interfaces/http/middleware"
	shareddb "github.com/parkwarden/parkwarden/internal/shared/db"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

// ============================================================
// Section 1: Infrastructure - schema probe, Redis, casbin, repositories
// ============================================================

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.cfg
	log := c.log
	db := c.db

	c.probe = schema.NewVersionProbe(db, migration.NewGooseStrategy(log), log)
	caps, err := c.probe.Capabilities(ctx)
	if err != nil {
		return fmt.Errorf("failed to detect schema capabilities: %w", err)
	}
	if !caps.IsCurrent() {
		log.Warnw("database schema is behind the latest migration, some features are disabled",
			"capabilities", caps.String())
	}

	c.redis = cache.NewRedisClient(ctx, &cfg.Redis, log)
	c.txManager = shareddb.NewTransactionManager(db)

	c.enforcer, err = permission.NewEnforcer(db, cfg.Casbin.ModelPath, log)
	if err != nil {
		return fmt.Errorf("failed to initialize property access enforcer: %w", err)
	}

	c.repos = newRepositories(db, c.probe, log)

	c.settings = cache.NewPrinterSettingsProvider(
		c.repos.settingRepo,
		c.probe,
		c.redis,
		time.Duration(cfg.Redis.SettingsTTLSeconds)*time.Second,
		defaultPrinterSettings(cfg),
		log,
	)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)

	limits := ratelimit.Config{
		RequestsPerMinute: cfg.Tickets.IssueRatePerMinute,
		RequestsPerHour:   cfg.Tickets.IssueRatePerHour,
	}
	if c.redis != nil && (limits.RequestsPerMinute > 0 || limits.RequestsPerHour > 0) {
		c.issueLimiter = middleware.NewCallerRateLimiter(ratelimit.NewRedisRateLimiter(c.redis), limits, log)
	}

	return nil
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, probe *schema.VersionProbe, log logger.Interface) *repositories {
	return &repositories{
		ticketRepo:    repository.NewTicketRepository(db, probe),
		ticketIndex:   repository.NewTicketSearchIndex(db, probe),
		violationRepo: repository.NewViolationRepository(db),
		propertyRepo:  repository.NewPropertyRepository(db),
		vehicleRepo:   repository.NewVehicleRepository(db),
		settingRepo:   repository.NewPrinterSettingsRepository(db, log),
	}
}

func defaultPrinterSettings(cfg *config.Config) setting.PrinterSettings {
	return setting.PrinterSettings{
		Timezone:           cfg.Label.Timezone,
		DPI:                cfg.Label.DPI,
		LabelWidthDots:     cfg.Label.WidthDots,
		MaxLabelLengthDots: cfg.Label.MaxLengthDots,
		LogoGraphic:        cfg.Label.LogoGraphic,
		LogoHeightDots:     cfg.Label.LogoHeightDots,
	}
}

// ============================================================
// Section 2: Audit - gorm table and RabbitMQ publisher
// ============================================================

func (c *Container) initAudit(ctx context.Context) error {
	caps, err := c.probe.Capabilities(ctx)
	if err != nil {
		return fmt.Errorf("failed to detect schema capabilities: %w", err)
	}

	var sinks domainaudit.MultiSink
	if caps.AuditLog {
		sinks = append(sinks, audit.NewGormSink(c.db))
	} else {
		c.log.Warnw("audit_logs table not available on this schema, audit events are not stored")
	}

	if c.cfg.RabbitMQ.Enabled() {
		rabbitSink, err := audit.DialRabbitSink(c.cfg.RabbitMQ.URL, c.cfg.RabbitMQ.Exchange, c.log)
		if err != nil {
			return fmt.Errorf("failed to connect audit publisher: %w", err)
		}
		c.rabbitSink = rabbitSink
		sinks = append(sinks, rabbitSink)
	}

	// A nil sink turns Emit into a no-op.
	if len(sinks) > 0 {
		c.auditSink = sinks
	}
	return nil
}

// ============================================================
// Section 3: Tickets - use cases, handlers, middlewares
// ============================================================

func (c *Container) initTickets() error {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	policy, err := usecases.ParseUnresolvedViolationPolicy(cfg.Tickets.UnresolvedViolationPolicy)
	if err != nil {
		return err
	}

	getTicketUC := usecases.NewGetTicketUseCase(repos.ticketRepo, repos.violationRepo, c.enforcer, log)

	c.ucs = &allUseCases{
		createTicketUC: usecases.NewCreateTicketUseCase(
			repos.vehicleRepo, repos.propertyRepo, c.enforcer, repos.violationRepo,
			repos.ticketRepo, c.txManager, c.probe, c.auditSink, policy, time.Now, log,
		),
		closeTicketUC: usecases.NewCloseTicketUseCase(
			repos.ticketRepo, c.enforcer, c.txManager, c.probe, c.auditSink, time.Now, log,
		),
		getTicketUC:     getTicketUC,
		searchTicketsUC: usecases.NewSearchTicketsUseCase(repos.ticketIndex, cfg.Tickets.SearchMaxRows, log),
		renderLabelUC:   usecases.NewRenderLabelUseCase(getTicketUC, repos.propertyRepo, label.NewRenderer(label.DisclaimerFormat(cfg.Label.DisclaimerFormat), log), log),
	}

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(c.db, c.probe, log),
		ticketHandler: ticketHandlers.NewTicketHandler(
			c.ucs.createTicketUC,
			c.ucs.closeTicketUC,
			c.ucs.getTicketUC,
			c.ucs.searchTicketsUC,
			c.ucs.renderLabelUC,
			c.settings,
			log,
		),
	}

	return nil
}
