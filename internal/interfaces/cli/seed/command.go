package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/parkwarden/parkwarden/internal/domain/setting"
	"github.com/parkwarden/parkwarden/internal/infrastructure/cache"
	"github.com/parkwarden/parkwarden/internal/infrastructure/config"
	"github.com/parkwarden/parkwarden/internal/infrastructure/database"
	"github.com/parkwarden/parkwarden/internal/infrastructure/migration"
	"github.com/parkwarden/parkwarden/internal/infrastructure/permission"
	"github.com/parkwarden/parkwarden/internal/infrastructure/repository"
	"github.com/parkwarden/parkwarden/internal/infrastructure/schema"
	infraSeed "github.com/parkwarden/parkwarden/internal/infrastructure/seed"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

var (
	env        string
	configPath string
	file       string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load development fixtures",
		Long:  `Upsert properties, vehicles, the violation catalog, printer settings and property access grants from a YAML fixture.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the YAML fixture (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if env == "production" {
		return fmt.Errorf("refusing to seed a production database")
	}

	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.NewLogger()

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open fixture: %w", err)
	}
	defer f.Close()

	fixture, err := infraSeed.Decode(f)
	if err != nil {
		return err
	}

	if err := database.Init(&cfg.Database, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()
	db := database.Get()

	ctx := cmd.Context()
	probe := schema.NewVersionProbe(db, migration.NewGooseStrategy(log), log)
	caps, err := probe.Capabilities(ctx)
	if err != nil {
		return err
	}

	enforcer, err := permission.NewEnforcer(db, cfg.Casbin.ModelPath, log)
	if err != nil {
		return err
	}

	var settingsCache infraSeed.SettingsCache
	if client := cache.NewRedisClient(ctx, &cfg.Redis, log); client != nil {
		defer client.Close()
		settingsCache = cache.NewPrinterSettingsProvider(
			repository.NewPrinterSettingsRepository(db, log),
			probe,
			client,
			time.Duration(cfg.Redis.SettingsTTLSeconds)*time.Second,
			setting.PrinterSettings{},
			log,
		)
	}

	summary, err := infraSeed.NewSeeder(db, enforcer, settingsCache, log).Apply(ctx, fixture, caps)
	if err != nil {
		log.Errorw("seeding failed", "error", err, "file", file)
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Printf("Seeded %d properties, %d vehicles, %d violations, %d grants, %d admins from %s\n",
		summary.Properties, summary.Vehicles, summary.Violations, summary.Grants, summary.Admins, file)
	return nil
}
