package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parkwarden/parkwarden/internal/infrastructure/config"
	"github.com/parkwarden/parkwarden/internal/infrastructure/database"
	"github.com/parkwarden/parkwarden/internal/infrastructure/migration"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

var (
	env        string
	configPath string
	name       string
	dir        string
	steps      int
	target     int64
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply pending database migrations. --to stops at a schema version, which is how a legacy schema is reproduced.`,
		RunE:  runUp,
	}

	cmd.Flags().Int64Var(&target, "to", 0, "Stop at this schema version (0 applies everything)")

	return cmd
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new sequential SQL migration file with the specified name.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&dir, "dir", migration.DefaultScriptsPath, "Directory that holds the migration scripts")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initEnv(withDatabase bool) (logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	if withDatabase {
		if err := database.Init(&cfg.Database, cfg.Server.Mode); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	return log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	log, err := initEnv(true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "target", target)

	strategy := migration.NewGooseStrategy(log)
	if err := strategy.MigrateTo(cmd.Context(), database.Get(), target); err != nil {
		log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	log, err := initEnv(true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("running down migrations", "environment", env, "steps", steps)

	strategy := migration.NewGooseStrategy(log)
	if err := strategy.MigrateDown(cmd.Context(), database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	log, err := initEnv(true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("checking migration status", "environment", env)

	ctx := cmd.Context()

	strategy := migration.NewGooseStrategy(log)
	version, err := strategy.GetVersion(ctx, database.Get())
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("\nMigration Status:\n")
	fmt.Printf("  Environment:     %s\n", env)
	fmt.Printf("  Current Version: %d\n", version)

	if err := strategy.Status(ctx, database.Get()); err != nil {
		log.Errorw("failed to get detailed status", "error", err)
		return fmt.Errorf("failed to get detailed status: %w", err)
	}

	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	log, err := initEnv(false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	log.Infow("creating new migration", "name", name, "dir", dir)

	strategy := migration.NewGooseStrategy(log)
	if err := strategy.Create(dir, name); err != nil {
		log.Errorw("failed to create migration", "error", err)
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Printf("Migration '%s' created in %s\n", name, dir)
	return nil
}
