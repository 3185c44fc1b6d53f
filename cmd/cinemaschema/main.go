package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tordrt/cinemaschema"
	"github.com/tordrt/cinemaschema/internal/config"
	"github.com/tordrt/cinemaschema/internal/logger"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	v       *viper.Viper
	envFile string
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "cinemaschema",
		Short:         "Manage the cinema booking database schema",
		Long:          `cinemaschema creates, reverts, and documents the cinema booking schema (movies, shows, cinemas, showrooms, pricing, seats) on PostgreSQL, MySQL, or SQLite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("database-url", "", "Database URL (postgres://, mysql://, or sqlite://); env DATABASE_URL")
	flags.String("schema", "", "PostgreSQL schema to work in (default: public); MySQL and SQLite only accept their default")
	flags.String("migrations-table", "", "Bookkeeping table name (default: migrations)")
	flags.String("log-path", "", "Directory for the rotating log file (default: logs/)")
	flags.Bool("debug", false, "Enable debug logging")
	flags.StringVar(&a.envFile, "env-file", ".env", "Optional .env file to load")

	_ = a.v.BindPFlag(config.KeyDatabaseURL, flags.Lookup("database-url"))
	_ = a.v.BindPFlag(config.KeySchema, flags.Lookup("schema"))
	_ = a.v.BindPFlag(config.KeyMigrationsTable, flags.Lookup("migrations-table"))
	_ = a.v.BindPFlag(config.KeyLogPath, flags.Lookup("log-path"))
	_ = a.v.BindPFlag(config.KeyDebug, flags.Lookup("debug"))

	rootCmd.AddCommand(
		a.upCmd(),
		a.downCmd(),
		a.statusCmd(),
		a.describeCmd(),
		a.inspectCmd(),
	)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	log, err := logger.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	a.log = log
	return nil
}

func (a *app) options() (*cinemaschema.Options, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("--database-url or DATABASE_URL must be specified")
	}
	return &cinemaschema.Options{
		SchemaName:      a.cfg.Schema,
		MigrationsTable: a.cfg.MigrationsTable,
		Logger:          a.log,
	}, nil
}

func parseTableList(s string) []string {
	if s == "" {
		return nil
	}
	tables := strings.Split(s, ",")
	for i, t := range tables {
		tables[i] = strings.TrimSpace(t)
	}
	return tables
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
