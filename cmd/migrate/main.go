package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Domenick1991/letservice/config"
	"github.com/Domenick1991/letservice/internal/logger"
	"github.com/Domenick1991/letservice/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

var errUnknownDirection = errors.New("unknown direction, want up or down")

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config.yaml")
	flag.Parse()
	direction := flag.Arg(0)
	if direction == "" {
		direction = "up"
	}

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		logger.NewZeroLog("").Error("load config", logger.F("error", err))
		os.Exit(1)
	}
	log := logger.NewZeroLog(cfg.App.Env)

	if err := run(cfg, direction, log); err != nil {
		log.Error("migrate failed", logger.F("direction", direction), logger.F("error", err))
		if errors.Is(err, errUnknownDirection) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg *config.Config, direction string, log logger.Logger) error {
	if direction != "up" && direction != "down" {
		return fmt.Errorf("%w: %q", errUnknownDirection, direction)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.Database.MigrateURL())
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn("close migrate", logger.F("source_error", srcErr), logger.F("database_error", dbErr))
		}
	}()

	if direction == "up" {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info("migrations applied", logger.F("direction", direction), logger.F("version", "none"))
	case err != nil:
		log.Error("read migration version", logger.F("error", err))
	default:
		log.Info("migrations applied", logger.F("direction", direction), logger.F("version", version), logger.F("dirty", dirty))
	}
	return nil
}
