package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	enginemetrics "github.com/EspaAdmin/Espa-Roleplay-Development/internal/adapters/metrics"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/adapters/persistence"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/build"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/common"
	modifierapp "github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/modifier"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/recruit"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/report"
	tradeapp "github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/trade"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/turn"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/infrastructure/config"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/infrastructure/database"
)

// app bundles the wired engine services for command handlers.
type app struct {
	db        *gorm.DB
	cfg       *config.Config
	registry  *prometheus.Registry
	Builds    *build.Service
	Recruits  *recruit.Service
	Trades    *tradeapp.Service
	Turns     *turn.Service
	Modifiers *modifierapp.Service
	Reports   *report.Service
}

// newApp opens the configured database and wires every service.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	repos := persistence.NewRepositories(db)
	uow := persistence.NewGormUnitOfWork(db)
	clock := shared.NewRealClock()

	registry := prometheus.NewRegistry()
	var metrics common.Metrics = common.NoOpMetrics{}
	if cfg.Metrics.Enabled {
		collector := enginemetrics.NewEngineCollector()
		if err := collector.Register(registry); err != nil {
			return nil, fmt.Errorf("metrics registration failed: %w", err)
		}
		metrics = collector
	}

	return &app{
		db:        db,
		cfg:       cfg,
		registry:  registry,
		Builds:    build.NewService(repos, uow),
		Recruits:  recruit.NewService(repos, uow),
		Trades:    tradeapp.NewService(repos, uow, clock, metrics),
		Turns:     turn.NewService(repos, uow, clock, metrics),
		Modifiers: modifierapp.NewService(repos),
		Reports:   report.NewService(repos),
	}, nil
}

func (a *app) Close() {
	_ = database.Close(a.db)
}

// commandContext carries a stderr logger so batch paths can report skipped
// rows.
func commandContext() context.Context {
	ctx := context.Background()
	return common.WithLogger(ctx, &stderrLogger{verbose: verbose})
}

type stderrLogger struct {
	verbose bool
}

func (l *stderrLogger) Log(level, message string, metadata map[string]interface{}) {
	if level == "DEBUG" && !l.verbose {
		return
	}
	if len(metadata) == 0 {
		log.Printf("[%s] %s", level, message)
		return
	}
	fields, err := json.Marshal(metadata)
	if err != nil {
		log.Printf("[%s] %s", level, message)
		return
	}
	log.Printf("[%s] %s %s", level, message, fields)
}

// requireNation enforces the --nation flag for nation-scoped commands.
func requireNation() (string, error) {
	if nationID == "" {
		return "", fmt.Errorf("--nation is required")
	}
	return nationID, nil
}

// parseResourceSet reads a {"Resource": amount} JSON flag value.
func parseResourceSet(raw string) (shared.ResourceSet, error) {
	if raw == "" {
		return shared.ResourceSet{}, nil
	}
	set, err := shared.ParseResourceSet(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid resource map %q: %w", raw, err)
	}
	return set, nil
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(out))
}
