package app

import (
	"database/sql"
	"time"

	"github.com/fieldcal/fieldcal/internal/config"
	"github.com/fieldcal/fieldcal/internal/event_bus"
	"github.com/fieldcal/fieldcal/pkg/costs"
	"github.com/fieldcal/fieldcal/pkg/datetime"
	"github.com/fieldcal/fieldcal/pkg/event"
	"github.com/fieldcal/fieldcal/pkg/record"
	"github.com/fieldcal/fieldcal/pkg/reschedule"
	"github.com/fieldcal/fieldcal/pkg/viewport"
	"github.com/fieldcal/fieldcal/pkg/vocab"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus        *event_bus.Bus
	Normalizer *datetime.Normalizer

	VocabService *vocab.Service
	VocabHandler *vocab.Handler

	RecordRepo    record.Repository
	RecordHandler *record.Handler

	EventRepo    event.Repository
	EventCache   *event.Cache
	EventService event.Service
	EventHandler *event.Handler

	ViewportController *viewport.Controller
	ViewportHandler    *viewport.Handler

	RescheduleCoordinator *reschedule.Coordinator
	RescheduleHandler     *reschedule.Handler

	CostsRepo      costs.Repository
	CostsRefresher *costs.Refresher
	CostsHandler   *costs.Handler
}

// BuildDependencies initializes and wires all application services and
// handlers. The cost refresher is registered last so every mutation signal it
// reacts to is published by services built here.
func BuildDependencies(db *sql.DB, loc *time.Location, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewBus()
	deps.Normalizer = datetime.NewNormalizer(loc)

	deps.VocabService = vocab.NewService(cfg.Vocab)
	deps.VocabHandler = vocab.NewHandler(deps.VocabService)

	deps.RecordRepo = record.NewRepository(db)
	deps.RecordHandler = record.NewHandler(deps.RecordRepo)

	deps.EventRepo = event.NewRepository(db, deps.Normalizer)
	deps.EventCache = event.NewCache()
	deps.EventService = event.NewService(deps.EventRepo, deps.EventCache, deps.Normalizer, deps.Bus)
	deps.EventHandler = event.NewHandler(deps.EventService, deps.VocabService)

	deps.ViewportController = viewport.NewController(deps.EventRepo, deps.Normalizer, deps.Bus)
	deps.ViewportHandler = viewport.NewHandler(deps.ViewportController)

	deps.RescheduleCoordinator = reschedule.NewCoordinator(deps.EventService, deps.EventService, deps.Bus)
	deps.RescheduleHandler = reschedule.NewHandler(deps.RescheduleCoordinator)

	deps.CostsRepo = costs.NewRepository(db)
	deps.CostsRefresher = costs.NewRefresher(deps.CostsRepo, loc)
	deps.CostsRefresher.Register(deps.Bus)
	deps.CostsHandler = costs.NewHandler(deps.CostsRefresher)

	return deps
}
