package app

import (
	"github.com/fieldcal/fieldcal/internal/config"
	"github.com/fieldcal/fieldcal/internal/metrics"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Calendar events
	r.HandleFunc("/api/calendar/event", deps.ViewportHandler.ListEvents).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/calendar/event", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/calendar/event/{eventId}", deps.EventHandler.GetEventDetail).Methods("GET")
	r.HandleFunc("/api/calendar/event/{eventId}", deps.EventHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/calendar/event/{eventId}", deps.EventHandler.DeleteEvent).Methods("DELETE")
	r.HandleFunc("/api/calendar/event/{eventId}/dates", deps.RescheduleHandler.MoveEvent).Methods("PATCH")
	r.HandleFunc("/api/calendar/drop", deps.EventHandler.HandleDrop).Methods("POST")

	// Cost summary
	r.HandleFunc("/api/costs/summary", deps.CostsHandler.GetSummary).Methods("GET")

	// Source records (drag sources for the calendar)
	r.HandleFunc("/api/records", deps.RecordHandler.ListRecords).Methods("GET")

	// Controlled vocabularies
	r.HandleFunc("/api/vocab", deps.VocabHandler.GetVocabularies).Methods("GET")

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", metrics.Handler()).Methods("GET")
	}
}
