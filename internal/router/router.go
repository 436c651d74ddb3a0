package router

import (
	"net/http"

	"sourcing/internal/controller"
)

func NewRouter(c *controller.Controller) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", c.Ping)
	mux.HandleFunc("GET /api/events", c.GetEvents)
	mux.HandleFunc("POST /api/events/new", c.NewEvent)
	mux.HandleFunc("GET /api/events/{eventId}", c.GetEvent)
	mux.HandleFunc("GET /api/events/{eventId}/status", c.EventStatus)
	mux.HandleFunc("POST /api/events/{eventId}/submit", c.SubmitEvent)
	mux.HandleFunc("POST /api/events/{eventId}/approve", c.ApproveEvent)
	mux.HandleFunc("POST /api/events/{eventId}/reject", c.RejectEvent)
	mux.HandleFunc("POST /api/events/{eventId}/quotes", c.NewQuote)
	mux.HandleFunc("POST /api/events/{eventId}/pause", c.PauseEvent)
	mux.HandleFunc("POST /api/events/{eventId}/resume", c.ResumeEvent)
	mux.HandleFunc("POST /api/events/{eventId}/modification/enter", c.EnterModification)
	mux.HandleFunc("POST /api/events/{eventId}/modification/cancel", c.CancelModification)
	mux.HandleFunc("POST /api/events/{eventId}/modification/submit", c.SubmitModification)
	mux.HandleFunc("GET /api/events/{eventId}/modification/requests", c.ModificationRequests)
	mux.HandleFunc("GET /api/events/{eventId}/award/check", c.CheckAward)
	mux.HandleFunc("POST /api/events/{eventId}/award", c.InitiateAward)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("page not found"))
	})

	cors := http.NewServeMux()
	cors.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Accept", "*/*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
		} else {
			mux.ServeHTTP(w, r)
		}
	})

	return cors
}
