package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"garage/internal/log"
	"garage/internal/repository"
	"garage/internal/service"
)

func NewRouter(svc *service.EstimatorService, sessions *repository.SessionRepository, logger log.Logger) *mux.Router {
	page := NewPageHandler(svc, logger.WithName("page"))
	estimatorHandler := NewEstimatorHandler(svc, logger.WithName("api"))

	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, MessageResponse{Message: "ok"})
	}).Methods("GET")

	// Everything below works on the visitor's session.
	app := r.PathPrefix("/").Subrouter()
	app.Use(SessionMiddleware(sessions))

	app.HandleFunc("/", page.Show).Methods("GET")
	app.HandleFunc("/", page.Submit).Methods("POST")
	app.HandleFunc("/whatsapp", page.OpenWhatsApp).Methods("GET")

	app.HandleFunc("/api/state", estimatorHandler.GetState).Methods("GET")
	app.HandleFunc("/api/vin", estimatorHandler.InputVIN).Methods("PUT")
	app.HandleFunc("/api/vin/decode", estimatorHandler.DecodeVin).Methods("POST")
	app.HandleFunc("/api/fields/{id}", estimatorHandler.InputField).Methods("PUT")
	app.HandleFunc("/api/make", estimatorHandler.SelectMake).Methods("PUT")
	app.HandleFunc("/api/services", estimatorHandler.SetServices).Methods("PUT")
	app.HandleFunc("/api/estimate", estimatorHandler.CalculateEstimate).Methods("POST")
	app.HandleFunc("/api/estimate/send", estimatorHandler.SendEstimate).Methods("POST")
	app.HandleFunc("/api/reset", estimatorHandler.Reset).Methods("POST")
	app.HandleFunc("/api/whatsapp", estimatorHandler.WhatsAppLink).Methods("GET")

	return r
}
