package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"garage/internal/entities"
	"garage/internal/log"
	"garage/internal/service"
)

type EstimatorHandler struct {
	Service *service.EstimatorService
	log     log.Logger
}

func NewEstimatorHandler(svc *service.EstimatorService, logger log.Logger) *EstimatorHandler {
	return &EstimatorHandler{Service: svc, log: logger}
}

// respondState writes the form state, with the mapped status when err is set.
func (h *EstimatorHandler) respondState(w http.ResponseWriter, state entities.FormState, err error) {
	if err == nil {
		respondWithJSON(w, http.StatusOK, StateResponse{State: state})
		return
	}
	httpErr := toHTTPError(err)
	if httpErr.Code >= http.StatusInternalServerError && httpErr.Code != http.StatusBadGateway {
		h.log.Error(err, "estimator request failed")
	}
	respondWithJSON(w, httpErr.Code, StateResponse{State: state, Error: httpErr.Message})
}

func (h *EstimatorHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, h.Service.State(sessionFrom(r)), nil)
}

func (h *EstimatorHandler) InputVIN(w http.ResponseWriter, r *http.Request) {
	var req VINRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err.Code, err.Message)
		return
	}
	h.respondState(w, h.Service.InputVIN(sessionFrom(r), req.VIN), nil)
}

func (h *EstimatorHandler) DecodeVin(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if r.ContentLength > 0 {
		var req DecodeRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, err.Code, err.Message)
			return
		}
		if req.VIN != nil && *req.VIN != h.Service.State(sess).VIN {
			h.Service.InputVIN(sess, *req.VIN)
		}
	}
	state, err := h.Service.DecodeVin(r.Context(), sess)
	h.respondState(w, state, err)
}

func (h *EstimatorHandler) InputField(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req FieldRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err.Code, err.Message)
		return
	}
	state, err := h.Service.InputField(sessionFrom(r), id, req.Value)
	h.respondState(w, state, err)
}

func (h *EstimatorHandler) SelectMake(w http.ResponseWriter, r *http.Request) {
	var req MakeRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err.Code, err.Message)
		return
	}
	state, err := h.Service.SelectMake(sessionFrom(r), req.Make)
	h.respondState(w, state, err)
}

func (h *EstimatorHandler) SetServices(w http.ResponseWriter, r *http.Request) {
	var req ServicesRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, err.Code, err.Message)
		return
	}
	state, err := h.Service.SetServices(sessionFrom(r), req.Services)
	h.respondState(w, state, err)
}

func (h *EstimatorHandler) CalculateEstimate(w http.ResponseWriter, r *http.Request) {
	state, err := h.Service.CalculateEstimate(sessionFrom(r))
	h.respondState(w, state, err)
}

func (h *EstimatorHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, h.Service.Reset(sessionFrom(r)), nil)
}

func (h *EstimatorHandler) WhatsAppLink(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, WhatsAppResponse{URL: h.Service.WhatsAppLink(sessionFrom(r))})
}

func (h *EstimatorHandler) SendEstimate(w http.ResponseWriter, r *http.Request) {
	err := h.Service.SendEstimate(r.Context(), sessionFrom(r))
	if err != nil {
		httpErr := toHTTPError(err)
		if httpErr.Code == http.StatusInternalServerError {
			// Delivery provider failures surface as a gateway error.
			httpErr.Code = http.StatusBadGateway
			h.log.Error(err, "estimate delivery failed")
		}
		if errors.Is(err, service.ErrSendDisabled) {
			h.log.Warn("estimate delivery requested but no channel is configured")
		}
		respondWithError(w, httpErr.Code, httpErr.Message)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Estimate sent"})
}
