package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garage/internal/entities"
	"garage/internal/estimator"
	"garage/internal/log"
	"garage/internal/metrics"
	"garage/internal/repository"
	"garage/internal/whatsapp"
)

// EstimatorService runs form operations against a session, holding the
// session lock for every state change but not across the vPIC lookup.
type EstimatorService struct {
	decoder    estimator.Decoder
	dispatcher *whatsapp.Dispatcher
	sender     *SenderService
	log        log.Logger
}

func NewEstimatorService(decoder estimator.Decoder, dispatcher *whatsapp.Dispatcher, sender *SenderService, logger log.Logger) *EstimatorService {
	return &EstimatorService{
		decoder:    decoder,
		dispatcher: dispatcher,
		sender:     sender,
		log:        logger,
	}
}

// FormInput is a full submission of the estimator page. Only values that
// differ from the current state are applied, each as the matching user edit.
type FormInput struct {
	VIN      string
	Make     string
	Fields   map[string]string
	Services []string
}

func (s *EstimatorService) State(sess *repository.Session) entities.FormState {
	sess.Lock()
	defer sess.Unlock()
	return sess.Form.Snapshot()
}

func (s *EstimatorService) InputVIN(sess *repository.Session, vin string) entities.FormState {
	sess.Lock()
	defer sess.Unlock()
	sess.Form.InputVIN(vin)
	return sess.Form.Snapshot()
}

func (s *EstimatorService) InputField(sess *repository.Session, id, value string) (entities.FormState, error) {
	sess.Lock()
	defer sess.Unlock()
	err := sess.Form.InputField(id, value)
	return sess.Form.Snapshot(), err
}

func (s *EstimatorService) SelectMake(sess *repository.Session, value string) (entities.FormState, error) {
	sess.Lock()
	defer sess.Unlock()
	err := sess.Form.SelectMake(value)
	return sess.Form.Snapshot(), err
}

func (s *EstimatorService) SetServices(sess *repository.Session, ids []string) (entities.FormState, error) {
	sess.Lock()
	defer sess.Unlock()
	err := sess.Form.SetServices(ids)
	return sess.Form.Snapshot(), err
}

// ApplyForm applies a page submission: a changed VIN fires the VIN edit,
// changed fields fire their edit listeners, then make and services are set.
// The whole submission is checked first; a rejected one changes nothing.
// A make the session does not know is restored as an option, since the page
// may have been rendered for a session that has since expired.
func (s *EstimatorService) ApplyForm(sess *repository.Session, in FormInput) (entities.FormState, error) {
	sess.Lock()
	defer sess.Unlock()
	f := sess.Form

	for id := range in.Fields {
		if !f.HasField(id) {
			return f.Snapshot(), fmt.Errorf("%w: %s", estimator.ErrUnknownField, id)
		}
	}
	if err := estimator.CheckServices(in.Services); err != nil {
		return f.Snapshot(), err
	}

	f.InputVIN(in.VIN)
	for id, value := range in.Fields {
		if value == f.FieldValue(id) {
			continue
		}
		_ = f.InputField(id, value)
	}
	if in.Make != f.SelectedMake() {
		if !f.HasMake(in.Make) {
			s.log.Debug("restoring make unknown to session", "session", sess.ID, "make", in.Make)
		}
		f.RestoreMake(in.Make)
	}
	_ = f.SetServices(in.Services)
	return f.Snapshot(), nil
}

// DecodeVin decodes the session's VIN. When another decode or a VIN edit
// overtakes this one, its result is dropped and ErrStaleDecode returned.
func (s *EstimatorService) DecodeVin(ctx context.Context, sess *repository.Session) (entities.FormState, error) {
	sess.Lock()
	ticket, err := sess.Form.BeginDecode()
	if err != nil {
		state := sess.Form.Snapshot()
		sess.Unlock()
		metrics.VINDecodes.WithLabelValues(decodeResult(err)).Inc()
		return state, err
	}
	sess.Unlock()

	start := time.Now()
	results, lookupErr := s.decoder.DecodeVin(ctx, ticket.VIN)
	metrics.VINDecodeLatency.Observe(time.Since(start).Seconds())

	sess.Lock()
	defer sess.Unlock()
	err = sess.Form.FinishDecode(ticket, results, lookupErr)
	metrics.VINDecodes.WithLabelValues(decodeResult(err)).Inc()
	if errors.Is(err, estimator.ErrStaleDecode) {
		s.log.Debug("discarding superseded vin decode", "session", sess.ID, "vin", ticket.VIN)
	}
	return sess.Form.Snapshot(), err
}

func (s *EstimatorService) CalculateEstimate(sess *repository.Session) (entities.FormState, error) {
	sess.Lock()
	defer sess.Unlock()
	_, err := sess.Form.CalculateEstimate()
	switch {
	case err == nil:
		metrics.Estimates.WithLabelValues("ok").Inc()
	case errors.Is(err, estimator.ErrInvalidYear):
		metrics.Estimates.WithLabelValues("invalid_year").Inc()
	case errors.Is(err, estimator.ErrNoServices):
		metrics.Estimates.WithLabelValues("no_services").Inc()
	}
	return sess.Form.Snapshot(), err
}

func (s *EstimatorService) Reset(sess *repository.Session) entities.FormState {
	sess.Lock()
	defer sess.Unlock()
	sess.Form.Reset()
	return sess.Form.Snapshot()
}

// WhatsAppLink returns the wa.me link for the session's stored estimate.
func (s *EstimatorService) WhatsAppLink(sess *repository.Session) string {
	sess.Lock()
	defer sess.Unlock()
	return s.dispatcher.SendEstimate(sess.Form)
}

// SendEstimate pushes the displayed estimate to the workshop through the
// configured delivery channels.
func (s *EstimatorService) SendEstimate(ctx context.Context, sess *repository.Session) error {
	sess.Lock()
	state := sess.Form.Snapshot()
	sess.Unlock()

	if state.Estimate == nil {
		return estimator.ErrNoEstimate
	}
	return s.sender.SendEstimate(ctx, *state.Estimate, state.Vehicle)
}

func decodeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, estimator.ErrVINLength):
		return "bad_length"
	case errors.Is(err, estimator.ErrIncompleteDecode):
		return "incomplete"
	case errors.Is(err, estimator.ErrDecodedYear):
		return "bad_year"
	case errors.Is(err, estimator.ErrStaleDecode):
		return "stale"
	default:
		return "error"
	}
}
