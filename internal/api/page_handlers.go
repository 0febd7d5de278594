package api

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"garage/internal/entities"
	"garage/internal/estimator"
	"garage/internal/log"
	"garage/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Page form actions, carried by the submit button's name="action".
const (
	actionDecode   = "decode"
	actionEstimate = "estimate"
	actionReset    = "reset"
	actionWhatsApp = "whatsapp"
)

type pageData struct {
	State   entities.FormState
	MinYear int
	MaxYear int
}

// PageHandler serves the estimator page and its plain form submissions.
type PageHandler struct {
	Service *service.EstimatorService
	log     log.Logger
	now     func() time.Time
}

func NewPageHandler(svc *service.EstimatorService, logger log.Logger) *PageHandler {
	return &PageHandler{Service: svc, log: logger, now: time.Now}
}

func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		State:   h.Service.State(sessionFrom(r)),
		MinYear: estimator.MinYear,
		MaxYear: h.now().Year() + 1,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.ExecuteTemplate(w, "index.html", data); err != nil {
		h.log.Error(err, "failed to render estimator page")
	}
}

// Submit applies the posted form, runs the requested action and redirects
// back to the page. Operation failures are shown on the page, not as errors.
func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	sess := sessionFrom(r)

	in := service.FormInput{
		VIN:      r.PostForm.Get(estimator.FieldVIN),
		Make:     r.PostForm.Get(estimator.FieldCar),
		Fields:   make(map[string]string),
		Services: r.PostForm[estimator.FieldServices],
	}
	for _, fs := range h.Service.State(sess).Fields {
		if values, ok := r.PostForm[fs.ID]; ok && len(values) > 0 {
			in.Fields[fs.ID] = values[0]
		}
	}
	if _, err := h.Service.ApplyForm(sess, in); err != nil {
		h.log.Warn("ignoring rejected page submission", "reason", err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var err error
	switch r.PostForm.Get("action") {
	case actionDecode:
		_, err = h.Service.DecodeVin(r.Context(), sess)
	case actionEstimate:
		_, err = h.Service.CalculateEstimate(sess)
	case actionReset:
		h.Service.Reset(sess)
	case actionWhatsApp:
		http.Redirect(w, r, h.Service.WhatsAppLink(sess), http.StatusSeeOther)
		return
	}
	if err != nil {
		h.log.Debug("estimator action reported a problem", "action", r.PostForm.Get("action"), "reason", err.Error())
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// OpenWhatsApp redirects the visitor to the deep link for the stored estimate.
func (h *PageHandler) OpenWhatsApp(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.Service.WhatsAppLink(sessionFrom(r)), http.StatusSeeOther)
}
