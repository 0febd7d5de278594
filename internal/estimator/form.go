// Package estimator holds the state and behaviour of the vehicle-service
// estimator page: VIN decoding, field population, year validation, cost and
// time estimation, and reset.
//
// A Form is not safe for concurrent use. Hosts serving several requests for
// the same visitor must serialise access; DecodeVin can be split into
// BeginDecode and FinishDecode so the lookup runs outside that lock.
package estimator

import (
	"fmt"
	"strings"
	"time"

	"garage/internal/entities"
	"garage/internal/log"
	"garage/internal/utils"
)

type field struct {
	id          string
	label       string
	value       string
	highlighted bool
	validation  string
}

type Form struct {
	now func() time.Time
	log log.Logger

	vin    string
	fields map[string]*field
	// ids whose edit listener is bound; binding is once per field.
	listeners map[string]struct{}

	makes        []entities.MakeOption
	selectedMake int
	checked      map[string]bool

	result          string
	whatsAppVisible bool
	message         string // percent-encoded estimate text
	estimate        *entities.Estimate
	details         *entities.VehicleDetails

	// generation is bumped whenever an in-flight decode must be discarded.
	generation uint64
}

type Option func(*Form)

func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

func WithLogger(l log.Logger) Option {
	return func(f *Form) { f.log = l }
}

// WithMakes replaces the seeded make options. The first option is treated as
// the empty default.
func WithMakes(makes []entities.MakeOption) Option {
	return func(f *Form) {
		f.makes = append([]entities.MakeOption(nil), makes...)
	}
}

func NewForm(opts ...Option) *Form {
	f := &Form{
		now:       time.Now,
		log:       log.NewNop(),
		fields:    make(map[string]*field, len(trackedFields)),
		listeners: make(map[string]struct{}),
		makes:     append([]entities.MakeOption(nil), DefaultMakes...),
		checked:   make(map[string]bool),
	}
	for _, tf := range trackedFields {
		f.fields[tf.ID] = &field{id: tf.ID, label: tf.Label}
	}
	for _, opt := range opts {
		opt(f)
	}
	if len(f.makes) == 0 {
		f.makes = []entities.MakeOption{DefaultMakes[0]}
	}
	return f
}

func (f *Form) VIN() string { return f.vin }

// InputVIN records an edit of the VIN control. Any displayed result or
// estimate is stale from this point and any decode in flight is discarded.
// Setting the VIN it already holds is not an edit and changes nothing.
func (f *Form) InputVIN(vin string) {
	if vin == f.vin {
		return
	}
	f.vin = vin
	f.generation++
	f.showMessage("")
}

// InputField records a user edit of a tracked field and fires its listener,
// if one was bound by SetFieldValue.
func (f *Form) InputField(id, value string) error {
	fd, ok := f.fields[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, id)
	}
	if _, bound := f.listeners[id]; bound {
		fd.highlighted = false
		fd.validation = ""
	}
	fd.value = value
	return nil
}

// HasField reports whether id is a tracked field.
func (f *Form) HasField(id string) bool {
	_, ok := f.fields[id]
	return ok
}

// FieldValue returns the current value of a tracked field.
func (f *Form) FieldValue(id string) string {
	if fd, ok := f.fields[id]; ok {
		return fd.value
	}
	return ""
}

// SelectMake selects the option whose value matches. An empty value selects
// the default option.
func (f *Form) SelectMake(value string) error {
	for i, opt := range f.makes {
		if opt.Value == value {
			f.selectedMake = i
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownMake, value)
}

// HasMake reports whether value is one of the make options.
func (f *Form) HasMake(value string) bool {
	for _, opt := range f.makes {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// RestoreMake selects value, appending it as an option first when the form
// does not know it. Pages rendered by an earlier session may post makes that
// a decode had added there.
func (f *Form) RestoreMake(value string) {
	if !f.HasMake(value) {
		f.makes = append(f.makes, entities.MakeOption{Value: value, Label: utils.CapitalizeFirst(value)})
	}
	_ = f.SelectMake(value)
}

func (f *Form) SelectedMake() string {
	return f.makes[f.selectedMake].Value
}

// CheckServices reports the first id that is not in the catalog.
func CheckServices(ids []string) error {
	for _, id := range ids {
		if _, ok := lookupService(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownService, id)
		}
	}
	return nil
}

// SetServices replaces the checked services. Nothing changes if any id is
// not in the catalog.
func (f *Form) SetServices(ids []string) error {
	if err := CheckServices(ids); err != nil {
		return err
	}
	f.checked = make(map[string]bool, len(ids))
	for _, id := range ids {
		f.checked[id] = true
	}
	return nil
}

func (f *Form) Result() string { return f.result }

func (f *Form) WhatsAppVisible() bool { return f.whatsAppVisible }

// EstimateMessage returns the stored percent-encoded estimate text, or ""
// when no estimate is on display.
func (f *Form) EstimateMessage() string { return f.message }

func (f *Form) Estimate() *entities.Estimate { return f.estimate }

// Reset returns the form to its initial state. Bound listeners and makes
// added by earlier decodes are kept; the VIN control is left untouched.
func (f *Form) Reset() {
	f.selectedMake = 0
	f.checked = make(map[string]bool)
	for _, fd := range f.fields {
		fd.value = ""
		fd.highlighted = false
		fd.validation = ""
	}
	f.details = nil
	f.generation++
	f.showMessage("")
}

// showMessage replaces the result panel with text, which also takes any
// estimate off display.
func (f *Form) showMessage(text string) {
	f.result = text
	f.whatsAppVisible = false
	f.message = ""
	f.estimate = nil
}

func (f *Form) Snapshot() entities.FormState {
	state := entities.FormState{
		VIN:             f.vin,
		SelectedMake:    f.SelectedMake(),
		Result:          f.result,
		WhatsAppVisible: f.whatsAppVisible,
	}
	for i, opt := range f.makes {
		opt.Selected = i == f.selectedMake
		state.Makes = append(state.Makes, opt)
	}
	for _, tf := range trackedFields {
		fd := f.fields[tf.ID]
		state.Fields = append(state.Fields, entities.FieldState{
			ID:          fd.id,
			Label:       fd.label,
			Value:       fd.value,
			Highlighted: fd.highlighted,
			Validation:  fd.validation,
		})
	}
	for _, s := range Catalog {
		state.Services = append(state.Services, entities.ServiceState{Service: s, Checked: f.checked[s.ID]})
	}
	if f.details != nil {
		d := *f.details
		state.Vehicle = &d
	}
	if f.estimate != nil {
		e := *f.estimate
		e.Services = append([]string(nil), f.estimate.Services...)
		state.Estimate = &e
	}
	return state
}

func isNA(value string) bool {
	return strings.EqualFold(value, "N/A")
}
