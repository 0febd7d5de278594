package entities

// FieldState is the rendered state of one populated form control.
type FieldState struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Value       string `json:"value"`
	Highlighted bool   `json:"highlighted"`
	Validation  string `json:"validation,omitempty"`
}

type MakeOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type ServiceState struct {
	Service
	Checked bool `json:"checked"`
}

// FormState is a point-in-time snapshot of an estimator form, used for both
// the JSON API and the HTML page.
type FormState struct {
	VIN             string          `json:"vin"`
	Makes           []MakeOption    `json:"makes"`
	SelectedMake    string          `json:"selected_make"`
	Fields          []FieldState    `json:"fields"`
	Services        []ServiceState  `json:"services"`
	Result          string          `json:"result"`
	WhatsAppVisible bool            `json:"whatsapp_visible"`
	Vehicle         *VehicleDetails `json:"vehicle,omitempty"`
	Estimate        *Estimate       `json:"estimate,omitempty"`
}
