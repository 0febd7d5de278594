package entities

// VehicleDetails is the decoded description of a VIN. Every field is optional.
type VehicleDetails struct {
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Year         string `json:"year,omitempty"`
	BodyClass    string `json:"body_class,omitempty"`
	EngineModel  string `json:"engine_model,omitempty"`
	EngineSize   string `json:"engine_size,omitempty"`
	Cylinders    string `json:"cylinders,omitempty"`
	FuelType     string `json:"fuel_type,omitempty"`
	Transmission string `json:"transmission,omitempty"`
	PlantCountry string `json:"plant_country,omitempty"`
}

// DecodeResult is one Variable/Value pair returned by the vPIC decoder.
// Value is nil when the registry has no data for the variable.
type DecodeResult struct {
	Variable string  `json:"Variable"`
	Value    *string `json:"Value"`
}
