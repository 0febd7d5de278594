package estimator

import "garage/internal/entities"

// Element ids of the estimator page.
const (
	FieldVIN          = "vin"
	FieldResult       = "result"
	FieldWhatsAppBtn  = "whatsappBtn"
	FieldCar          = "car"
	FieldYear         = "year"
	FieldModelName    = "modelName"
	FieldBodyClass    = "bodyClass"
	FieldCylinders    = "cylinders"
	FieldFuelType     = "fuelType"
	FieldTransmission = "transmission"
	FieldPlantCountry = "plantCountry"
	FieldServices     = "services"
)

const (
	Currency    = "AED"
	VINLength   = 17
	MinYear     = 1980
	defaultMake = "your vehicle"
)

// trackedFields are the controls a decode populates and a reset clears, in
// page order.
var trackedFields = []struct {
	ID    string
	Label string
}{
	{FieldYear, "Year"},
	{FieldModelName, "Model"},
	{FieldBodyClass, "Body Class"},
	{FieldCylinders, "Cylinders"},
	{FieldFuelType, "Fuel Type"},
	{FieldTransmission, "Transmission"},
	{FieldPlantCountry, "Plant Country"},
}

// Catalog is the static service price list.
var Catalog = []entities.Service{
	{ID: "oil", Label: "Oil Change", Price: 100, Minutes: 30},
	{ID: "ac", Label: "AC Service", Price: 150, Minutes: 45},
	{ID: "brake", Label: "Brake Service", Price: 120, Minutes: 40},
}

// DefaultMakes seeds the make selector. The first entry is the empty default.
var DefaultMakes = []entities.MakeOption{
	{Value: "", Label: "Select make"},
	{Value: "toyota", Label: "Toyota"},
	{Value: "nissan", Label: "Nissan"},
	{Value: "honda", Label: "Honda"},
	{Value: "ford", Label: "Ford"},
	{Value: "chevrolet", Label: "Chevrolet"},
	{Value: "hyundai", Label: "Hyundai"},
	{Value: "kia", Label: "Kia"},
	{Value: "mitsubishi", Label: "Mitsubishi"},
	{Value: "lexus", Label: "Lexus"},
	{Value: "bmw", Label: "BMW"},
	{Value: "mercedes-benz", Label: "Mercedes-Benz"},
}

func lookupService(id string) (entities.Service, bool) {
	for _, s := range Catalog {
		if s.ID == id {
			return s, true
		}
	}
	return entities.Service{}, false
}
