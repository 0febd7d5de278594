package estimator

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"garage/internal/entities"
)

// Decoder resolves a VIN into vPIC Variable/Value pairs.
type Decoder interface {
	DecodeVin(ctx context.Context, vin string) ([]entities.DecodeResult, error)
}

// DecodeTicket identifies one decode started by BeginDecode.
type DecodeTicket struct {
	VIN        string
	generation uint64
}

// decodeVariables maps vPIC variable names onto VehicleDetails.
var decodeVariables = map[string]func(*entities.VehicleDetails) *string{
	"Make":                    func(d *entities.VehicleDetails) *string { return &d.Make },
	"Model":                   func(d *entities.VehicleDetails) *string { return &d.Model },
	"Model Year":              func(d *entities.VehicleDetails) *string { return &d.Year },
	"Body Class":              func(d *entities.VehicleDetails) *string { return &d.BodyClass },
	"Engine Model":            func(d *entities.VehicleDetails) *string { return &d.EngineModel },
	"Engine Displacement (L)": func(d *entities.VehicleDetails) *string { return &d.EngineSize },
	"Engine Cylinders":        func(d *entities.VehicleDetails) *string { return &d.Cylinders },
	"Fuel Type - Primary":     func(d *entities.VehicleDetails) *string { return &d.FuelType },
	"Transmission Style":      func(d *entities.VehicleDetails) *string { return &d.Transmission },
	"Plant Country":           func(d *entities.VehicleDetails) *string { return &d.PlantCountry },
}

// populatedFields lists the controls a successful decode writes, in order.
var populatedFields = []struct {
	id    string
	value func(d *entities.VehicleDetails) string
}{
	{FieldYear, func(d *entities.VehicleDetails) string { return d.Year }},
	{FieldModelName, func(d *entities.VehicleDetails) string { return d.Model }},
	{FieldBodyClass, func(d *entities.VehicleDetails) string { return d.BodyClass }},
	{FieldCylinders, func(d *entities.VehicleDetails) string { return MapCylinders(d.Cylinders) }},
	{FieldFuelType, func(d *entities.VehicleDetails) string { return d.FuelType }},
	{FieldTransmission, func(d *entities.VehicleDetails) string { return d.Transmission }},
	{FieldPlantCountry, func(d *entities.VehicleDetails) string { return d.PlantCountry }},
}

// ParseDetails scans results once; the first non-empty value of each known
// variable wins. Null and blank values are skipped, so a later occurrence
// with a value still fills the detail.
func ParseDetails(results []entities.DecodeResult) entities.VehicleDetails {
	var d entities.VehicleDetails
	for _, item := range results {
		target, ok := decodeVariables[item.Variable]
		if !ok || item.Value == nil {
			continue
		}
		v := strings.TrimSpace(*item.Value)
		if p := target(&d); *p == "" && v != "" {
			*p = v
		}
	}
	return d
}

// DecodeVin decodes the current VIN with d and populates the form. Failures
// leave a message in the result panel; the returned error is informational.
func (f *Form) DecodeVin(ctx context.Context, d Decoder) error {
	ticket, err := f.BeginDecode()
	if err != nil {
		return err
	}
	results, err := d.DecodeVin(ctx, ticket.VIN)
	return f.FinishDecode(ticket, results, err)
}

// BeginDecode validates the VIN length and shows the decoding placeholder.
// The returned ticket must be passed to FinishDecode with the lookup result.
// Starting a new decode supersedes any earlier ticket.
func (f *Form) BeginDecode() (DecodeTicket, error) {
	vin := strings.TrimSpace(f.vin)
	if utf8.RuneCountInString(vin) != VINLength {
		f.showMessage(MsgVINLength)
		return DecodeTicket{}, ErrVINLength
	}
	f.generation++
	f.showMessage(MsgDecoding)
	return DecodeTicket{VIN: vin, generation: f.generation}, nil
}

// FinishDecode applies a lookup outcome. Tickets superseded by a VIN edit, a
// reset or a newer decode are dropped with ErrStaleDecode and change nothing.
func (f *Form) FinishDecode(t DecodeTicket, results []entities.DecodeResult, lookupErr error) error {
	if t.generation != f.generation {
		return ErrStaleDecode
	}
	if lookupErr != nil {
		f.log.Error(lookupErr, "vin decode failed", "vin", t.VIN)
		f.showMessage(MsgDecodeError)
		return fmt.Errorf("%w: %w", ErrDecodeFailed, lookupErr)
	}

	details := ParseDetails(results)
	if details.Make == "" || details.Model == "" || details.Year == "" {
		f.showMessage(MsgIncompleteVIN)
		return ErrIncompleteDecode
	}
	if f.checkYear(details.Year) != "" {
		f.showMessage(fmt.Sprintf(msgDecodedYear, details.Year))
		return fmt.Errorf("%w: %s", ErrDecodedYear, details.Year)
	}

	for _, pf := range populatedFields {
		// ids come from trackedFields, so this cannot fail.
		_ = f.SetFieldValue(pf.id, pf.value(&details))
	}
	f.details = &details
	f.showMessage(summary(details))
	f.selectDecodedMake(details.Make)

	f.log.Info("vin decoded", "vin", t.VIN, "make", details.Make, "model", details.Model, "year", details.Year)
	return nil
}

func summary(d entities.VehicleDetails) string {
	return fmt.Sprintf("Vehicle: %s %s %s\n", d.Year, d.Make, d.Model) +
		fmt.Sprintf("Body: %s\n", d.BodyClass) +
		fmt.Sprintf("Engine: %s %s\n", d.EngineSize, d.EngineModel) +
		fmt.Sprintf("Fuel: %s\n", d.FuelType) +
		fmt.Sprintf("Transmission: %s\n", d.Transmission) +
		fmt.Sprintf("Manufactured in: %s", d.PlantCountry)
}

// selectDecodedMake selects the option labelled name (case-insensitive),
// appending one when none matches.
func (f *Form) selectDecodedMake(name string) {
	for i, opt := range f.makes {
		if strings.EqualFold(opt.Label, name) {
			f.selectedMake = i
			return
		}
	}
	f.makes = append(f.makes, entities.MakeOption{Value: strings.ToLower(name), Label: name})
	f.selectedMake = len(f.makes) - 1
}
