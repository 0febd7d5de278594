package estimator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garage/internal/entities"
)

const testVIN = "1HGCM82633A004352"

var fixedNow = func() time.Time { return time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC) }

func newTestForm() *Form {
	return NewForm(WithClock(fixedNow))
}

type fakeDecoder struct {
	calls   int
	vins    []string
	results []entities.DecodeResult
	err     error
}

func (d *fakeDecoder) DecodeVin(_ context.Context, vin string) ([]entities.DecodeResult, error) {
	d.calls++
	d.vins = append(d.vins, vin)
	return d.results, d.err
}

func val(s string) *string { return &s }

func hondaResults() []entities.DecodeResult {
	return []entities.DecodeResult{
		{Variable: "Make", Value: val("HONDA")},
		{Variable: "Model", Value: val("Accord")},
		{Variable: "Model Year", Value: val("2003")},
		{Variable: "Body Class", Value: val("Coupe")},
		{Variable: "Engine Model", Value: val("J30A4")},
		{Variable: "Engine Displacement (L)", Value: val("3.0")},
		{Variable: "Engine Cylinders", Value: val("6")},
		{Variable: "Fuel Type - Primary", Value: val("Gasoline")},
		{Variable: "Transmission Style", Value: val("Automatic")},
		{Variable: "Plant Country", Value: val("UNITED STATES (USA)")},
		{Variable: "Trim", Value: val("EX-V6")},
	}
}

func fieldState(t *testing.T, f *Form, id string) entities.FieldState {
	t.Helper()
	for _, fs := range f.Snapshot().Fields {
		if fs.ID == id {
			return fs
		}
	}
	t.Fatalf("field %s not in snapshot", id)
	return entities.FieldState{}
}

func TestSetFieldValue(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		want      string
		highlight bool
	}{
		{"valid value", "Sedan", "Sedan", true},
		{"empty", "", "", false},
		{"sentinel", "N/A", "", false},
		{"sentinel lower case", "n/a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestForm()
			require.NoError(t, f.InputField(FieldBodyClass, "stale"))

			require.NoError(t, f.SetFieldValue(FieldBodyClass, tt.value))

			fs := fieldState(t, f, FieldBodyClass)
			assert.Equal(t, tt.want, fs.Value)
			assert.Equal(t, tt.highlight, fs.Highlighted)
			assert.True(t, f.HasListener(FieldBodyClass))
		})
	}
}

func TestSetFieldValueUnknownField(t *testing.T) {
	f := newTestForm()
	assert.ErrorIs(t, f.SetFieldValue("colour", "red"), ErrUnknownField)
	assert.False(t, f.HasListener("colour"))
}

func TestFieldListenerBoundOnce(t *testing.T) {
	f := newTestForm()
	require.NoError(t, f.SetFieldValue(FieldYear, "2015"))
	require.NoError(t, f.SetFieldValue(FieldYear, "2016"))
	assert.Len(t, f.listeners, 1)

	// An edit through the bound listener clears highlight and validation.
	require.NoError(t, f.InputField(FieldYear, "20"))
	require.False(t, f.ValidateYear())
	require.NoError(t, f.InputField(FieldYear, "2017"))

	fs := fieldState(t, f, FieldYear)
	assert.Equal(t, "2017", fs.Value)
	assert.False(t, fs.Highlighted)
	assert.Empty(t, fs.Validation)
}

func TestInputFieldWithoutListenerKeepsValidation(t *testing.T) {
	f := newTestForm()
	require.NoError(t, f.InputField(FieldYear, "abcd"))
	require.False(t, f.ValidateYear())

	require.NoError(t, f.InputField(FieldYear, "2020"))
	assert.Equal(t, MsgYearFormat, fieldState(t, f, FieldYear).Validation)
	assert.ErrorIs(t, f.InputField("nope", "x"), ErrUnknownField)
}

func TestValidateYear(t *testing.T) {
	rangeMsg := "Year must be between 1980 and 2027."
	tests := []struct {
		year string
		ok   bool
		msg  string
	}{
		{"1980", true, ""},
		{"2003", true, ""},
		{"2026", true, ""},
		{"2027", true, ""},
		{" 2020 ", true, ""},
		{"1979", false, rangeMsg},
		{"2028", false, rangeMsg},
		{"0000", false, rangeMsg},
		{"", false, MsgYearFormat},
		{"203", false, MsgYearFormat},
		{"20266", false, MsgYearFormat},
		{"20a6", false, MsgYearFormat},
		{"-200", false, MsgYearFormat},
	}

	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			f := newTestForm()
			require.NoError(t, f.InputField(FieldYear, tt.year))

			assert.Equal(t, tt.ok, f.ValidateYear())
			assert.Equal(t, tt.msg, f.YearValidation())
		})
	}
}

func TestValidateYearClearsPreviousError(t *testing.T) {
	f := newTestForm()
	require.NoError(t, f.InputField(FieldYear, "1900"))
	require.False(t, f.ValidateYear())
	require.NoError(t, f.InputField(FieldYear, "1999"))
	assert.True(t, f.ValidateYear())
	assert.Empty(t, f.YearValidation())
}

func TestMapCylinders(t *testing.T) {
	tests := map[string]string{
		"3":     "I3",
		"4":     "I4",
		"6":     "V6",
		"8":     "V8",
		"10":    "V10",
		"12":    "V12",
		"5":     "",
		"0":     "",
		"-4":    "",
		"":      "",
		"four":  "",
		" 6 ":   "V6",
		"8.0":   "V8",
		"16":    "",
		"99999": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, MapCylinders(in), "MapCylinders(%q)", in)
	}
}

func TestDecodeVinRejectsBadLength(t *testing.T) {
	for _, vin := range []string{"", "1HGCM82633A00435", "1HGCM82633A0043521", "   1HGCM826  "} {
		f := newTestForm()
		d := &fakeDecoder{results: hondaResults()}
		f.InputVIN(vin)

		err := f.DecodeVin(context.Background(), d)

		assert.ErrorIs(t, err, ErrVINLength)
		assert.Zero(t, d.calls, "no lookup for %q", vin)
		assert.Equal(t, MsgVINLength, f.Result())
	}
}

func TestDecodeVinTrimsInput(t *testing.T) {
	f := newTestForm()
	d := &fakeDecoder{results: hondaResults()}
	f.InputVIN("  " + testVIN + " ")

	require.NoError(t, f.DecodeVin(context.Background(), d))
	assert.Equal(t, []string{testVIN}, d.vins)
}

func TestDecodeVinSuccess(t *testing.T) {
	f := newTestForm()
	f.InputVIN(testVIN)

	require.NoError(t, f.DecodeVin(context.Background(), &fakeDecoder{results: hondaResults()}))

	want := map[string]string{
		FieldYear:         "2003",
		FieldModelName:    "Accord",
		FieldBodyClass:    "Coupe",
		FieldCylinders:    "V6",
		FieldFuelType:     "Gasoline",
		FieldTransmission: "Automatic",
		FieldPlantCountry: "UNITED STATES (USA)",
	}
	for id, v := range want {
		fs := fieldState(t, f, id)
		assert.Equal(t, v, fs.Value, id)
		assert.True(t, fs.Highlighted, id)
		assert.True(t, f.HasListener(id), id)
	}

	assert.Equal(t, "Vehicle: 2003 HONDA Accord\n"+
		"Body: Coupe\n"+
		"Engine: 3.0 J30A4\n"+
		"Fuel: Gasoline\n"+
		"Transmission: Automatic\n"+
		"Manufactured in: UNITED STATES (USA)", f.Result())

	// "Honda" already exists; the label match is case-insensitive.
	assert.Equal(t, "honda", f.SelectedMake())
	assert.Len(t, f.Snapshot().Makes, len(DefaultMakes))
	require.NotNil(t, f.Snapshot().Vehicle)
	assert.Equal(t, "J30A4", f.Snapshot().Vehicle.EngineModel)
}

func TestDecodeVinAppendsUnknownMake(t *testing.T) {
	f := newTestForm()
	f.InputVIN("5YJ3E1EA7KF317000")
	results := []entities.DecodeResult{
		{Variable: "Make", Value: val("TESLA")},
		{Variable: "Model", Value: val("Model 3")},
		{Variable: "Model Year", Value: val("2019")},
		{Variable: "Engine Cylinders", Value: nil},
		{Variable: "Fuel Type - Primary", Value: val("Electric")},
		{Variable: "Transmission Style", Value: val("N/A")},
	}

	require.NoError(t, f.DecodeVin(context.Background(), &fakeDecoder{results: results}))

	state := f.Snapshot()
	last := state.Makes[len(state.Makes)-1]
	assert.Equal(t, entities.MakeOption{Value: "tesla", Label: "TESLA", Selected: true}, last)
	assert.Equal(t, "tesla", state.SelectedMake)

	cyl := fieldState(t, f, FieldCylinders)
	assert.Empty(t, cyl.Value)
	assert.False(t, cyl.Highlighted)
	assert.Empty(t, fieldState(t, f, FieldTransmission).Value)

	// A second decode of the same make reuses the appended option.
	f.InputVIN("5YJ3E1EA7KF317001")
	require.NoError(t, f.DecodeVin(context.Background(), &fakeDecoder{results: results}))
	assert.Len(t, f.Snapshot().Makes, len(state.Makes))
}

func TestParseDetailsFirstValueWins(t *testing.T) {
	d := ParseDetails([]entities.DecodeResult{
		{Variable: "Make", Value: nil},
		{Variable: "Make", Value: val("  ")},
		{Variable: "Make", Value: val("FORD")},
		{Variable: "Make", Value: val("LINCOLN")},
		{Variable: "Model", Value: val("F-150")},
		{Variable: "Unrelated", Value: val("x")},
	})
	assert.Equal(t, entities.VehicleDetails{Make: "FORD", Model: "F-150"}, d)
}

func TestDecodeVinIncomplete(t *testing.T) {
	var results []entities.DecodeResult
	for _, r := range hondaResults() {
		if r.Variable != "Model Year" {
			results = append(results, r)
		}
	}

	f := newTestForm()
	require.NoError(t, f.InputField(FieldYear, "2015"))
	require.NoError(t, f.InputField(FieldModelName, "Civic"))
	before := f.Snapshot()
	f.InputVIN(testVIN)

	err := f.DecodeVin(context.Background(), &fakeDecoder{results: results})

	assert.ErrorIs(t, err, ErrIncompleteDecode)
	assert.Equal(t, MsgIncompleteVIN, f.Result())
	after := f.Snapshot()
	assert.Equal(t, before.Fields, after.Fields)
	assert.Equal(t, before.Makes, after.Makes)
	assert.Nil(t, after.Vehicle)
}

func TestDecodeVinRejectsDecodedYear(t *testing.T) {
	for _, year := range []string{"1975", "2030", "03", "N/A"} {
		results := hondaResults()
		results[2].Value = val(year)

		f := newTestForm()
		f.InputVIN(testVIN)
		err := f.DecodeVin(context.Background(), &fakeDecoder{results: results})

		assert.ErrorIs(t, err, ErrDecodedYear, year)
		assert.Equal(t, "Decoded year ("+year+") seems invalid.", f.Result())
		assert.Empty(t, fieldState(t, f, FieldYear).Value)
		assert.Empty(t, f.SelectedMake())
	}
}

func TestDecodeVinLookupError(t *testing.T) {
	boom := errors.New("connection refused")
	f := newTestForm()
	f.InputVIN(testVIN)

	err := f.DecodeVin(context.Background(), &fakeDecoder{err: boom})

	assert.ErrorIs(t, err, ErrDecodeFailed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, MsgDecodeError, f.Result())
}

func TestDecodeStaleTicket(t *testing.T) {
	tests := []struct {
		name      string
		supersede func(f *Form)
		result    string
	}{
		{"vin edited", func(f *Form) { f.InputVIN("2HGCM82633A004352") }, ""},
		{"form reset", func(f *Form) { f.Reset() }, ""},
		{"newer decode", func(f *Form) { _, _ = f.BeginDecode() }, MsgDecoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestForm()
			f.InputVIN(testVIN)
			ticket, err := f.BeginDecode()
			require.NoError(t, err)
			assert.Equal(t, MsgDecoding, f.Result())

			tt.supersede(f)
			err = f.FinishDecode(ticket, hondaResults(), nil)

			assert.ErrorIs(t, err, ErrStaleDecode)
			assert.Equal(t, tt.result, f.Result())
			assert.Empty(t, fieldState(t, f, FieldYear).Value)
		})
	}
}

func TestCalculateEstimate(t *testing.T) {
	f := newTestForm()
	f.InputVIN(testVIN)
	require.NoError(t, f.DecodeVin(context.Background(), &fakeDecoder{results: hondaResults()}))
	require.NoError(t, f.SetServices([]string{"brake", "oil"}))

	est, err := f.CalculateEstimate()
	require.NoError(t, err)

	assert.Equal(t, 220, est.TotalCost)
	assert.Equal(t, 70, est.TotalMinutes)
	assert.Equal(t, "AED", est.Currency)
	assert.Equal(t, []string{"Oil Change", "Brake Service"}, est.Services)

	wantMsg := "Estimate for your 2003 Honda Accord:\n" +
		"Services: Oil Change, Brake Service\n" +
		"Total Cost: AED 220\n" +
		"Estimated Time: ~70 mins"
	assert.Equal(t, wantMsg, est.Message)
	assert.Equal(t, wantMsg, f.Result())
	assert.True(t, f.WhatsAppVisible())
	assert.Equal(t, est.EncodedMessage, f.EstimateMessage())
	assert.Contains(t, f.EstimateMessage(), "Total%20Cost%3A%20AED%20220%0A")
}

func TestCalculateEstimateAllServices(t *testing.T) {
	f := newTestForm()
	require.NoError(t, f.InputField(FieldYear, "2020"))
	require.NoError(t, f.SetServices([]string{"oil", "ac", "brake"}))

	est, err := f.CalculateEstimate()
	require.NoError(t, err)
	assert.Equal(t, 370, est.TotalCost)
	assert.Equal(t, 115, est.TotalMinutes)
	// No make selected and no model entered.
	assert.Equal(t, "Estimate for your 2020 Your vehicle :\n"+
		"Services: Oil Change, AC Service, Brake Service\n"+
		"Total Cost: AED 370\n"+
		"Estimated Time: ~115 mins", est.Message)
}

func TestCalculateEstimateNoServices(t *testing.T) {
	f := newTestForm()
	require.NoError(t, f.InputField(FieldYear, "2020"))
	require.NoError(t, f.SetServices([]string{"oil"}))
	_, err := f.CalculateEstimate()
	require.NoError(t, err)
	require.True(t, f.WhatsAppVisible())

	require.NoError(t, f.SetServices(nil))
	_, err = f.CalculateEstimate()

	assert.ErrorIs(t, err, ErrNoServices)
	assert.Equal(t, MsgNoServices, f.Result())
	assert.False(t, f.WhatsAppVisible())
	assert.Empty(t, f.EstimateMessage())
}

func TestCalculateEstimateInvalidYear(t *testing.T) {
	f := newTestForm()
	require.NoError(t, f.SetServices([]string{"oil"}))
	require.NoError(t, f.InputField(FieldYear, "1950"))

	_, err := f.CalculateEstimate()

	assert.ErrorIs(t, err, ErrInvalidYear)
	assert.Equal(t, "Year must be between 1980 and 2027.", f.YearValidation())
	assert.Empty(t, f.Result())
	assert.False(t, f.WhatsAppVisible())
}

func TestSetServicesUnknown(t *testing.T) {
	f := newTestForm()
	require.NoError(t, f.SetServices([]string{"oil"}))
	assert.ErrorIs(t, f.SetServices([]string{"ac", "wash"}), ErrUnknownService)

	var checked []string
	for _, s := range f.Snapshot().Services {
		if s.Checked {
			checked = append(checked, s.ID)
		}
	}
	assert.Equal(t, []string{"oil"}, checked)
}

func TestSelectMake(t *testing.T) {
	f := newTestForm()
	require.NoError(t, f.SelectMake("nissan"))
	assert.Equal(t, "nissan", f.SelectedMake())
	assert.ErrorIs(t, f.SelectMake("delorean"), ErrUnknownMake)
	assert.Equal(t, "nissan", f.SelectedMake())
	require.NoError(t, f.SelectMake(""))
	assert.Empty(t, f.SelectedMake())
}

func TestInputVINInvalidatesEstimate(t *testing.T) {
	f := newTestForm()
	f.InputVIN(testVIN)
	require.NoError(t, f.DecodeVin(context.Background(), &fakeDecoder{results: hondaResults()}))
	require.NoError(t, f.SetServices([]string{"ac"}))
	_, err := f.CalculateEstimate()
	require.NoError(t, err)

	f.InputVIN(testVIN[:16])

	assert.Empty(t, f.Result())
	assert.False(t, f.WhatsAppVisible())
	assert.Empty(t, f.EstimateMessage())
	assert.Nil(t, f.Estimate())
	assert.Equal(t, testVIN[:16], f.VIN())
}

func TestInputVINUnchangedKeepsState(t *testing.T) {
	f := newTestForm()
	f.InputVIN(testVIN)
	require.NoError(t, f.DecodeVin(context.Background(), &fakeDecoder{results: hondaResults()}))
	result := f.Result()
	require.NotEmpty(t, result)

	f.InputVIN(testVIN)
	assert.Equal(t, result, f.Result())

	ticket, err := f.BeginDecode()
	require.NoError(t, err)
	f.InputVIN(testVIN)
	assert.NoError(t, f.FinishDecode(ticket, hondaResults(), nil))
}

func TestRestoreMake(t *testing.T) {
	f := newTestForm()
	require.True(t, f.HasMake("nissan"))
	f.RestoreMake("nissan")
	assert.Equal(t, "nissan", f.SelectedMake())

	require.False(t, f.HasMake("land rover"))
	f.RestoreMake("land rover")
	assert.Equal(t, "land rover", f.SelectedMake())
	assert.True(t, f.HasMake("land rover"))
}

func TestReset(t *testing.T) {
	initial := newTestForm().Snapshot()

	f := newTestForm()
	f.InputVIN(testVIN)
	require.NoError(t, f.DecodeVin(context.Background(), &fakeDecoder{results: hondaResults()}))
	require.NoError(t, f.SetServices([]string{"oil", "ac"}))
	_, err := f.CalculateEstimate()
	require.NoError(t, err)
	require.NoError(t, f.InputField(FieldYear, "19"))
	require.False(t, f.ValidateYear())

	f.Reset()
	after := f.Snapshot()

	assert.Equal(t, initial.Fields, after.Fields)
	assert.Equal(t, initial.Services, after.Services)
	assert.Equal(t, initial.Makes, after.Makes)
	assert.Empty(t, after.SelectedMake)
	assert.Empty(t, after.Result)
	assert.False(t, after.WhatsAppVisible)
	assert.Nil(t, after.Vehicle)
	assert.Nil(t, after.Estimate)
	assert.Empty(t, f.EstimateMessage())

	f.Reset()
	assert.Equal(t, after, f.Snapshot())
}
