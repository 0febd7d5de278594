package estimator

import (
	"fmt"
	"strings"

	"garage/internal/entities"
	"garage/internal/utils"
)

// CalculateEstimate totals the checked services and shows the estimate. The
// year must validate first. On success the encoded message is stored for the
// WhatsApp dispatcher and the send affordance is revealed.
func (f *Form) CalculateEstimate() (*entities.Estimate, error) {
	if !f.ValidateYear() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidYear, f.YearValidation())
	}

	est := entities.Estimate{Currency: Currency}
	for _, s := range Catalog {
		if !f.checked[s.ID] {
			continue
		}
		est.TotalCost += s.Price
		est.TotalMinutes += s.Minutes
		est.Services = append(est.Services, s.Label)
	}
	if len(est.Services) == 0 {
		f.showMessage(MsgNoServices)
		return nil, ErrNoServices
	}

	carMake := f.SelectedMake()
	if carMake == "" {
		carMake = defaultMake
	}
	est.Message = fmt.Sprintf("Estimate for your %s %s %s:\n", f.FieldValue(FieldYear), utils.CapitalizeFirst(carMake), f.FieldValue(FieldModelName)) +
		fmt.Sprintf("Services: %s\n", strings.Join(est.Services, ", ")) +
		fmt.Sprintf("Total Cost: %s %d\n", Currency, est.TotalCost) +
		fmt.Sprintf("Estimated Time: ~%d mins", est.TotalMinutes)
	est.EncodedMessage = utils.EncodeURIComponent(est.Message)

	f.result = est.Message
	f.message = est.EncodedMessage
	f.estimate = &est
	f.whatsAppVisible = true

	out := est
	return &out, nil
}
