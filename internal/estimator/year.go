package estimator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var fourDigits = regexp.MustCompile(`^\d{4}$`)

// YearBounds returns the accepted model-year range for the form's clock.
func (f *Form) YearBounds() (int, int) {
	return MinYear, f.now().Year() + 1
}

// checkYear returns the validation message for year, or "" when it is a
// 4-digit year within bounds.
func (f *Form) checkYear(year string) string {
	if !fourDigits.MatchString(year) {
		return MsgYearFormat
	}
	n, _ := strconv.Atoi(year)
	lo, hi := f.YearBounds()
	if n < lo || n > hi {
		return fmt.Sprintf(msgYearRangeFormat, lo, hi)
	}
	return ""
}

// ValidateYear checks the year field and reports the outcome on the field's
// validation message. Callers must stop dependent work when it returns false.
func (f *Form) ValidateYear() bool {
	fd := f.fields[FieldYear]
	msg := f.checkYear(strings.TrimSpace(fd.value))
	fd.validation = msg
	return msg == ""
}

// YearValidation returns the message currently reported on the year field.
func (f *Form) YearValidation() string {
	return f.fields[FieldYear].validation
}
