package estimator

import "errors"

// Failures returned by Form operations. The user-facing text is always left in
// the form's result panel or field validation; these are for callers that
// need to branch on the outcome.
var (
	ErrVINLength        = errors.New("vin must be exactly 17 characters")
	ErrIncompleteDecode = errors.New("decoded vehicle is missing make, model or year")
	ErrDecodedYear      = errors.New("decoded year out of range")
	ErrDecodeFailed     = errors.New("vin decode failed")
	ErrStaleDecode      = errors.New("decode result superseded")
	ErrInvalidYear      = errors.New("invalid year")
	ErrNoServices       = errors.New("no services selected")
	ErrUnknownField     = errors.New("unknown field")
	ErrUnknownService   = errors.New("unknown service")
	ErrUnknownMake      = errors.New("unknown make")
	ErrNoEstimate       = errors.New("no estimate on display")
)

// User-facing messages.
const (
	MsgVINLength       = "VIN must be exactly 17 characters."
	MsgDecoding        = "Decoding VIN, please wait..."
	MsgIncompleteVIN   = "Could not decode VIN properly. Please check the number."
	MsgDecodeError     = "Error decoding VIN. Please try again."
	MsgYearFormat      = "Please enter a valid 4-digit year."
	MsgNoServices      = "Please select at least one service."
	msgYearRangeFormat = "Year must be between %d and %d."
	msgDecodedYear     = "Decoded year (%s) seems invalid."
)
