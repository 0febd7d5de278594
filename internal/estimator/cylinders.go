package estimator

import (
	"strconv"
	"strings"
)

var cylinderCodes = map[int]string{
	3:  "I3",
	4:  "I4",
	6:  "V6",
	8:  "V8",
	10: "V10",
	12: "V12",
}

// MapCylinders maps a cylinder count to the engine layout code used by the
// cylinders control. Unknown or non-numeric counts map to "".
func MapCylinders(raw string) string {
	n, ok := leadingInt(raw)
	if !ok {
		return ""
	}
	return cylinderCodes[n]
}

// leadingInt parses the optional sign and digits at the start of s, ignoring
// leading whitespace and anything after the digits ("6.0" is 6).
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
