package estimator

import "fmt"

// SetFieldValue writes value into the field when it is non-empty and not
// "N/A", highlighting it; otherwise the field is cleared and un-highlighted.
// The field's edit listener is bound on first use.
func (f *Form) SetFieldValue(id, value string) error {
	fd, ok := f.fields[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, id)
	}

	valid := value != "" && !isNA(value)
	if valid {
		fd.value = value
	} else {
		fd.value = ""
	}
	fd.highlighted = valid

	f.listeners[id] = struct{}{}
	return nil
}

// HasListener reports whether the edit listener of id has been bound.
func (f *Form) HasListener(id string) bool {
	_, ok := f.listeners[id]
	return ok
}
