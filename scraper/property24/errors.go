package property24

import "fmt"

// ElementNotFoundError reports a required element or attribute missing from
// the markup. It aborts the run.
type ElementNotFoundError struct {
	Selector string
}

func newElementNotFoundError(selector string) *ElementNotFoundError {
	return &ElementNotFoundError{Selector: selector}
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element '%s' not found", e.Selector)
}

// PriceFormatError reports price text that is not a number once the currency
// symbol and thousands separators are removed.
type PriceFormatError struct {
	Text string
	Err  error
}

func (e *PriceFormatError) Error() string {
	return fmt.Sprintf("price %q is not numeric: %v", e.Text, e.Err)
}

func (e *PriceFormatError) Unwrap() error { return e.Err }
