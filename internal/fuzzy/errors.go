package fuzzy

import "fmt"

// IntensityError reports a symptom intensity outside the [0, 1] range.
type IntensityError struct {
	Symptom string
	Value   float64
}

func (e *IntensityError) Error() string {
	return fmt.Sprintf("intensity %g for symptom %q is outside [0, 1]", e.Value, e.Symptom)
}
