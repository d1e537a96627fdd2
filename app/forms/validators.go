package forms

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// validator returns a message for an invalid field or "" when the field passes.
// Validators only run on fields that hold a value.
type validator func(f *Field) string

const (
	msgNumber  = "Please enter a number."
	msgInteger = "Please enter an integer value."
	msgChoice  = "Please select a valid option."
)

func requiredMessage(label string) string {
	return label + " is required."
}

// Number fields decode to int64. Exponents are bounded before any comparison
// so that inputs like 1e3000000 are rejected without rescaling.
const (
	maxNumberExponent = 18
	minNumberExponent = -32
)

var (
	maxNumber = decimal.NewFromInt(math.MaxInt64)
	minNumber = decimal.NewFromInt(math.MinInt64)
)

// numberRangeMessage reports numbers that do not fit an int64 or carry more
// decimal places than a form value reasonably has.
func numberRangeMessage(n decimal.Decimal) string {
	if n.IsZero() {
		return ""
	}
	switch exp := n.Exponent(); {
	case exp > maxNumberExponent:
		if n.IsNegative() {
			return fmt.Sprintf("Please enter a value greater than or equal to %d.", int64(math.MinInt64))
		}
		return fmt.Sprintf("Please enter a value less than or equal to %d.", int64(math.MaxInt64))
	case exp < minNumberExponent:
		return msgInteger
	}
	if n.GreaterThan(maxNumber) {
		return fmt.Sprintf("Please enter a value less than or equal to %d.", int64(math.MaxInt64))
	}
	if n.LessThan(minNumber) {
		return fmt.Sprintf("Please enter a value greater than or equal to %d.", int64(math.MinInt64))
	}
	return ""
}

func compileValidator(vs ValidatorSpec, spec *FieldSpec) (validator, error) {
	switch vs.Name {
	case "min":
		if vs.Arg == nil {
			return nil, fmt.Errorf("validator min needs an arg")
		}
		if spec.Type != TypeNumber {
			return nil, fmt.Errorf("validator min needs a number field")
		}
		return minValidator(*vs.Arg), nil
	case "integer":
		if spec.Type != TypeNumber {
			return nil, fmt.Errorf("validator integer needs a number field")
		}
		return integerValidator, nil
	case "id":
		return idValidator, nil
	default:
		return nil, fmt.Errorf("unknown validator %q", vs.Name)
	}
}

func minValidator(min int64) validator {
	bound := decimal.NewFromInt(min)
	return func(f *Field) string {
		if f.Number.LessThan(bound) {
			return fmt.Sprintf("Please enter a value greater than or equal to %d.", min)
		}
		return ""
	}
}

func integerValidator(f *Field) string {
	if !f.Number.IsInteger() {
		return msgInteger
	}
	return ""
}

// idValidator accepts positive integers only.
func idValidator(f *Field) string {
	for _, v := range f.values() {
		if id, err := strconv.ParseUint(v, 10, 64); err != nil || id == 0 {
			return msgChoice
		}
	}
	return ""
}

// choiceValidator is applied to every field with a non-empty choice set.
func choiceValidator(f *Field) string {
	if len(f.Choices) == 0 {
		return ""
	}
	allowed := make(map[string]struct{}, len(f.Choices))
	for _, c := range f.Choices {
		allowed[c.Value] = struct{}{}
	}
	for _, v := range f.values() {
		if _, ok := allowed[v]; !ok {
			return msgChoice
		}
	}
	return ""
}
