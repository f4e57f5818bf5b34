package branch

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/sghaida/osingleton/singleton"
)

// Record is the payload a Branch holds.
//
// A Record is a plain value: copies returned by GetInfo are detached from the
// branch, so changing them never changes the branch.
type Record struct {
	Name      string `yaml:"name" env:"BRANCH_NAME" validate:"required,printable"`
	Telephone string `yaml:"telephone" env:"BRANCH_TELEPHONE" validate:"omitempty,printable"`
}

// validator.Validate caches struct metadata, so one instance is shared.
var recordValidator singleton.Holder[validator.Validate]

func newRecordValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("printable", isPrintable); err != nil {
		// Only fails for an empty tag or nil func.
		panic(err)
	}
	return v
}

// isPrintable accepts any string made of printable runes (letters, marks,
// numbers, punctuation, symbols and the ASCII space) in any script.
func isPrintable(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), func(r rune) bool {
		return !unicode.IsPrint(r)
	}) < 0
}

// Validate checks that r is usable as an initial branch payload.
//
// Construct never calls Validate; it is for callers that load records from
// outside the program (env, files, flags).
func (r Record) Validate() error {
	if err := recordValidator.Get(newRecordValidator).Struct(r); err != nil {
		return fmt.Errorf("branch: invalid record: %w", err)
	}
	return nil
}
