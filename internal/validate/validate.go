// Package validate holds the client-side field rules for user drafts.
// A draft that fails validation never reaches the network.
//
// The rules live in the validate tags of models.Draft; this package runs
// them and turns each failure into a form message.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/marcus/userdash/internal/models"
)

// Field keys, matching the JSON names of models.Draft
const (
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldEmail      = "email"
	FieldDepartment = "department"
)

// Fields lists field keys in form order
var Fields = []string{FieldFirstName, FieldLastName, FieldEmail, FieldDepartment}

// Rule names reported in violations
const (
	RuleRequired = "required"
	RuleLetters  = "letters"
	RuleMinLen   = "min_length"
	RuleEmail    = "email"
)

// emailPattern requires local@domain.tld; intentionally not RFC-strict
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Labels maps field keys to display labels
var Labels = map[string]string{
	FieldFirstName:  "First name",
	FieldLastName:   "Last name",
	FieldEmail:      "Email",
	FieldDepartment: "Department",
}

var (
	checker   = newChecker()
	fieldTags = draftTags()
)

func newChecker() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	if err := v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// draftTags maps each field key to its validate tag on models.Draft
func draftTags() map[string]string {
	tags := make(map[string]string)
	t := reflect.TypeOf(models.Draft{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if tag := f.Tag.Get("validate"); tag != "" {
			tags[jsonName(f)] = tag
		}
	}
	return tags
}

// FieldViolation describes one failed rule
type FieldViolation struct {
	Field   string
	Rule    string
	Message string
}

// ValidationError lists every field that failed, in form order
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Message returns the violation message for field, or "" if it passed
func (e *ValidationError) Message(field string) string {
	for _, v := range e.Violations {
		if v.Field == field {
			return v.Message
		}
	}
	return ""
}

// Draft checks every field of the trimmed draft. It returns nil or a
// *ValidationError.
func Draft(d models.Draft) error {
	err := checker.Struct(d.Trimmed())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	byField := make(map[string]FieldViolation, len(fieldErrs))
	for _, fe := range fieldErrs {
		byField[fe.Field()] = violation(fe.Field(), fe)
	}
	violations := make([]FieldViolation, 0, len(byField))
	for _, field := range Fields {
		if v, ok := byField[field]; ok {
			violations = append(violations, v)
		}
	}
	return &ValidationError{Violations: violations}
}

// Field checks a single field value. Unknown fields always pass.
// The returned error's text is the user-facing message.
func Field(field, value string) error {
	tag, ok := fieldTags[field]
	if !ok {
		return nil
	}
	err := checker.Var(strings.TrimSpace(value), tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	return errors.New(violation(field, fieldErrs[0]).Message)
}

// Validator returns a func suitable for huh's Validate option
func Validator(field string) func(string) error {
	return func(s string) error {
		return Field(field, s)
	}
}

// violation translates a failed tag into the form's wording
func violation(field string, fe validator.FieldError) FieldViolation {
	label := Labels[field]
	switch fe.Tag() {
	case "required":
		return FieldViolation{field, RuleRequired, label + " is required"}
	case "alphaunicode":
		return FieldViolation{field, RuleLetters, label + " may contain letters only"}
	case "min":
		return FieldViolation{field, RuleMinLen, fmt.Sprintf("%s must be at least %s letters", label, fe.Param())}
	case "simpleemail":
		return FieldViolation{field, RuleEmail, label + " is invalid"}
	}
	return FieldViolation{field, fe.Tag(), label + " is invalid"}
}
