// Package validation holds the client-side rules shared by every form.
//
// Rules are expressed as go-playground/validator struct tags; failures are
// reported as one message per field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/mytherion/client/types"
)

// emailPattern is a basic local@domain.tld shape, not RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "emailshape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "entitytype", func(fl validator.FieldLevel) bool {
		return types.EntityType(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Errors maps a field name to its single validation message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when there are no failures.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Clear drops the message of one field, as when the user edits it.
func (e Errors) Clear(field string) {
	delete(e, field)
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// messages holds the user-facing text per form, field and failed tag.
var messages = map[string]string{
	"RegisterForm.email.required":           "Email is required",
	"RegisterForm.email.emailshape":         "Invalid email format",
	"RegisterForm.username.required":        "Username is required",
	"RegisterForm.username.min":             "Username must be at least 3 characters",
	"RegisterForm.username.max":             "Username must be at most 32 characters",
	"RegisterForm.password.required":        "Password is required",
	"RegisterForm.password.min":             "Password must be at least 8 characters",
	"RegisterForm.password.max":             "Password must be at most 72 characters",
	"RegisterForm.confirmPassword.required": "Please confirm your password",
	"RegisterForm.confirmPassword.eqfield":  "Passwords do not match",

	"LoginForm.email.required":    "Email is required",
	"LoginForm.email.emailshape":  "Invalid email format",
	"LoginForm.password.required": "Password is required",

	"ProjectForm.name.notblank": "Project name is required",
	"ProjectForm.name.max":      "Project name must be less than 255 characters",

	"EntityForm.type.required":   "Type is required",
	"EntityForm.type.entitytype": "Type must be one of " + entityTypeList(),
	"EntityForm.name.notblank":   "Name is required",
	"EntityForm.name.max":        "Name must be 255 characters or less",
	"EntityForm.summary.max":     "Summary must be 1000 characters or less",
	"EntityForm.tags.unique":     "Tag already exists",
	"EntityForm.tags.notblank":   "Tag must not be empty",
	"EntityForm.tags.max":        fmt.Sprintf("Tag must be %d characters or less", DefaultMaxTagLength),
}

func entityTypeList() string {
	names := make([]string, len(types.EntityTypes))
	for i, t := range types.EntityTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// check validates a form struct and collects one message per field.
func check(form any) Errors {
	errs := Errors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["form"] = err.Error()
		return errs
	}

	formName := reflect.Indirect(reflect.ValueOf(form)).Type().Name()
	for _, fe := range fieldErrs {
		// dive failures are reported as tags[2]; they belong to the tags field
		field, _, _ := strings.Cut(fe.Field(), "[")
		if errs.Has(field) {
			continue
		}
		errs[field] = message(formName, field, fe)
	}
	return errs
}

func message(form, field string, fe validator.FieldError) string {
	if msg, ok := messages[form+"."+field+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required"
	case "max":
		return fmt.Sprintf("Must be %s characters or less", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}
