package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator. It serves both the config tree and
// the HTTP request bodies; only the struct tag used to name fields differs.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by the given struct tag
// (mapstructure for config, json for request bodies). An empty tag keeps the Go
// field names.
func NewValidator(nameTag string) *Validator {
	v := validator.New()
	if nameTag != "" {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get(nameTag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
	v.RegisterStructValidation(validateDatabaseTarget, DatabaseConfig{})

	return &Validator{
		validate: v,
	}
}

// validateDatabaseTarget requires postgres to be reachable either through a URL
// or a host and database name
func validateDatabaseTarget(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(DatabaseConfig)
	if cfg.Type != DatabaseTypePostgres || cfg.URL != "" {
		return
	}
	if cfg.Host == "" {
		sl.ReportError(cfg.Host, "host", "Host", "required_without_url", "")
	}
	if cfg.Name == "" {
		sl.ReportError(cfg.Name, "name", "Name", "required_without_url", "")
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// InvalidFields returns the names of the fields failing validation. A non-nil
// error means the value could not be validated at all.
func (v *Validator) InvalidFields(i interface{}) ([]string, error) {
	err := v.validate.Struct(i)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields, nil
}

// formatValidationError converts validator errors into readable messages keyed
// by the dotted path of each field, e.g. database.type
func (v *Validator) formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		path := e.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			path,
			e.Tag(),
			e.Value(),
		))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator("mapstructure").Validate(cfg)
}
