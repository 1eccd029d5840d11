package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "is required",
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateRelativePath checks that a layout path stays inside the component.
func ValidateRelativePath(field, value string) error {
	if value == "" {
		return nil
	}
	clean := filepath.Clean(value)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be a path relative to the component directory",
		}
	}
	return nil
}

// Validate checks the configuration and returns ValidationErrors listing
// every problem, or nil.
func (c Config) Validate() error {
	var errs ValidationErrors

	collect := func(err error) {
		if ve, ok := err.(ValidationError); ok {
			errs = append(errs, ve)
		}
	}

	collect(ValidateRequired("pipelineFile", c.PipelineFile))
	collect(ValidateRelativePath("pipelineFile", c.PipelineFile))
	collect(ValidateRequired("acceptanceStage", c.AcceptanceStage))
	collect(ValidateRelativePath("suitesDir", c.SuitesDir))
	collect(ValidateRelativePath("nodesetsDir", c.NodesetsDir))
	if c.Output != "" {
		collect(ValidateOneOf("output", c.Output, OutputFormats))
	}
	if c.Parallel < 0 {
		errs.Add("parallel", "must not be negative", c.Parallel)
	}
	for i, v := range c.PlatformVersions {
		if strings.TrimSpace(v) == "" {
			errs.Add(fmt.Sprintf("platformVersions[%d]", i), "must not be empty", v)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
