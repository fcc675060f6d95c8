package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig checks the loaded configuration against its struct tags
// and reports every violation at once, so a bad config fails loudly at
// startup instead of mid-turn.
func ValidateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var messages []string
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			e.Field(),
			e.Tag(),
			e.Value(),
		))
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(messages, "\n  "))
}
