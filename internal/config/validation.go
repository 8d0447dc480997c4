package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Validate runs the struct tag validation and the rules that cannot be
// expressed in tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return validateCustomRules(cfg)
}

func validateCustomRules(cfg *Config) error {
	ids := make(map[int]bool, len(cfg.Processes))
	for i, p := range cfg.Processes {
		if ids[p.ID] {
			return errors.Errorf("processes[%d]: duplicate process id %d", i, p.ID)
		}
		ids[p.ID] = true
	}
	return nil
}

// formatValidationError reports the first failed rule with its field.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return errors.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return errors.WithStack(err)
}
