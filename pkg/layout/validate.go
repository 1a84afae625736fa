package layout

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/flowlayout/pkg/errors"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// ValidateConfig runs the checks shared by every algorithm: a present
// algorithm name, a known direction, and non-negative spacing and option
// values. It does not consult any graph.
func ValidateConfig(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError turns the first validator failure into a coded error.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid layout config")
	}

	for _, e := range validationErrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		param := e.Param()

		switch {
		case e.StructField() == "Direction" && e.Tag() == "oneof":
			return errors.New(errors.ErrCodeInvalidDirection,
				"%s: unknown direction %q (want one of %s)", field, e.Value(), param)
		case e.StructField() == "Algorithm" && e.Tag() == "required":
			return errors.New(errors.ErrCodeInvalidAlgorithm, "%s: algorithm name is required", field)
		case e.StructField() == "Algorithm":
			return errors.New(errors.ErrCodeInvalidAlgorithm, "%s: algorithm name too long (max %s)", field, param)
		}

		switch e.Tag() {
		case "required", "required_if":
			return errors.New(errors.ErrCodeInvalidConfig, "%s: field is required", field)
		case "gte", "min":
			return errors.New(errors.ErrCodeInvalidConfig, "%s: must be at least %s, got %v", field, param, e.Value())
		case "lte", "max":
			return errors.New(errors.ErrCodeInvalidConfig, "%s: must not exceed %s, got %v", field, param, e.Value())
		case "oneof":
			return errors.New(errors.ErrCodeInvalidConfig, "%s: %q is not one of %s", field, e.Value(), param)
		default:
			return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
		}
	}
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid layout config")
}
