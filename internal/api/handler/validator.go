package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
// Failures name fields by their JSON key.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator with the registry and clock rules
// registered.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterAlias("role", "oneof=manager site worker")
	v.RegisterAlias("worker_status", "oneof=ACTIVE INACTIVE SUSPENDED")
	v.RegisterAlias("finger", "min=0,max=9")
	v.RegisterAlias("hhmm", "datetime=15:04")
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "role":
		return field + " must be manager, site or worker"
	case "worker_status":
		return field + " must be ACTIVE, INACTIVE or SUSPENDED"
	case "finger":
		return field + " must be a finger index between 0 and 9"
	case "hhmm":
		return field + " must be formatted as HH:MM"
	case "slug":
		return field + " must be lowercase letters, digits and hyphens"
	case "gte":
		return fmt.Sprintf("%s must not be below %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
