// Package domain defines the core domain models for ipadmin.
package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yndnr/ipadmin-go/pkg/ipcheck"
)

// validate is shared; building a validator caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages line up with the payload.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// ipaddr cannot fail to register: the tag name is valid and the func is non-nil.
	_ = v.RegisterValidation("ipaddr", func(fl validator.FieldLevel) bool {
		return ipcheck.Valid(fl.Field().String())
	})
	return v
}

// fieldMessages maps field and failed tag to the message shown to the user.
var fieldMessages = map[string]map[string]string{
	"ip_address": {
		"required": "IP address is required",
		"ipaddr":   "Invalid IP address format",
	},
	"label": {
		"required": "Label is required",
		"max":      fmt.Sprintf("Label must be at most %d characters", MaxLabelLength),
	},
	"comment": {
		"max": fmt.Sprintf("Comment must be at most %d characters", MaxCommentLength),
	},
	"email": {
		"required": "Email is required",
	},
	"password": {
		"required": "Password is required",
	},
}

// Validate checks v against its validate tags and returns a *ValidationError
// keyed by JSON field name. Only the first failure per field is kept.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrValidation.WithCause(err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = messageFor(name, fe.Tag())
	}
	return &ValidationError{Fields: fields}
}

func messageFor(field, tag string) string {
	if msgs, ok := fieldMessages[field]; ok {
		if msg, ok := msgs[tag]; ok {
			return msg
		}
	}
	return fmt.Sprintf("%s failed %q check", field, tag)
}
