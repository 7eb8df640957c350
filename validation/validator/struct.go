package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// fieldNameRegex accepts dotted document paths such as "meta.createdAt".
var fieldNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("fieldname", func(fl validator.FieldLevel) bool {
		return IsFieldName(fl.Field().String())
	})
}

// IsFieldName reports whether s is a safe record field name.
func IsFieldName(s string) bool {
	return fieldNameRegex.MatchString(s)
}

// errorMessages is a nested map of languages to validation tags to custom error messages.
var errorMessages = map[string]map[string]string{
	"en": {
		"required":  "The field '%s' is required.",
		"min":       "The field '%s' must be at least %s.",
		"max":       "The field '%s' must be at most %s.",
		"gte":       "The field '%s' must be greater than or equal to %s.",
		"gt":        "The field '%s' must be greater than %s.",
		"oneof":     "The field '%s' must be one of [%s].",
		"fieldname": "The field '%s' must be a plain field name.",
	},
	"zh": {
		"required":  "字段 '%s' 为必填项。",
		"min":       "字段 '%s' 不能小于 %s。",
		"max":       "字段 '%s' 不能大于 %s。",
		"gte":       "字段 '%s' 的值必须大于或等于 %s。",
		"gt":        "字段 '%s' 的值必须大于 %s。",
		"oneof":     "字段 '%s' 的值必须是 [%s] 之一。",
		"fieldname": "字段 '%s' 必须是合法的字段名。",
	},
}

// parseMessage constructs a friendly error message based on the validation tag and custom messages.
func parseMessage(jsonTag string, e validator.FieldError, lang ...string) string {
	msgLang := "en"
	if len(lang) > 0 && lang[0] != "" {
		msgLang = lang[0]
	}
	if msgs, exists := errorMessages[msgLang]; exists {
		if msg, exists := msgs[e.Tag()]; exists {
			switch strings.Count(msg, "%s") {
			case 1:
				return fmt.Sprintf(msg, jsonTag)
			case 2:
				return fmt.Sprintf(msg, jsonTag, e.Param())
			}
		}
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", jsonTag, e.Tag())
}

// ValidateStruct validates a struct (or pointer to struct) and returns a map of
// JSON field names to friendly error messages. The map is empty when s is valid.
func ValidateStruct(s any, lang ...string) map[string]string {
	validationErrors := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return validationErrors
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		validationErrors["_"] = err.Error()
		return validationErrors
	}

	structType := reflect.TypeOf(s)
	for structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	for _, e := range validationErrs {
		jsonTag := e.StructField()
		if field, ok := structType.FieldByName(e.StructField()); ok {
			if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
				jsonTag = strings.Split(tag, ",")[0]
			}
		}
		validationErrors[jsonTag] = parseMessage(jsonTag, e, lang...)
	}

	return validationErrors
}
