package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid config: %w", err)
	}

	fields := make(map[string]string)
	for _, e := range validationErrors {
		name := resolveFieldName(c, e.StructField())
		fields[name] = messageFor(name, e)
	}

	return &ValidationError{Fields: fields}
}

func messageFor(name string, e validator.FieldError) string {
	messages := map[string]func() string{
		"required": func() string {
			return fmt.Sprintf("%s is required", name)
		},
		"url": func() string {
			return fmt.Sprintf("%s must be a valid URL", name)
		},
		"oneof": func() string {
			return fmt.Sprintf("%s must be one of [%s]", name, e.Param())
		},
		"gt": func() string {
			return fmt.Sprintf("%s must be greater than %s", name, e.Param())
		},
		"gte": func() string {
			return fmt.Sprintf("%s must not be negative", name)
		},
	}

	if msg, ok := messages[e.Tag()]; ok {
		return msg()
	}

	return fmt.Sprintf("%s is invalid", name)
}

func resolveFieldName(data any, field string) string {
	t := reflect.TypeOf(data)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if f, ok := t.FieldByName(field); ok {
		tag := f.Tag.Get("yaml")
		if tag != "" && tag != "-" {
			return strings.Split(tag, ",")[0]
		}
	}

	return strings.ToLower(field)
}
