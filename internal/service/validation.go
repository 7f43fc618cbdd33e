// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/visitas-go/internal/model"
)

// Message keys attached to ValidationError fields.
const (
	MsgRequired = "validation.required"
	MsgDate     = "validation.date"
	MsgTooLong  = "validation.too_long"
	MsgInvalid  = "validation.invalid"
	MsgRange    = "validation.range"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// formValidator returns the shared validator. Field names in errors are taken
// from the form tag so they match the HTML input names.
func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		// isodate accepts exactly the dates model.ParseDate accepts.
		_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := model.ParseDate(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// validateForm checks a form struct and converts validator errors into a *ValidationError.
func validateForm(form any) error {
	err := formValidator().Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		ve.Fields[fe.Field()] = messageFor(fe.Tag())
	}
	return ve
}

func messageFor(tag string) string {
	switch tag {
	case "required":
		return MsgRequired
	case "isodate":
		return MsgDate
	case "max":
		return MsgTooLong
	default:
		return MsgInvalid
	}
}

// trimFields trims surrounding whitespace from every string field of a form struct pointer.
func trimFields(form any) {
	v := reflect.ValueOf(form)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	for i := range v.NumField() {
		f := v.Field(i)
		if f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}
