package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateStruct returns field -> failed tag, or nil when v is valid.
func validateStruct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

type createEntityRequest struct {
	ID   string `json:"id" validate:"omitempty,max=128"`
	Kind string `json:"kind" validate:"required,oneof=employee candidate"`
	Name string `json:"name" validate:"required,max=200"`
}

type uploadForm struct {
	Type        string `form:"type" validate:"omitempty,oneof=id_proof certificate offer_letter photo bank_document educational experience_letter other"`
	Name        string `form:"name" validate:"max=200"`
	Description string `form:"description" validate:"max=2000"`
	Profile     string `form:"profile" validate:"omitempty,oneof=general recruitment photo"`
}

type reviewRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type patchRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}
