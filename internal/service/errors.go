package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/colegiosys/colegio-api/internal/repository"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
)

// invalidPayload converts validator output into a 400 carrying per-field
// detail for client-side form binding.
func invalidPayload(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Datos inválidos")
	}

	fields := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, appErrors.FieldError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("El campo %s no cumple la regla %q", fe.Field(), fe.Tag()),
		})
	}
	return appErrors.WithFields(appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Datos inválidos"), fields)
}

// storageErr maps storage failures: a deadline overrun becomes the retryable
// STORAGE_TIMEOUT; everything else is an internal error with context.
func storageErr(err error, message string) error {
	if errors.Is(err, repository.ErrTimeout) {
		return appErrors.Wrap(err, appErrors.ErrStorageTimeout.Code, appErrors.ErrStorageTimeout.Status, appErrors.ErrStorageTimeout.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
