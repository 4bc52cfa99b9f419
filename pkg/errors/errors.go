package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError carries per-field detail for form binding on the client.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Fields  []FieldError `json:"fields,omitempty"`
	Err     error        `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors. Conflicts and dependency guards surface as 400 because
// the clients treat everything non-auth as a form-level failure.
var (
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "Datos inválidos")
	ErrConflict           = New("CONFLICT", http.StatusBadRequest, "El recurso ya existe")
	ErrUnknownParent      = New("UNKNOWN_PARENT", http.StatusBadRequest, "El recurso referenciado no existe")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "Recurso no encontrado")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "No autorizado")
	ErrTokenExpired       = New("TOKEN_EXPIRED", http.StatusUnauthorized, "Token expirado")
	ErrInvalidToken       = New("INVALID_TOKEN", http.StatusUnauthorized, "Token inválido")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Correo o contraseña incorrectos")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusUnauthorized, "Cuenta desactivada")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "No tiene permisos suficientes")
	ErrOwnership          = New("OWNERSHIP", http.StatusForbidden, "No puede modificar recursos de otro usuario")
	ErrHasDependents      = New("HAS_DEPENDENTS", http.StatusBadRequest, "El recurso tiene registros asociados")
	ErrCannotDeleteSelf   = New("CANNOT_DELETE_SELF", http.StatusBadRequest, "No puede eliminar su propia cuenta")
	ErrStorageTimeout     = New("STORAGE_TIMEOUT", http.StatusInternalServerError, "Servicio no disponible, intente nuevamente")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "Error interno del servidor")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithFields returns a copy carrying per-field validation detail.
func WithFields(err *Error, fields []FieldError) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Fields = fields
	return &clone
}

// IsRetryable reports whether the failure is transient for the caller.
func (e *Error) IsRetryable() bool {
	return e != nil && e.Code == ErrStorageTimeout.Code
}
