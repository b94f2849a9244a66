package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/archive"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity domain errors
	case errors.Is(err, identity.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Archive domain errors
	case errors.Is(err, archive.ErrRunNotFound):
		NotFound(w, "Run not found")
	case errors.Is(err, archive.ErrArtifactNotFound):
		NotFound(w, "Archived artifact not found")
	case errors.Is(err, archive.ErrInvalidRunID):
		BadRequest(w, "Invalid run ID", nil)

	// Ledger domain errors
	case errors.Is(err, ledger.ErrAbsenceSource):
		BadGateway(w, "Absence records could not be fetched")

	case errors.Is(err, context.DeadlineExceeded):
		GatewayTimeout(w, "Reconciliation timed out")
	case errors.Is(err, context.Canceled):
		BadRequest(w, "Request cancelled", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
