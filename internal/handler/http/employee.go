package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	resolver identity.Resolver
}

func NewEmployeeHandler(resolver identity.Resolver) EmployeeHandler {
	return &employeeHandlerImpl{resolver: resolver}
}

func toEmployeeResponse(e identity.Employee) identity.EmployeeResponse {
	aliases := e.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return identity.EmployeeResponse{
		ID:          e.ID,
		DisplayName: e.DisplayName,
		Aliases:     aliases,
	}
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employees := h.resolver.Employees()

	resp := identity.ListEmployeeResponse{
		TotalCount: int64(len(employees)),
		Employees:  make([]identity.EmployeeResponse, 0, len(employees)),
	}
	for _, e := range employees {
		resp.Employees = append(resp.Employees, toEmployeeResponse(e))
	}

	response.SuccessWithMeta(w, resp, &response.Meta{TotalItems: resp.TotalCount})
}

// Get implements EmployeeHandler. The path parameter may be any alias.
func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resolver.Resolve(chi.URLParam(r, "id"))
	if !ok {
		response.HandleError(w, identity.ErrEmployeeNotFound)
		return
	}

	for _, e := range h.resolver.Employees() {
		if e.ID == id {
			response.Success(w, toEmployeeResponse(e))
			return
		}
	}

	response.HandleError(w, identity.ErrEmployeeNotFound)
}
