package capacity

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/capaplan/capaplan/internal/rest"
	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

func isNotFound(err error) bool {
	return errors.Is(err, resource.ErrResourceNotFound)
}

type OverrideDTO struct {
	ID         string  `json:"id,omitempty"`
	ResourceID string  `json:"resourceId"`
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	TotalHours float64 `json:"totalHours"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) UpsertCapacity(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto OverrideDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	stored, err := h.service.Upsert(r.Context(), Override{
		ResourceID: dto.ResourceID,
		Month:      dto.Month,
		Year:       dto.Year,
		TotalHours: decimal.NewFromFloat(dto.TotalHours),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(toDTO(stored)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetCapacities(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid year format",
			Details: "Parameter year must be a number",
		})
		return
	}

	overrides, err := h.service.GetForResourceYear(r.Context(), vars["resourceId"], year)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]OverrideDTO, 0, len(overrides))
	for _, override := range overrides {
		dtos = append(dtos, toDTO(override))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	var ruleErr *BusinessRuleError
	switch {
	case errors.As(err, &validationErr):
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: validationErr.Error()})
	case errors.As(err, &ruleErr):
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: ruleErr.Message, Code: ruleErr.Code})
	case isNotFound(err):
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Resource not found"})
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTO(override Override) OverrideDTO {
	return OverrideDTO{
		ID:         override.ID,
		ResourceID: override.ResourceID,
		Month:      override.Month,
		Year:       override.Year,
		TotalHours: override.TotalHours.InexactFloat64(),
	}
}
