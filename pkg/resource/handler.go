package resource

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/capaplan/capaplan/internal/rest"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type ResourceDTO struct {
	ID              string   `json:"id"`
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	DefaultCapacity float64  `json:"defaultCapacity"`
	Team            string   `json:"team"`
	Active          bool     `json:"active"`
	Skills          []string `json:"skills"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetResources(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	team := r.URL.Query().Get("team")
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	resources, err := h.service.GetAll(r.Context(), team, includeInactive)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]ResourceDTO, 0, len(resources))
	for _, res := range resources {
		dtos = append(dtos, toDTO(res))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	res, err := h.service.GetByID(r.Context(), vars["resourceId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(res)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto ResourceDTO
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

	created, err := h.service.Create(r.Context(), fromDTO(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	var dto ResourceDTO
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
	dto.ID = vars["resourceId"]

	updated, err := h.service.Update(r.Context(), fromDTO(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeactivateResource(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	if err := h.service.SetActive(r.Context(), vars["resourceId"], false); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: validationErr.Error()})
	case errors.Is(err, ErrResourceNotFound):
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Resource not found"})
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTO(res Resource) ResourceDTO {
	skills := res.Skills
	if skills == nil {
		skills = []string{}
	}
	return ResourceDTO{
		ID:              res.ID,
		Code:            res.Code,
		Name:            res.Name,
		DefaultCapacity: res.DefaultCapacity.InexactFloat64(),
		Team:            res.Team,
		Active:          res.Active,
		Skills:          skills,
	}
}

func fromDTO(dto ResourceDTO) Resource {
	return Resource{
		ID:              dto.ID,
		Code:            dto.Code,
		Name:            dto.Name,
		DefaultCapacity: decimal.NewFromFloat(dto.DefaultCapacity),
		Team:            dto.Team,
		Active:          dto.Active,
		Skills:          dto.Skills,
	}
}
