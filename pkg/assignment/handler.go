package assignment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/capaplan/capaplan/internal/rest"
	"github.com/capaplan/capaplan/pkg/calendar"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type AssignmentDTO struct {
	ID          string  `json:"id,omitempty"`
	ResourceID  string  `json:"resourceId"`
	ProjectID   string  `json:"projectId"`
	ProjectCode string  `json:"projectCode"`
	Date        string  `json:"date,omitempty"`
	Month       int     `json:"month,omitempty"`
	Year        int     `json:"year,omitempty"`
	Hours       float64 `json:"hours"`
	Team        string  `json:"team,omitempty"`
}

type ConflictDTO struct {
	Kind       string  `json:"kind"`
	ResourceID string  `json:"resourceId"`
	Date       string  `json:"date"`
	Available  float64 `json:"available"`
	Requested  float64 `json:"requested"`
	Assigned   float64 `json:"assigned"`
	Detail     string  `json:"detail"`
}

type BatchRequestDTO struct {
	Assignments []AssignmentDTO `json:"assignments"`
	// EditedProjectID marks the project currently being re-saved;
	// its persisted rows do not count against capacity.
	EditedProjectID string `json:"editedProjectId,omitempty"`
}

type BatchResultDTO struct {
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Errors    []ItemErrorDTO `json:"errors"`
}

type ItemErrorDTO struct {
	Index      int           `json:"index"`
	ResourceID string        `json:"resourceId"`
	Date       string        `json:"date"`
	Reason     string        `json:"reason"`
	Conflicts  []ConflictDTO `json:"conflicts,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto AssignmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	a, err := fromDTO(dto)
	if err != nil {
		writeBadRequest(w, "Invalid date format", "Date must be in YYYY-MM-DD format")
		return
	}

	created, conflicts, err := h.service.Create(r.Context(), a, r.URL.Query().Get("editedProjectId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(conflicts) > 0 {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(conflictsToDTO(conflicts))
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) SaveBatch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req BatchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	items := make([]Assignment, 0, len(req.Assignments))
	for _, dto := range req.Assignments {
		a, err := fromDTO(dto)
		if err != nil {
			writeBadRequest(w, "Invalid date format", "Date must be in YYYY-MM-DD format")
			return
		}
		items = append(items, a)
	}

	result, err := h.service.SaveBatch(r.Context(), items, req.EditedProjectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Failed > 0 && result.Succeeded == 0 {
		status = http.StatusConflict
	} else if result.Failed > 0 {
		status = http.StatusMultiStatus
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(batchResultToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ValidateBatch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req BatchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	proposed := make([]ProposedAllocation, 0, len(req.Assignments))
	for _, dto := range req.Assignments {
		date, err := calendar.ParseDayKey(dto.Date)
		if err != nil {
			writeBadRequest(w, "Invalid date format", "Date must be in YYYY-MM-DD format")
			return
		}
		proposed = append(proposed, ProposedAllocation{
			ResourceID: dto.ResourceID,
			Date:       date,
			Hours:      decimal.NewFromFloat(dto.Hours),
		})
	}

	conflicts, err := h.service.ValidateBatch(r.Context(), proposed, req.EditedProjectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(conflictsToDTO(conflicts)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	if err := h.service.Delete(r.Context(), vars["assignmentId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeBadRequest(w http.ResponseWriter, message, details string) {
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: validationErr.Error()})
	case errors.Is(err, ErrAssignmentNotFound):
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Assignment not found"})
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTO(a Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:          a.ID,
		ResourceID:  a.ResourceID,
		ProjectID:   a.ProjectID,
		ProjectCode: a.ProjectCode,
		Hours:       a.Hours.InexactFloat64(),
		Team:        a.Team,
	}
	if a.Date != nil {
		dto.Date = calendar.DayKey(*a.Date)
	} else {
		dto.Month = a.Month
		dto.Year = a.Year
	}
	return dto
}

func fromDTO(dto AssignmentDTO) (Assignment, error) {
	a := Assignment{
		ID:          dto.ID,
		ResourceID:  dto.ResourceID,
		ProjectID:   dto.ProjectID,
		ProjectCode: dto.ProjectCode,
		Month:       dto.Month,
		Year:        dto.Year,
		Hours:       decimal.NewFromFloat(dto.Hours),
		Team:        dto.Team,
	}
	if dto.Date != "" {
		date, err := calendar.ParseDayKey(dto.Date)
		if err != nil {
			return Assignment{}, err
		}
		a.Date = &date
	}
	return a, nil
}

func conflictsToDTO(conflicts []Conflict) []ConflictDTO {
	dtos := make([]ConflictDTO, 0, len(conflicts))
	for _, c := range conflicts {
		dtos = append(dtos, ConflictDTO{
			Kind:       c.Kind,
			ResourceID: c.ResourceID,
			Date:       c.Date,
			Available:  c.Available.InexactFloat64(),
			Requested:  c.Requested.InexactFloat64(),
			Assigned:   c.Assigned.InexactFloat64(),
			Detail:     c.Detail,
		})
	}
	return dtos
}

func batchResultToDTO(result BatchResult) BatchResultDTO {
	errs := make([]ItemErrorDTO, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, ItemErrorDTO{
			Index:      e.Index,
			ResourceID: e.ResourceID,
			Date:       e.Date,
			Reason:     e.Reason,
			Conflicts:  conflictsToDTO(e.Conflicts),
		})
	}
	return BatchResultDTO{
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Errors:    errs,
	}
}
