package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/capaplan/capaplan/internal/rest"
	"github.com/capaplan/capaplan/pkg/calendar"
	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/shopspring/decimal"
)

type EntryDTO struct {
	ResourceID     string  `json:"resourceId"`
	Date           string  `json:"date"`
	BaseHours      float64 `json:"baseHours"`
	AbsenceHours   float64 `json:"absenceHours"`
	CommittedHours float64 `json:"committedHours"`
	AvailableHours float64 `json:"availableHours"`
}

type AbsenceCheckDTO struct {
	ResourceID string  `json:"resourceId"`
	Date       string  `json:"date"`
	Hours      float64 `json:"hours"`
}

type AbsenceCheckResultDTO struct {
	Accepted bool   `json:"accepted"`
	Detail   string `json:"detail,omitempty"`
}

type Handler struct {
	service   *Service
	resources resource.Repository
}

func NewHandler(service *Service, resources resource.Repository) *Handler {
	return &Handler{service: service, resources: resources}
}

// GetEntries returns the derived per-day ledger for a set of resources
// over an inclusive date range.
func (h *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from, err := calendar.ParseDayKey(r.URL.Query().Get("from"))
	if err != nil {
		writeBadRequest(w, "Invalid from format", "Parameter from must be in YYYY-MM-DD format")
		return
	}
	to, err := calendar.ParseDayKey(r.URL.Query().Get("to"))
	if err != nil {
		writeBadRequest(w, "Invalid to format", "Parameter to must be in YYYY-MM-DD format")
		return
	}
	resourceIDs := strings.Split(r.URL.Query().Get("resourceIds"), ",")
	if len(resourceIDs) == 1 && resourceIDs[0] == "" {
		writeBadRequest(w, "Missing resourceIds", "Parameter resourceIds must list at least one resource")
		return
	}

	entries, err := h.service.DayEntries(r.Context(), resourceIDs, from, to)
	if err != nil {
		if errors.Is(err, resource.ErrResourceNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Resource not found"})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, EntryDTO{
			ResourceID:     e.ResourceID,
			Date:           calendar.DayKey(e.Date),
			BaseHours:      e.BaseHours.InexactFloat64(),
			AbsenceHours:   e.AbsenceHours.InexactFloat64(),
			CommittedHours: e.CommittedHours.InexactFloat64(),
			AvailableHours: e.AvailableHours.InexactFloat64(),
		})
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CheckAbsence applies the absence + committed <= base rule for one
// day before an interactive absence edit is accepted. A rejected edit
// means the client must revert the cell value.
func (h *Handler) CheckAbsence(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto AbsenceCheckDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}
	day, err := calendar.ParseDayKey(dto.Date)
	if err != nil {
		writeBadRequest(w, "Invalid date format", "Date must be in YYYY-MM-DD format")
		return
	}

	res, err := h.resources.GetByID(r.Context(), dto.ResourceID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if res == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Resource not found"})
		return
	}

	committed, err := h.service.CommittedOnDay(r.Context(), dto.ResourceID, day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := CheckDailyAbsenceFit(*res, day, committed, decimal.NewFromFloat(dto.Hours)); err != nil {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(AbsenceCheckResultDTO{Accepted: false, Detail: err.Error()})
		return
	}
	if err := json.NewEncoder(w).Encode(AbsenceCheckResultDTO{Accepted: true}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
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
