package overview

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/capaplan/capaplan/internal/rest"
	"github.com/capaplan/capaplan/internal/utils"
	"github.com/capaplan/capaplan/pkg/stats"
)

type OverviewDTO struct {
	Year         int              `json:"year"`
	CurrentMonth int              `json:"currentMonth"`
	KPIs         KPIsDTO          `json:"kpis"`
	Charts       ChartsDTO        `json:"charts"`
	Resources    []ResourceRowDTO `json:"resources"`
}

type KPIsDTO struct {
	TotalResources             int            `json:"totalResources"`
	ResourcesWithAssignment    int            `json:"resourcesWithAssignment"`
	ResourcesWithoutAssignment int            `json:"resourcesWithoutAssignment"`
	AvgUtilization             UtilizationDTO `json:"avgUtilization"`
}

type UtilizationDTO struct {
	Current float64 `json:"current"`
	Future  float64 `json:"future"`
}

type ChartsDTO struct {
	MonthlyComparison  []MonthComparisonDTO   `json:"monthlyComparison"`
	SkillsAvailability []SkillAvailabilityDTO `json:"skillsAvailability"`
}

type MonthComparisonDTO struct {
	Month          int     `json:"month"`
	CommittedHours float64 `json:"committedHours"`
	AvailableHours float64 `json:"availableHours"`
}

type SkillAvailabilityDTO struct {
	Skill   string  `json:"skill"`
	Current float64 `json:"current"`
	Future  float64 `json:"future"`
}

type ResourceRowDTO struct {
	ID             string              `json:"id"`
	Code           string              `json:"code"`
	Name           string              `json:"name"`
	Skills         []string            `json:"skills"`
	HasAssignment  bool                `json:"hasAssignment"`
	AvgUtilization UtilizationDTO      `json:"avgUtilization"`
	Summaries      []MonthlySummaryDTO `json:"summaries"`
}

type MonthlySummaryDTO struct {
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	TotalHours      float64 `json:"totalHours"`
	CommittedHours  float64 `json:"committedHours"`
	AvailableHours  float64 `json:"availableHours"`
	UtilizationRate float64 `json:"utilizationRate"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	year := h.clock.Now().Year()
	if yearString := r.URL.Query().Get("year"); yearString != "" {
		parsed, err := strconv.Atoi(yearString)
		if err != nil || parsed < 2000 || parsed > 2100 {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid year format",
				Details: "Parameter year must be a number between 2000 and 2100",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
				return
			}
			return
		}
		year = parsed
	}

	overview, err := h.service.GetOverview(r.Context(), year, r.URL.Query().Get("team"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(toDTO(overview)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toDTO(o Overview) OverviewDTO {
	comparison := make([]MonthComparisonDTO, 0, len(o.Charts.MonthlyComparison))
	for _, m := range o.Charts.MonthlyComparison {
		comparison = append(comparison, MonthComparisonDTO{
			Month:          int(m.Month),
			CommittedHours: m.CommittedHours.InexactFloat64(),
			AvailableHours: m.AvailableHours.InexactFloat64(),
		})
	}

	skills := make([]SkillAvailabilityDTO, 0, len(o.Charts.SkillsAvailability))
	for _, s := range o.Charts.SkillsAvailability {
		skills = append(skills, SkillAvailabilityDTO{
			Skill:   s.Skill,
			Current: s.Current.InexactFloat64(),
			Future:  s.Future.InexactFloat64(),
		})
	}

	rows := make([]ResourceRowDTO, 0, len(o.Resources))
	for _, row := range o.Resources {
		rowSkills := row.Skills
		if rowSkills == nil {
			rowSkills = []string{}
		}
		rows = append(rows, ResourceRowDTO{
			ID:             row.ID,
			Code:           row.Code,
			Name:           row.Name,
			Skills:         rowSkills,
			HasAssignment:  row.HasAssignment,
			AvgUtilization: utilizationToDTO(row.AvgUtilization),
			Summaries:      summariesToDTO(row.Summaries),
		})
	}

	return OverviewDTO{
		Year:         o.Year,
		CurrentMonth: int(o.CurrentMonth),
		KPIs: KPIsDTO{
			TotalResources:             o.KPIs.TotalResources,
			ResourcesWithAssignment:    o.KPIs.ResourcesWithAssignment,
			ResourcesWithoutAssignment: o.KPIs.ResourcesWithoutAssignment,
			AvgUtilization:             utilizationToDTO(o.KPIs.AvgUtilization),
		},
		Charts: ChartsDTO{
			MonthlyComparison:  comparison,
			SkillsAvailability: skills,
		},
		Resources: rows,
	}
}

func utilizationToDTO(u Utilization) UtilizationDTO {
	return UtilizationDTO{
		Current: u.Current.InexactFloat64(),
		Future:  u.Future.InexactFloat64(),
	}
}

func summariesToDTO(summaries []stats.MonthlySummary) []MonthlySummaryDTO {
	dtos := make([]MonthlySummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, MonthlySummaryDTO{
			Month:           int(s.Month),
			Year:            s.Year,
			TotalHours:      s.TotalHours.InexactFloat64(),
			CommittedHours:  s.CommittedHours.InexactFloat64(),
			AvailableHours:  s.AvailableHours.InexactFloat64(),
			UtilizationRate: s.UtilizationRate.InexactFloat64(),
		})
	}
	return dtos
}
