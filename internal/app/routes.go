package app

import (
	"github.com/gorilla/mux"

	"github.com/capaplan/capaplan/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Resources
	r.HandleFunc("/api/resource", deps.ResourceHandler.GetResources).Methods("GET")
	r.HandleFunc("/api/resource", deps.ResourceHandler.CreateResource).Methods("POST")
	r.HandleFunc("/api/resource/{resourceId}", deps.ResourceHandler.GetResource).Methods("GET")
	r.HandleFunc("/api/resource/{resourceId}", deps.ResourceHandler.UpdateResource).Methods("PUT")
	r.HandleFunc("/api/resource/{resourceId}", deps.ResourceHandler.DeactivateResource).Methods("DELETE")

	// Projects
	r.HandleFunc("/api/project", deps.ProjectHandler.GetProjects).Methods("GET")
	r.HandleFunc("/api/project", deps.ProjectHandler.CreateProject).Methods("POST")

	// Assignments
	r.HandleFunc("/api/assignment", deps.AssignmentHandler.CreateAssignment).Methods("POST")
	r.HandleFunc("/api/assignment/batch", deps.AssignmentHandler.SaveBatch).Methods("POST")
	r.HandleFunc("/api/assignment/validate", deps.AssignmentHandler.ValidateBatch).Methods("POST")
	r.HandleFunc("/api/assignment/{assignmentId}", deps.AssignmentHandler.DeleteAssignment).Methods("DELETE")

	// Capacity ledger
	r.HandleFunc("/api/ledger", deps.LedgerHandler.GetEntries).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/absence/check", deps.LedgerHandler.CheckAbsence).Methods("POST")

	// Capacity overrides
	r.HandleFunc("/api/capacity", deps.CapacityHandler.UpsertCapacity).Methods("PUT")
	r.HandleFunc("/api/capacity/{resourceId}", deps.CapacityHandler.GetCapacities).Queries("year", "{year}").Methods("GET")

	// Overview dashboard
	r.HandleFunc("/api/overview", deps.OverviewHandler.GetOverview).Methods("GET")
}
