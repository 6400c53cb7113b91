package app

import (
	"database/sql"

	"github.com/capaplan/capaplan/internal/config"
	"github.com/capaplan/capaplan/internal/utils"
	"github.com/capaplan/capaplan/pkg/assignment"
	"github.com/capaplan/capaplan/pkg/capacity"
	"github.com/capaplan/capaplan/pkg/ledger"
	"github.com/capaplan/capaplan/pkg/overview"
	"github.com/capaplan/capaplan/pkg/project"
	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/capaplan/capaplan/pkg/stats"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	ResourceRepo    resource.Repository
	ResourceService *resource.ServiceImpl
	ResourceHandler *resource.Handler

	ProjectRepo    project.Repository
	ProjectService *project.ServiceImpl
	ProjectHandler *project.Handler

	AssignmentRepo    assignment.Repository
	ConflictValidator assignment.Validator
	BatchExecutor     *assignment.BatchExecutor
	AssignmentService *assignment.ServiceImpl
	AssignmentHandler *assignment.Handler

	LedgerService *ledger.Service
	LedgerHandler *ledger.Handler

	CapacityRepo    capacity.Repository
	CapacityService *capacity.ServiceImpl
	CapacityHandler *capacity.Handler

	StatsService    stats.Service
	OverviewService *overview.ServiceImpl
	OverviewHandler *overview.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.ResourceRepo = resource.NewRepository(db)
	deps.ResourceService = resource.NewService(deps.ResourceRepo)
	deps.ResourceHandler = resource.NewHandler(deps.ResourceService)

	deps.ProjectRepo = project.NewRepository(db)
	deps.ProjectService = project.NewService(deps.ProjectRepo)
	deps.ProjectHandler = project.NewHandler(deps.ProjectService)

	deps.AssignmentRepo = assignment.NewRepository(db)
	deps.ConflictValidator = assignment.NewValidator(deps.AssignmentRepo, deps.ResourceRepo)
	deps.BatchExecutor = assignment.NewBatchExecutor(deps.AssignmentRepo, deps.ConflictValidator)
	deps.AssignmentService = assignment.NewService(deps.AssignmentRepo, deps.ConflictValidator, deps.BatchExecutor)
	deps.AssignmentHandler = assignment.NewHandler(deps.AssignmentService)

	deps.LedgerService = ledger.NewService(deps.ResourceRepo, deps.AssignmentRepo)
	deps.LedgerHandler = ledger.NewHandler(deps.LedgerService, deps.ResourceRepo)

	deps.CapacityRepo = capacity.NewRepository(db)
	deps.CapacityService = capacity.NewService(deps.CapacityRepo, deps.ResourceRepo, deps.AssignmentRepo)
	deps.CapacityHandler = capacity.NewHandler(deps.CapacityService)

	deps.StatsService = stats.NewService(deps.LedgerService, deps.CapacityRepo)
	deps.OverviewService = overview.NewService(deps.ResourceRepo, deps.StatsService, cfg.Planning.SkillOrder, deps.Clock)
	deps.OverviewHandler = overview.NewHandler(deps.OverviewService, deps.Clock)

	return deps
}
