package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/evolvehq/perf-review-api/internal/models"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
	"github.com/evolvehq/perf-review-api/pkg/export"
)

// ExportService renders analytics summaries into downloadable CSV and
// PDF documents.
type ExportService struct {
	analytics *AnalyticsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(analytics *AnalyticsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		analytics: analytics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// EmployeeSummaryCSV renders an employee's per-goal analytics as CSV.
func (s *ExportService) EmployeeSummaryCSV(ctx context.Context, employeeID string) ([]byte, error) {
	summary, _, err := s.analytics.EmployeeSummary(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	table := export.Table{
		Columns: []string{"Goal", "Period", "Final score", "Rating", "Self", "Manager", "Respondent", "Potential"},
	}
	for _, goal := range summary.Goals {
		table.AddRow(
			goal.GoalID,
			goal.Period,
			fmt.Sprintf("%.2f", goal.FinalScore),
			string(goal.Rating),
			formatComponent(goal.Components.Self),
			formatComponent(goal.Components.Manager),
			formatComponent(goal.Components.Respondent),
			formatComponent(goal.Components.Potential),
		)
	}
	payload, err := s.csv.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, nil
}

// TeamSummaryCSV renders a manager's team roll-up as CSV.
func (s *ExportService) TeamSummaryCSV(ctx context.Context, managerID string) ([]byte, error) {
	summary, err := s.analytics.TeamSummary(ctx, managerID)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(teamTable(summary))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return payload, nil
}

// TeamSummaryPDF renders a manager's team roll-up as a PDF document.
func (s *ExportService) TeamSummaryPDF(ctx context.Context, managerID string) ([]byte, error) {
	summary, err := s.analytics.TeamSummary(ctx, managerID)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.Render(teamTable(summary), "Team performance summary")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return payload, nil
}

func teamTable(summary *models.TeamSummary) export.Table {
	table := export.Table{
		Columns: []string{"Employee", "Period", "Goals", "Scored goals", "Average score", "Rating"},
	}
	for _, employee := range summary.Employees {
		table.AddRow(
			employee.FullName,
			employee.Period,
			strconv.Itoa(employee.GoalCount),
			strconv.Itoa(employee.ScoredGoals),
			fmt.Sprintf("%.2f", employee.AverageScore),
			string(employee.Rating),
		)
	}
	return table
}

func formatComponent(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
