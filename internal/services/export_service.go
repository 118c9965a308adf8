package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/alumni-service/internal/directory"
	"github.com/SAP-F-2025/alumni-service/internal/models"
	"github.com/SAP-F-2025/alumni-service/internal/repositories"
)

const ExportSheetName = "Alumni"

var exportHeader = []interface{}{
	"ID", "Name", "Role", "Company", "Batch", "Department", "Location",
	"Experience", "Industry", "Skills", "Available", "LinkedIn",
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportXLSX writes every record matching query as a spreadsheet, newest first
func (s *exportService) ExportXLSX(ctx context.Context, query directory.Query, w io.Writer) error {
	records, err := s.repo.Alumni().List(ctx, repositories.AlumniFilters{Query: query})
	if err != nil {
		return fmt.Errorf("failed to list alumni for export: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(ExportSheetName, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(ExportSheetName, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, a := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := exportRow(models.NewAlumniListItem(a))
		if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(ExportSheetName, "B", "L", 20); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	s.logger.Info("Exported alumni", "rows", len(records))

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func exportRow(item models.AlumniListItem) []interface{} {
	return []interface{}{
		item.ID,
		item.Name,
		item.Role,
		item.Company,
		item.Batch,
		item.Department,
		item.Location,
		item.Experience,
		item.Industry,
		strings.Join(item.Skills, ", "),
		item.Available,
		item.LinkedIn,
	}
}
