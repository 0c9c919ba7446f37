package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

var sessionExportHeaders = []string{
	"Session ID", "Request ID", "Mentor", "Mentor Email",
	"Mentee", "Mentee Email", "Start", "End", "Meeting Link",
	"Rating", "Feedback",
}

// ExportSessions renders all matching sessions into a single-sheet xlsx
// workbook for admin reporting.
func (s *exportService) ExportSessions(ctx context.Context, filters repositories.SessionFilters) ([]byte, error) {
	s.logger.Info("Exporting sessions", "mentor_id", filters.MentorID, "mentee_id", filters.MenteeID)

	// Export is unpaginated on purpose, the filters bound the result set
	filters.Limit = 0
	filters.Offset = 0

	sessions, _, err := s.repo.Session().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sessions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, header := range sessionExportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, session := range sessions {
		row := i + 2
		values := []interface{}{
			session.ID,
			session.RequestID,
			session.Mentor.FullName,
			session.Mentor.Email,
			session.Mentee.FullName,
			session.Mentee.Email,
			formatSlotTime(session, true),
			formatSlotTime(session, false),
			stringOrEmpty(session.MeetingLink),
			ratingOrEmpty(session.Rating),
			stringOrEmpty(session.Feedback),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Sessions exported", "count", len(sessions))
	return buf.Bytes(), nil
}

func formatSlotTime(session *models.Session, start bool) string {
	if session.Slot.ID == 0 {
		return ""
	}
	if start {
		return session.Slot.StartAt.Format("2006-01-02 15:04")
	}
	return session.Slot.EndAt.Format("2006-01-02 15:04")
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ratingOrEmpty(r *int) interface{} {
	if r == nil {
		return ""
	}
	return *r
}
