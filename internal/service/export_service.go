package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/alejandrobg101/Syllabus-Chatbot/internal/dto"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/model"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/repository"
)

// ── export errors ──

var (
	ErrExportNoSections   = errors.New("no sections scheduled for this term")
	ErrExportGenerateFail = errors.New("failed to generate Excel file")
)

// ExportService export business interface.
// The workbook is returned as a buffer; the handler sets the download headers.
type ExportService interface {
	// ExportTimetable writes one term's sections to an .xlsx workbook.
	ExportTimetable(ctx context.Context, semester, year string) (*bytes.Buffer, string, error)
	// ExportCalendar writes one term's sections as weekly iCalendar events.
	ExportCalendar(ctx context.Context, req *dto.CalendarExportRequest) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService creates an ExportService. loc is the zone meeting times
// are expressed in; nil means UTC.
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{repo: repo, loc: loc, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportTimetable
// ═══════════════════════════════════════════════════════════
//
// Layout:
//   - row 1: title "<Semester> <Year> timetable" merged across the header
//   - row 2: header
//   - one row per section, sorted by building, room number, days, start time
//
// Returns the workbook, a suggested file name and an error.

var timetableHeader = []string{"Section", "Course", "Building", "Room", "Days", "Start", "End", "Capacity", "Room capacity"}

func (s *exportService) ExportTimetable(ctx context.Context, semester, year string) (*bytes.Buffer, string, error) {
	semester = model.NormalizeSemester(semester)

	sections, err := s.repo.Section.ListByTerm(ctx, semester, year)
	if err != nil {
		s.logger.Error("list term sections failed", zap.Error(err))
		return nil, "", err
	}
	if len(sections) == 0 {
		return nil, "", ErrExportNoSections
	}

	sort.SliceStable(sections, func(i, j int) bool {
		a, b := timetableRowKey(&sections[i]), timetableRowKey(&sections[j])
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return sections[i].SectionID < sections[j].SectionID
	})

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timetable"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", colName(len(timetableHeader)-1), 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// title
	lastCol := colName(len(timetableHeader) - 1)
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s %s timetable", semester, year))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// header
	for i, h := range timetableHeader {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(lastCol, 2), headerStyle)

	// rows
	row := 3
	for i := range sections {
		sec := &sections[i]
		values := []interface{}{sec.SectionID, "-", "-", "-", "-", "-", "-", sec.Capacity, "-"}
		if sec.Course != nil {
			values[1] = sec.Course.Name + " " + sec.Course.Code
		}
		if sec.Room != nil {
			values[2] = sec.Room.Building
			values[3] = sec.Room.RoomNumber
			values[8] = sec.Room.Capacity
		}
		if sec.Meeting != nil {
			values[4] = string(sec.Meeting.Days)
			values[5] = sec.Meeting.StartTime
			values[6] = sec.Meeting.EndTime
		}
		for c, v := range values {
			f.SetCellValue(sheetName, cell(colName(c), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timetable_%s_%s.xlsx", semester, year)
	return buf, filename, nil
}

// ── helpers ──

func timetableRowKey(sec *model.Section) [4]string {
	var k [4]string
	if sec.Room != nil {
		k[0], k[1] = sec.Room.Building, sec.Room.RoomNumber
	}
	if sec.Meeting != nil {
		k[2], k[3] = string(sec.Meeting.Days), sec.Meeting.StartTime
	}
	return k
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
