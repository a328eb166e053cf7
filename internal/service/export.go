package service

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"
)

var ErrNothingToExport = errors.New("no data to export")

const (
	ColumnEventTitle = "活動名稱"
	ColumnSubmitted  = "報名時間"

	csvTimeLayout = "2006/1/2 15:04:05"
)

type CSVFile struct {
	Name    string
	Content []byte
}

type ExportService struct {
	store RegistrationStore
	loc   *time.Location
	now   func() time.Time
}

func NewExportService(store RegistrationStore, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.Local
	}

	return &ExportService{
		store: store,
		loc:   loc,
		now:   time.Now,
	}
}

// Export renders the registrations, optionally only those of eventID, as a
// CSV file with a UTF-8 byte order mark.
func (s *ExportService) Export(eventID string) (CSVFile, error) {
	events := s.store.Events()
	regs := domain.FilterRegistrations(s.store.Registrations(), eventID)
	if len(regs) == 0 {
		return CSVFile{}, ErrNothingToExport
	}

	byID := make(map[string]domain.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	rows := make([]csvRow, 0, len(regs))
	for _, r := range regs {
		rows = append(rows, s.row(r, byID))
	}

	content, err := encodeCSV(rows)
	if err != nil {
		return CSVFile{}, fmt.Errorf("encodeCSV -> %w", err)
	}

	return CSVFile{Name: s.fileName(eventID, byID), Content: content}, nil
}

func (s *ExportService) fileName(eventID string, byID map[string]domain.Event) string {
	if e, ok := byID[eventID]; ok && eventID != "" {
		return e.Title + "_報名名單.csv"
	}
	return "完整報名清單_" + s.now().In(s.loc).Format(domain.DayLayout) + ".csv"
}

// csvRow keeps column order: fixed columns, then the event's form fields in
// their configured order, then any other submitted keys sorted.
type csvRow struct {
	keys   []string
	values map[string]string
}

func (s *ExportService) row(r domain.Registration, byID map[string]domain.Event) csvRow {
	title := UnknownEventTitle
	event, ok := byID[r.EventID]
	if ok {
		title = event.Title
	}

	row := csvRow{
		keys: []string{ColumnEventTitle, ColumnSubmitted},
		values: map[string]string{
			ColumnEventTitle: title,
			ColumnSubmitted:  r.CreatedAt().In(s.loc).Format(csvTimeLayout),
		},
	}

	var rest []string
	for k := range r.FormData {
		rest = append(rest, k)
	}
	sort.Strings(rest)

	var ordered []string
	for _, f := range event.FormFields {
		if _, present := r.FormData[f.Name]; present {
			ordered = append(ordered, f.Name)
		}
	}
	for _, k := range rest {
		if !slices.Contains(ordered, k) {
			ordered = append(ordered, k)
		}
	}

	for _, k := range ordered {
		if _, fixed := row.values[k]; fixed {
			continue
		}
		row.keys = append(row.keys, k)
		row.values[k] = r.FormData[k]
	}

	return row
}

func encodeCSV(rows []csvRow) ([]byte, error) {
	var headers []string
	for _, r := range rows {
		for _, k := range r.keys {
			if !slices.Contains(headers, k) {
				headers = append(headers, k)
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, r := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = quoteCSV(r.values[h])
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	var buf bytes.Buffer
	w := transform.NewWriter(&buf, unicode.UTF8BOM.NewEncoder())
	if _, err := w.Write([]byte(strings.Join(lines, "\n"))); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// quoteCSV always quotes; encoding/csv only quotes when it has to.
func quoteCSV(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
