package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
)

// csvFormatter formats listings as CSV
type csvFormatter struct {
	opts Options
}

// NewCSV creates a new CSV formatter
func NewCSV(opts Options) Formatter {
	return &csvFormatter{opts: opts.withDefaults()}
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return b.Bytes(), nil
}

func (f *csvFormatter) FormatEvents(list *EventList) ([]byte, error) {
	rows := make([][]string, 0, len(list.Events))
	for _, e := range list.Events {
		rows = append(rows, []string{
			e.Date,
			e.Description,
			e.Type.ID,
			e.Type.Name,
			e.MedicalRecordID,
			e.MedicalRecordFilename,
		})
	}
	return writeCSV([]string{"Date", "Description", "Type ID", "Type", "Patient File ID", "Patient File"}, rows)
}

func (f *csvFormatter) FormatRecords(records []api.MedicalRecord) ([]byte, error) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.ID, r.Filename, r.CreatedTime})
	}
	return writeCSV([]string{"ID", "Filename", "Created"}, rows)
}

func (f *csvFormatter) FormatEventTypes(types []api.EventType) ([]byte, error) {
	rows := make([][]string, 0, len(types))
	for _, et := range types {
		rows = append(rows, []string{et.ID, et.Name, et.Description, fmt.Sprintf("%t", et.IsDeletable)})
	}
	return writeCSV([]string{"ID", "Name", "Description", "Deletable"}, rows)
}

func (f *csvFormatter) FormatAlerts(resp *api.AlertResponse) ([]byte, error) {
	now := f.opts.Now()
	list := append([]api.Alert(nil), resp.Alerts...)
	alerts.Sort(list)

	rows := make([][]string, 0, len(list))
	for _, a := range list {
		rows = append(rows, []string{
			resp.PatientName,
			a.Title,
			a.AlertType,
			a.DueDate,
			string(alerts.Classify(a, now, f.opts.Thresholds)),
			fmt.Sprintf("%.2f", a.Confidence),
			a.SourceExcerpt,
			a.Notes,
		})
	}
	return writeCSV([]string{"Patient", "Title", "Type", "Due Date", "Urgency", "Confidence", "Source", "Notes"}, rows)
}
