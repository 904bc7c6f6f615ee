package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	opts Options
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown(opts Options) Formatter {
	return &markdownFormatter{opts: opts.withDefaults()}
}

func (f *markdownFormatter) FormatEvents(list *EventList) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# Upcoming care reminders\n\n")

	if len(list.Events) == 0 {
		b.WriteString("_No reminders found. Adjust filters or upload a patient file._\n")
		return []byte(b.String()), nil
	}

	b.WriteString("| Date | Description | Patient file | Type |\n")
	b.WriteString("|------|-------------|--------------|------|\n")
	for _, e := range list.Events {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			formatDate(e.Date, f.opts.DateLayout),
			escapeMarkdown(e.Description),
			escapeMarkdown(recordName(e)),
			escapeMarkdown(e.Type.Name))
	}
	fmt.Fprintf(&b, "\n%s\n", list.Summary())
	return []byte(b.String()), nil
}

func (f *markdownFormatter) FormatRecords(records []api.MedicalRecord) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# Patient files\n\n")
	if len(records) == 0 {
		b.WriteString("_No patient files uploaded yet._\n")
		return []byte(b.String()), nil
	}

	b.WriteString("| Filename | Uploaded | ID |\n")
	b.WriteString("|----------|----------|----|\n")
	for _, r := range records {
		fmt.Fprintf(&b, "| %s | %s | `%s` |\n",
			escapeMarkdown(r.Filename), formatCreated(r, f.opts.DateLayout), r.ID)
	}
	return []byte(b.String()), nil
}

func (f *markdownFormatter) FormatEventTypes(types []api.EventType) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# Reminder categories\n\n")
	if len(types) == 0 {
		b.WriteString("_No reminder categories defined._\n")
		return []byte(b.String()), nil
	}

	b.WriteString("| Name | Description | Deletable | ID |\n")
	b.WriteString("|------|-------------|-----------|----|\n")
	for _, et := range types {
		deletable := "no"
		if et.IsDeletable {
			deletable = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | `%s` |\n",
			escapeMarkdown(et.Name), escapeMarkdown(et.Description), deletable, et.ID)
	}
	return []byte(b.String()), nil
}

func (f *markdownFormatter) FormatAlerts(resp *api.AlertResponse) ([]byte, error) {
	var b strings.Builder
	now := f.opts.Now()

	b.WriteString("# Care alerts\n\n")
	fmt.Fprintf(&b, "**Patient:** %s  \n**Species:** %s\n\n", orUnknown(resp.PatientName), orUnknown(resp.PatientSpecies))

	list := append([]api.Alert(nil), resp.Alerts...)
	alerts.Sort(list)
	if len(list) == 0 {
		b.WriteString("_No alerts found in this record._\n")
		return []byte(b.String()), nil
	}

	b.WriteString("| Urgency | Title | Type | Due | Confidence |\n")
	b.WriteString("|---------|-------|------|-----|------------|\n")
	for _, a := range list {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %.0f%% |\n",
			alerts.Classify(a, now, f.opts.Thresholds),
			escapeMarkdown(a.Title),
			alerts.FormatType(a.AlertType),
			alerts.DueLabel(a, f.opts.DateLayout),
			a.Confidence*100)
	}

	for _, a := range list {
		if a.SourceExcerpt == "" && a.Notes == "" {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n", a.Title)
		if a.SourceExcerpt != "" {
			fmt.Fprintf(&b, "> %s\n", escapeMarkdown(a.SourceExcerpt))
		}
		if a.Notes != "" {
			fmt.Fprintf(&b, "\n%s\n", a.Notes)
		}
	}
	return []byte(b.String()), nil
}
