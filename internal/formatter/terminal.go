package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/careminder/internal/alerts"
	"github.com/yildizm/careminder/internal/api"
	"github.com/yildizm/careminder/internal/emoji"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts     Options
	termOpts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter
func NewTerminal(opts Options) Formatter {
	termOpts := termfmt.DefaultOptions()
	termOpts.Color = opts.Color
	termOpts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts.withDefaults(), termOpts: termOpts}
}

func (f *terminalFormatter) FormatEvents(list *EventList) ([]byte, error) {
	var b strings.Builder

	b.WriteString(emoji.GetEmoji("reminder") + " Upcoming care reminders\n")
	f.writeFilters(&b, list)

	if len(list.Events) == 0 {
		b.WriteString("No reminders found. Adjust filters or upload a patient file.\n")
		return []byte(b.String()), nil
	}

	items := make([]termfmt.TreeItem, 0, len(list.Events))
	for i, e := range list.Events {
		items = append(items, termfmt.TreeItem{
			Label: formatDate(e.Date, f.opts.DateLayout),
			Value: e.Description,
			Children: []termfmt.TreeItem{
				{Label: "Type", Value: e.Type.Name},
				{Label: "Patient file", Value: recordName(e), Last: true},
			},
			Last: i == len(list.Events)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.termOpts) + "\n\n")
	b.WriteString(list.Summary() + "\n")

	return []byte(b.String()), nil
}

// writeFilters lists the active predicates, if any
func (f *terminalFormatter) writeFilters(b *strings.Builder, list *EventList) {
	s := list.Filters
	if !s.Active() {
		b.WriteString("\n")
		return
	}

	var items []termfmt.TreeItem
	if len(s.EventTypeIDs) > 0 {
		items = append(items, termfmt.TreeItem{Label: "Categories", Value: strings.Join(s.EventTypeIDs, ", ")})
	}
	if len(s.MedicalRecordIDs) > 0 {
		items = append(items, termfmt.TreeItem{Label: "Patient files", Value: strings.Join(s.MedicalRecordIDs, ", ")})
	}
	if s.StartDate != "" || s.EndDate != "" {
		from, to := s.StartDate, s.EndDate
		if from == "" {
			from = "any"
		}
		if to == "" {
			to = "any"
		}
		items = append(items, termfmt.TreeItem{Label: "Dates", Value: from + " / " + to})
	}
	items[len(items)-1].Last = true

	b.WriteString(emoji.GetEmoji("filter") + " Filters\n")
	b.WriteString(termfmt.TreeViewWithOptions(items, f.termOpts) + "\n\n")
}

func (f *terminalFormatter) FormatRecords(records []api.MedicalRecord) ([]byte, error) {
	var b strings.Builder
	b.WriteString(emoji.GetEmoji("record") + " Patient files\n")

	if len(records) == 0 {
		b.WriteString("No patient files uploaded yet.\n")
		return []byte(b.String()), nil
	}

	items := make([]termfmt.TreeItem, 0, len(records))
	for i, r := range records {
		items = append(items, termfmt.TreeItem{
			Label: r.Filename,
			Value: formatCreated(r, f.opts.DateLayout+" 15:04"),
			Children: []termfmt.TreeItem{
				{Label: "ID", Value: r.ID, Last: true},
			},
			Last: i == len(records)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.termOpts) + "\n")
	return []byte(b.String()), nil
}

func (f *terminalFormatter) FormatEventTypes(types []api.EventType) ([]byte, error) {
	var b strings.Builder
	b.WriteString(emoji.GetEmoji("category") + " Reminder categories\n")

	if len(types) == 0 {
		b.WriteString("No reminder categories defined.\n")
		return []byte(b.String()), nil
	}

	items := make([]termfmt.TreeItem, 0, len(types))
	for i, et := range types {
		label := et.Name
		if !et.IsDeletable {
			label += " " + emoji.GetEmoji("locked")
		}
		items = append(items, termfmt.TreeItem{
			Label: label,
			Value: et.Description,
			Children: []termfmt.TreeItem{
				{Label: "ID", Value: et.ID, Last: true},
			},
			Last: i == len(types)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.termOpts) + "\n")
	return []byte(b.String()), nil
}

func (f *terminalFormatter) FormatAlerts(resp *api.AlertResponse) ([]byte, error) {
	var b strings.Builder
	now := f.opts.Now()

	b.WriteString(emoji.GetEmoji("paw") + " Patient\n")
	patient := []termfmt.TreeItem{
		{Label: "Name", Value: orUnknown(resp.PatientName)},
		{Label: "Species", Value: orUnknown(resp.PatientSpecies), Last: true},
	}
	b.WriteString(termfmt.TreeViewWithOptions(patient, f.termOpts) + "\n\n")

	list := append([]api.Alert(nil), resp.Alerts...)
	alerts.Sort(list)

	counts := alerts.Counts(list, now, f.opts.Thresholds)
	b.WriteString(termfmt.GetEmoji("statistics", f.termOpts) + " Alerts\n")
	if len(list) == 0 {
		b.WriteString("No alerts found in this record.\n")
		return []byte(b.String()), nil
	}
	fmt.Fprintf(&b, "%d total: %d high, %d medium, %d low\n\n",
		len(list), counts[alerts.High], counts[alerts.Medium], counts[alerts.Low])

	items := make([]termfmt.TreeItem, 0, len(list))
	for i, a := range list {
		urgency := alerts.Classify(a, now, f.opts.Thresholds)
		children := []termfmt.TreeItem{
			{Label: "Type", Value: alerts.FormatType(a.AlertType)},
			{Label: "Due", Value: alerts.DueLabel(a, f.opts.DateLayout)},
			{Label: "Confidence", Value: termfmt.CreateConfidenceBar(a.Confidence, f.termOpts)},
		}
		if a.SourceExcerpt != "" {
			children = append(children, termfmt.TreeItem{Label: "Source", Value: truncate(a.SourceExcerpt, 80)})
		}
		if a.Notes != "" {
			children = append(children, termfmt.TreeItem{Label: "Notes", Value: a.Notes})
		}
		children[len(children)-1].Last = true

		items = append(items, termfmt.TreeItem{
			Label:    fmt.Sprintf("%s %s", urgencyEmoji(urgency), a.Title),
			Value:    string(urgency),
			Children: children,
			Last:     i == len(list)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.termOpts) + "\n")
	return []byte(b.String()), nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
