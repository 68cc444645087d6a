// Package output provides formatted terminal output for hbnb records.
// This centralizes all printing and formatting logic away from command modules.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/n1rna/hbnb-cli/internal/models"
	"github.com/n1rna/hbnb-cli/internal/util"
)

// Format represents different output formats
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a --format value
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case FormatTable, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// Printer handles formatted output to the terminal
type Printer struct {
	writer io.Writer
	format Format
	quiet  bool
	mask   bool
}

// NewPrinterWithWriter creates a new printer with a custom writer
func NewPrinterWithWriter(writer io.Writer, format Format, quiet bool) *Printer {
	return &Printer{
		writer: writer,
		format: format,
		quiet:  quiet,
	}
}

// SetMask enables masking of sensitive attribute values such as passwords
func (p *Printer) SetMask(mask bool) {
	p.mask = mask
}

// Success prints a success message
func (p *Printer) Success(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "✓ %s\n", message)
	}
}

// Error prints an error message
func (p *Printer) Error(message string) {
	fmt.Fprintf(p.writer, "✗ %s\n", message)
}

// Warning prints a warning message
func (p *Printer) Warning(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "⚠ %s\n", message)
	}
}

// PrintSummary prints record counts per class
func (p *Printer) PrintSummary(counts map[string]int) error {
	switch p.format {
	case FormatTable:
		values := make(map[string]string, len(counts))
		for class, n := range counts {
			values[class] = fmt.Sprint(n)
		}
		return p.printCountsTable(values)
	case FormatJSON:
		return p.printJSON(counts)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintID prints the id of a newly created record
func (p *Printer) PrintID(typeName, id string) error {
	switch p.format {
	case FormatTable:
		fmt.Fprintln(p.writer, id)
		return nil
	case FormatJSON:
		return p.printJSON(map[string]string{models.ClassKey: typeName, "id": id})
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintRecord prints a single record in the specified format
func (p *Printer) PrintRecord(record models.Model) error {
	switch p.format {
	case FormatTable:
		return p.printRecordTable(record)
	case FormatJSON:
		return p.printJSON(p.payload(record))
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintRecords prints a list of records
func (p *Printer) PrintRecords(records []models.Model) error {
	switch p.format {
	case FormatTable:
		return p.printRecordListTable(records)
	case FormatJSON:
		payloads := make([]map[string]any, len(records))
		for i, record := range records {
			payloads[i] = p.payload(record)
		}
		return p.printJSON(payloads)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintCount prints the number of records of a kind
func (p *Printer) PrintCount(typeName string, n int) error {
	switch p.format {
	case FormatTable:
		fmt.Fprintln(p.writer, n)
		return nil
	case FormatJSON:
		return p.printJSON(map[string]any{models.ClassKey: typeName, "count": n})
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// printRecordTable prints a record header followed by its attributes
func (p *Printer) printRecordTable(record models.Model) error {
	base := record.Base()
	fmt.Fprintf(p.writer, "%s: %s\n", record.TypeName(), base.ID)
	fmt.Fprintf(p.writer, "Created: %s\n", base.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(p.writer, "Updated: %s\n", base.UpdatedAt.Format(time.RFC3339))

	values := make(map[string]string)
	for _, field := range record.Fields() {
		values[field.Name] = p.maskValue(field.Name, fmt.Sprint(field.Value()))
	}
	for _, name := range base.AttrNames() {
		v, _ := base.Attr(name)
		values[name] = p.maskValue(name, fmt.Sprint(v))
	}

	fmt.Fprintf(p.writer, "\nAttributes:\n")
	return p.printValuesTable(values)
}

// printRecordListTable prints a list of records in table format
func (p *Printer) printRecordListTable(records []models.Model) error {
	if len(records) == 0 {
		fmt.Fprintf(p.writer, "No records found\n")
		return nil
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CLASS\tID\tUPDATED\n")
	fmt.Fprintf(w, "-----\t--\t-------\n")

	for _, record := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			record.TypeName(),
			record.Base().ID,
			record.Base().UpdatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

// printCountsTable prints per-class counts in table format
func (p *Printer) printCountsTable(values map[string]string) error {
	if len(values) == 0 {
		fmt.Fprintf(p.writer, "No records found\n")
		return nil
	}

	classes := make([]string, 0, len(values))
	for class := range values {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CLASS\tRECORDS\n")
	fmt.Fprintf(w, "-----\t-------\n")
	for _, class := range classes {
		fmt.Fprintf(w, "%s\t%s\n", class, values[class])
	}

	return w.Flush()
}

// printValuesTable prints attribute values in table format
func (p *Printer) printValuesTable(values map[string]string) error {
	if len(values) == 0 {
		fmt.Fprintf(p.writer, "  No attributes set\n")
		return nil
	}

	// Sort keys
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ATTRIBUTE\tVALUE\n")
	fmt.Fprintf(w, "  ---------\t-----\n")

	for _, key := range keys {
		value := values[key]
		// Truncate long values
		if len(value) > 80 {
			value = value[:77] + "..."
		}
		fmt.Fprintf(w, "  %s\t%s\n", key, value)
	}

	return w.Flush()
}

// payload serializes record, masking sensitive string values when enabled
func (p *Printer) payload(record models.Model) map[string]any {
	data := models.Serialize(record)
	if !p.mask {
		return data
	}
	for name, v := range data {
		if str, ok := v.(string); ok {
			data[name] = util.MaskSensitiveValue(name, str)
		}
	}
	return data
}

func (p *Printer) maskValue(name, value string) string {
	if !p.mask {
		return value
	}
	return util.MaskSensitiveValue(name, value)
}

// printJSON prints any object as JSON
func (p *Printer) printJSON(obj interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(obj)
}
