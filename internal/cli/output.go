package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/stockdesk/stockdesk/internal/cli/pagination"
	"github.com/stockdesk/stockdesk/internal/config"
	"github.com/stockdesk/stockdesk/internal/inventory"
)

// Output formats accepted by --output.
const (
	OutputTable  = "table"
	OutputJSON   = "json"
	OutputNDJSON = "ndjson"
)

const tabPadding = 2

// resolveOutputFormat returns flagValue, or the configured default when empty.
func resolveOutputFormat(flagValue string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flagValue))
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	if !slices.Contains(config.ValidOutputFormats, format) {
		return "", fmt.Errorf("unsupported output format %q (want one of %s)",
			format, strings.Join(config.ValidOutputFormats, ", "))
	}
	return format, nil
}

// listDocument is the JSON shape of a listed page.
type listDocument struct {
	Resource   string                    `json:"resource"`
	Items      []inventory.Record        `json:"items"`
	Pagination pagination.PaginationMeta `json:"pagination"`
}

// renderList writes one page of records in format.
func renderList(
	w io.Writer,
	format string,
	resource inventory.Resource,
	records []inventory.Record,
	meta pagination.PaginationMeta,
) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listDocument{Resource: resource.Name, Items: records, Pagination: meta})
	case OutputNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	default:
		return renderTable(w, resource, records, meta)
	}
}

func renderTable(w io.Writer, resource inventory.Resource, records []inventory.Record, meta pagination.PaginationMeta) error {
	if len(records) == 0 {
		_, err := fmt.Fprintf(w, "No %s found.\n", strings.ToLower(resource.Title))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	labels := make([]string, len(resource.Fields))
	for i, f := range resource.Fields {
		labels[i] = f.Label
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))
	for _, r := range records {
		fmt.Fprintln(tw, strings.Join(sanitizeCells(r.Cells()), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	first, last := meta.Range()
	_, err := fmt.Fprintf(w, "\nShowing %d-%d of %d • Page %d/%d\n",
		first, last, meta.TotalItems, meta.CurrentPage, max(1, meta.TotalPages))
	return err
}

// renderRecord writes a single record: label/value pairs for table, the object otherwise.
func renderRecord(w io.Writer, format string, resource inventory.Resource, record inventory.Record) error {
	if format != OutputTable {
		enc := json.NewEncoder(w)
		if format == OutputJSON {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(record)
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	cells := record.Cells()
	for i, f := range resource.Fields {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		fmt.Fprintf(tw, "%s:\t%s\n", f.Label, sanitizeCell(value))
	}
	return tw.Flush()
}

func sanitizeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = sanitizeCell(c)
	}
	return out
}

// sanitizeCell keeps tabs and newlines from breaking table columns.
func sanitizeCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(s)
}
