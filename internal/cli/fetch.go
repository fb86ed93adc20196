package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/dataviewer/internal/record"
	"github.com/rshade/dataviewer/internal/source"
	"github.com/rshade/dataviewer/internal/tui"
)

// Output formats accepted by fetch.
const (
	OutputTable  = "table"
	OutputJSON   = "json"
	OutputNDJSON = "ndjson"
)

// ErrPageOutOfRange is returned when --page is past the last page.
var ErrPageOutOfRange = errors.New("page out of range")

func newFetchCmd(deps Deps) *cobra.Command {
	var (
		output  string
		page    int
		filters []string
		sortBy  string
	)

	cmd := &cobra.Command{
		Use:   "fetch <label|number>",
		Short: "Load one data source and print it",
		Long: "Load a listed data source without the interactive viewer. " +
			"Only sources shown by 'dataviewer sources' can be fetched.",
		Example: `  # Print API 1 as a table
  dataviewer fetch "API 1"

  # Print the third page (rows 11-15) of the second source
  dataviewer fetch 2 --page 3

  # Dump as JSON
  dataviewer fetch 1 --output json

  # Posts by user 1 whose title mentions "qui", newest id first
  dataviewer fetch 1 --filter userId=1 --filter title=qui --sort id:desc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, deps, args[0], fetchOptions{
				output:  output,
				page:    page,
				filters: filters,
				sortBy:  sortBy,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", OutputTable, "Output format: table, json, or ndjson")
	cmd.Flags().IntVar(&page, "page", 0, fmt.Sprintf("1-based page of %d rows to print (0 = all rows)", tui.PageSize))
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Keep rows whose column contains text: 'field=text' (repeatable)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort rows by column: 'field' or 'field:desc'")

	return cmd
}

type fetchOptions struct {
	output  string
	page    int
	filters []string
	sortBy  string
}

// runFetch loads one listed source, then filters, sorts and pages it the
// same way the viewer does before printing.
func runFetch(cmd *cobra.Command, deps Deps, ref string, opts fetchOptions) error {
	switch opts.output {
	case OutputTable, OutputJSON, OutputNDJSON:
	default:
		return fmt.Errorf("unsupported output format %q (want table, json, or ndjson)", opts.output)
	}
	if opts.page < 0 {
		return fmt.Errorf("page must be >= 0, got %d", opts.page)
	}

	ep, err := source.Lookup(deps.Endpoints, ref)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	records, err := deps.Loader.Load(ctx, ep.URL)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", ep.Label, err)
	}
	logger.Debug().Ctx(ctx).Str("url", ep.URL).Int("records", len(records)).Msg("source fetched")

	view, err := arrange(ctx, records, opts)
	if err != nil {
		return err
	}
	rows, err := selectPage(view, opts.page)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch opts.output {
	case OutputJSON:
		return writeJSON(out, rows)
	case OutputNDJSON:
		return writeNDJSON(out, rows)
	default:
		return writeTable(out, record.DeriveColumns(records), view, rows, opts.page)
	}
}

// arrange applies filters then sort. Columns come from the first record, so
// an empty dataset has nothing to filter or sort.
func arrange(ctx context.Context, records []record.Record, opts fetchOptions) ([]record.Record, error) {
	if len(records) == 0 {
		return records, nil
	}
	columns := record.DeriveColumns(records)

	view, err := ApplyFilters(ctx, records, columns, opts.filters)
	if err != nil {
		return nil, err
	}
	if opts.sortBy == "" {
		return view, nil
	}
	field, order, err := ParseSort(opts.sortBy, columns)
	if err != nil {
		return nil, err
	}
	return record.SortBy(view, field, order), nil
}

// selectPage returns the rows on a 1-based page, or every row for page 0.
func selectPage(records []record.Record, page int) ([]record.Record, error) {
	if page == 0 {
		return records, nil
	}
	pages := pageCount(len(records))
	if page > pages {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrPageOutOfRange, page, pages)
	}
	start := (page - 1) * tui.PageSize
	end := min(start+tui.PageSize, len(records))
	return records[start:end], nil
}

func pageCount(n int) int {
	if n == 0 {
		return 1
	}
	return (n + tui.PageSize - 1) / tui.PageSize
}

// writeTable prints rows under columns. view is the filtered and sorted
// dataset the page was cut from.
func writeTable(out io.Writer, columns []record.Column, view, rows []record.Record, page int) error {
	if len(columns) == 0 {
		_, err := fmt.Fprintln(out, "No records.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)

	for i, c := range columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c.Header)
	}
	fmt.Fprintln(w)

	for _, r := range rows {
		for i, c := range columns {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, tui.CellText(c.Cell(r)))
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if page == 0 {
		_, err := fmt.Fprintf(out, "\n%s records\n", tui.FormatCount(len(view)))
		return err
	}
	_, err := fmt.Fprintf(out, "\nPage %d/%d · %s records\n",
		page, pageCount(len(view)), tui.FormatCount(len(view)))
	return err
}

// writeJSON prints rows as a JSON array, one record per line.
func writeJSON(out io.Writer, rows []record.Record) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "[]")
		return err
	}
	if _, err := fmt.Fprintln(out, "["); err != nil {
		return err
	}
	for i, r := range rows {
		data, err := r.MarshalJSON()
		if err != nil {
			return err
		}
		sep := ","
		if i == len(rows)-1 {
			sep = ""
		}
		if _, err := fmt.Fprintf(out, "  %s%s\n", data, sep); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(out, "]")
	return err
}

// writeNDJSON prints one compact JSON record per line.
func writeNDJSON(out io.Writer, rows []record.Record) error {
	for _, r := range rows {
		data, err := r.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%s\n", data); err != nil {
			return err
		}
	}
	return nil
}
