package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apiclient "github.com/storefront-tools/catalog-explorer/internal/api/client"
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printQueryResult(resp *apiclient.QueryResponse) error {
	if jsonOutput() {
		return printJSON(resp)
	}

	tw := newTabWriter(os.Stdout)
	tw.writef("SKU\tNAME\tPRICE\tSALE\tCATEGORY\n")
	for i := range resp.Records {
		r := &resp.Records[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\n",
			r.SKU,
			r.Name,
			formatPrice(r.Price),
			formatPrice(r.SalePrice),
			r.CategoryPathString(),
		)
	}
	if err := tw.finish(); err != nil {
		return err
	}

	fmt.Printf("\n%d records", len(resp.Records))
	if resp.UnmatchedSKUs > 0 {
		fmt.Printf(", %d SKUs not found", resp.UnmatchedSKUs)
	}
	if resp.SkippedRecords > 0 {
		fmt.Printf(", %d malformed items skipped", resp.SkippedRecords)
	}
	fmt.Println()

	if resp.Incomplete != nil {
		fmt.Printf("WARNING: partial result: %s", resp.Incomplete.Reason)
		if resp.Incomplete.Page > 0 {
			fmt.Printf(" (page %d)", resp.Incomplete.Page)
		}
		if resp.Incomplete.Batch > 0 {
			fmt.Printf(" (batch %d)", resp.Incomplete.Batch)
		}
		fmt.Println()
	}

	return nil
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *p)
}

// exportToFile runs the query through the export endpoint and writes the CSV
// to path.
func exportToFile(cmd *cobra.Command, req domain.QueryRequest, path string) error {
	f, err := os.Create(path) //nolint:gosec // output path from user flag
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := newClient().ExportCSV(cmd.Context(), req, f); err != nil {
		return err
	}

	fmt.Println("wrote", path)
	return nil
}
