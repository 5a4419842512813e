package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/donaldgifford/relister/internal/api/handlers"
	"github.com/donaldgifford/relister/internal/pipeline"
	domain "github.com/donaldgifford/relister/pkg/types"
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

func printPhotoTable(photos []domain.PhotoRecord) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tFILENAME\tORDER\tSKU\tSTATUS\tITEM\n")
	for i := range photos {
		p := &photos[i]
		sku := "-"
		if p.SKU != nil {
			sku = *p.SKU
		}
		item := "-"
		if p.ItemID != nil {
			item = *p.ItemID
		}
		tw.writef("%s\t%s\t%d\t%s\t%s\t%s\n",
			p.ID, p.Filename, p.UploadOrder, sku, p.Status, item)
	}
	return tw.finish()
}

func printGroupTable(groups []handlers.GroupSummary) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SKU\tPHOTOS\tSTATUS\tTITLE\tITEM\n")
	for i := range groups {
		g := &groups[i]
		item := "-"
		if g.ItemID != "" {
			item = g.ItemID
		}
		tw.writef("%s\t%d\t%s\t%s\t%s\n",
			g.SKU, g.PhotoCount, g.Status, truncate(g.Title, 40), item)
	}
	return tw.finish()
}

func printItemTable(items []domain.GeneratedItem) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tSKU\tTITLE\tPRICE\tCATEGORY\tCONDITION\tSTATUS\n")
	for i := range items {
		it := &items[i]
		tw.writef("%s\t%s\t%s\t$%.2f\t%s\t%s\t%s\n",
			it.ID, it.SKU, truncate(it.Title, 40),
			it.Price, it.Category, it.Condition, it.Status)
	}
	return tw.finish()
}

func printItemDetail(it *domain.GeneratedItem) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", it.ID)
	tw.writef("SKU:\t%s\n", it.SKU)
	tw.writef("Title:\t%s\n", it.Title)
	tw.writef("Price:\t$%.2f\n", it.Price)
	tw.writef("Category:\t%s\n", it.Category)
	tw.writef("Condition:\t%s\n", it.Condition)
	if it.Brand != "" {
		tw.writef("Brand:\t%s\n", it.Brand)
	}
	if it.Size != "" {
		tw.writef("Size:\t%s\n", it.Size)
	}
	if it.Color != "" {
		tw.writef("Color:\t%s\n", it.Color)
	}
	if it.ModelNumber != "" {
		tw.writef("Model:\t%s\n", it.ModelNumber)
	}
	if len(it.Keywords) > 0 {
		tw.writef("Keywords:\t%s\n", strings.Join(it.Keywords, ", "))
	}
	tw.writef("Confidence:\t%.2f\n", it.Confidence)
	tw.writef("Photos:\t%d\n", len(it.PhotoRefs))
	tw.writef("Status:\t%s\n", it.Status)
	if it.GenerationError != "" {
		tw.writef("Error:\t%s\n", it.GenerationError)
	}
	tw.writef("Description:\t%s\n", truncate(it.Description, 200))
	return tw.finish()
}

func printResultTable(results []pipeline.Result) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SKU\tSTATUS\tITEM\tERROR\n")
	for i := range results {
		r := &results[i]
		item := "-"
		if r.ItemID != "" {
			item = r.ItemID
		}
		errText := "-"
		if r.Error != "" {
			errText = truncate(r.Error, 60)
		}
		tw.writef("%s\t%s\t%s\t%s\n", r.SKU, r.Status, item, errText)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
