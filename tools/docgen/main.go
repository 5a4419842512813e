// Package main generates CLI reference documentation from the rls command
// tree, one markdown page per command plus an index linking them together.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra/doc"

	"github.com/donaldgifford/relister/cmd/rls/cmd"
)

const generatedNote = "<!-- Generated by tools/docgen. DO NOT EDIT. -->\n\n"

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	if err := os.MkdirAll(*output, 0o750); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	prepender := func(string) string { return generatedNote }
	linkHandler := func(name string) string { return name }

	if err := doc.GenMarkdownTreeCustom(root, *output, prepender, linkHandler); err != nil {
		log.Fatalf("generating docs: %v", err)
	}

	if err := writeIndex(*output); err != nil {
		log.Fatalf("writing index: %v", err)
	}

	fmt.Printf("CLI docs generated in %s/\n", *output)
}

// writeIndex produces a README listing every generated command page.
func writeIndex(dir string) error {
	pages, err := filepath.Glob(filepath.Join(dir, "rls*.md"))
	if err != nil {
		return err
	}
	sort.Strings(pages)

	var b strings.Builder
	b.WriteString(generatedNote)
	b.WriteString("# rls command reference\n\n")
	for _, page := range pages {
		name := filepath.Base(page)
		title := strings.ReplaceAll(strings.TrimSuffix(name, ".md"), "_", " ")
		fmt.Fprintf(&b, "- [%s](%s)\n", title, name)
	}

	return os.WriteFile(filepath.Join(dir, "README.md"), []byte(b.String()), 0o600)
}
