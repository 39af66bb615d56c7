package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/NielsdaWheelz/wsgen/internal/catalog"
)

// BundleSummary is one catalog entry in `wsgen catalog` output.
type BundleSummary struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Choice      string   `json:"choice"`
	TargetKinds []string `json:"target_kinds"`
	Runtimes    []string `json:"runtimes"`
	Files       []string `json:"files"`
}

// ConfigSummary is one shared config definition.
type ConfigSummary struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Base     bool   `json:"base"`
	File     string `json:"file"`
}

// CatalogListing is the public contract for `wsgen catalog --json`.
type CatalogListing struct {
	Bundles []BundleSummary `json:"bundles"`
	Configs []ConfigSummary `json:"configs"`
}

// NewCatalogListing summarizes cat, optionally restricted to one category.
func NewCatalogListing(cat *catalog.Catalog, only catalog.Category) CatalogListing {
	out := CatalogListing{Bundles: []BundleSummary{}, Configs: []ConfigSummary{}}
	for _, b := range cat.Bundles() {
		if only != "" && b.Category != only {
			continue
		}
		s := BundleSummary{
			ID:          b.ID,
			Category:    string(b.Category),
			Choice:      b.Choice,
			TargetKinds: append([]string{}, b.TargetKinds...),
			Runtimes:    []string{},
			Files:       []string{},
		}
		for _, rt := range b.Runtimes {
			s.Runtimes = append(s.Runtimes, string(rt))
		}
		for _, f := range b.Files {
			s.Files = append(s.Files, f.Path)
		}
		out.Bundles = append(out.Bundles, s)
	}
	if only == "" {
		for _, d := range cat.Configs() {
			out.Configs = append(out.Configs, ConfigSummary{ID: d.ID, Category: string(d.Category), Base: d.Base, File: d.File})
		}
	}
	return out
}

// WriteCatalogHuman writes the listing as tables.
func WriteCatalogHuman(w io.Writer, l CatalogListing) error {
	data := pterm.TableData{{"BUNDLE", "TARGETS", "RUNTIMES", "FILES"}}
	for _, b := range l.Bundles {
		data = append(data, []string{b.ID, orAny(b.TargetKinds), orAny(b.Runtimes), fmt.Sprint(len(b.Files))})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}
	if len(l.Configs) == 0 {
		return nil
	}

	data = pterm.TableData{{"CONFIG", "FILE", "BASE"}}
	for _, c := range l.Configs {
		base := ""
		if c.Base {
			base = "yes"
		}
		data = append(data, []string{c.ID, c.File, base})
	}
	table, err = pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, "\n"+table)
	return err
}

func orAny(v []string) string {
	if len(v) == 0 {
		return "any"
	}
	return strings.Join(v, ",")
}
