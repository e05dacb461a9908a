package weblog

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Report holds the results of one Analyze run.
type Report struct {
	RunID           string  `json:"run_id" yaml:"run_id"`
	Source          string  `json:"source,omitempty" yaml:"source,omitempty"`
	Encoding        string  `json:"encoding" yaml:"encoding"`
	Options         Options `json:"options" yaml:"options"`
	Stats           Stats   `json:"stats" yaml:"stats"`
	UniqueAddresses int     `json:"unique_addresses" yaml:"unique_addresses"`
	TopActive       []Rank  `json:"top_active" yaml:"top_active"`
	TopRoutes       []Rank  `json:"top_routes" yaml:"top_routes"`
	TopBy           []Rank  `json:"top_by,omitempty" yaml:"top_by,omitempty"`
}

// Output formats understood by Report.Write.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var headingColor = color.New(color.FgCyan, color.Bold)

// Write writes the report to w in the given format: FormatTable, FormatJSON,
// or FormatYAML.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatTable, "":
		return r.WriteTable(w)
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatYAML:
		return r.WriteYAML(w)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// WriteTable writes the report to w as human-readable text, with each ranking
// as a table.
func (r *Report) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Read %d lines: %d parsed, %d rejected, %d filtered\n",
		r.Stats.Lines, r.Stats.Parsed, r.Stats.Rejected, r.Stats.Filtered); err != nil {
		return err
	}
	if _, err := headingColor.Fprintf(w, "\nNumber of unique IP addresses: %d\n", r.UniqueAddresses); err != nil {
		return err
	}
	type section struct {
		heading string
		column  string
		ranks   []Rank
	}
	sections := []section{
		{fmt.Sprintf("Top '%d' most active IP addresses:", r.Options.TopActive), "IP", r.TopActive},
		{fmt.Sprintf("Top '%d' most visited URLs:", r.Options.TopRoutes), "URL", r.TopRoutes},
	}
	if r.Options.By != "" {
		sections = append(sections, section{fmt.Sprintf("Top '%d' values of %s:", r.Options.TopBy, r.Options.By), r.Options.By, r.TopBy})
	}
	for _, s := range sections {
		if _, err := headingColor.Fprintf(w, "\n%s\n", s.heading); err != nil {
			return err
		}
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Rank", s.column, "Count"})
		for _, rank := range s.ranks {
			table.Append([]string{strconv.Itoa(rank.Rank), rank.Key, strconv.Itoa(rank.Count)})
		}
		table.Render()
	}
	return nil
}

// WriteJSON writes the report to w as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML writes the report to w as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
