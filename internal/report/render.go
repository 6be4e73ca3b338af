// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders and persists finalized acquisition reports.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

// Supported rendering formats.
const (
	FormatTable = "table"
	FormatText  = "text"
	FormatJSON  = "json"
)

// Render writes the report to w in the named format.
func Render(format string, r *types.AcquisitionReport, w io.Writer) error {
	switch format {
	case FormatTable, "":
		RenderTable(r, w)
		return nil
	case FormatText:
		RenderText(r, w)
		return nil
	case FormatJSON:
		return RenderJSON(r, w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// RenderTable writes a summary line and a per-document table.
func RenderTable(r *types.AcquisitionReport, w io.Writer) {
	fmt.Fprintf(w, "Run %s  class=%s  state=%s\n", r.RunID, r.ClassID, r.State)
	if r.AbortReason != "" {
		fmt.Fprintf(w, "Abort reason: %s\n", r.AbortReason)
	}
	fmt.Fprintf(w, "Discovered %d, downloaded %d, validated %d pass / %d fail\n\n",
		r.TotalDiscovered, r.TotalDownloaded, r.TotalValidatedPass, r.TotalValidatedFail)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Document", "Type", "Download", "Bytes", "Attempts", "Valid", "Detail"})

	for _, rec := range r.PerDocument {
		download, bytes, attempts := "pending", "", ""
		detail := rec.Document.SourceURL
		if rec.Download != nil {
			download = string(rec.Download.Status)
			attempts = fmt.Sprintf("%d", rec.Download.AttemptCount)
			if rec.Download.Status == types.DownloadSucceeded {
				bytes = fmt.Sprintf("%d", rec.Download.ByteSize)
			} else {
				detail = rec.Download.Error
			}
		}
		valid := ""
		if rec.Verdict != nil {
			if rec.Verdict.Passed {
				valid = "pass"
			} else {
				valid = "fail"
				detail = failedRuleSummary(rec.Verdict.FailedRules)
			}
		}
		t.AppendRow(table.Row{rec.Document.ID, rec.Document.FileTypeHint, download, bytes, attempts, valid, truncate(detail, 60)})
	}
	t.Render()

	for _, note := range r.SearchErrors {
		fmt.Fprintf(w, "search note: %s\n", note)
	}
}

// RenderText writes the plain-text report layout: one block per document.
func RenderText(r *types.AcquisitionReport, w io.Writer) {
	fmt.Fprintln(w, "DOCUMENT ACQUISITION REPORT")
	fmt.Fprintf(w, "Run: %s\nClass: %s\nState: %s\n", r.RunID, r.ClassID, r.State)
	if r.AbortReason != "" {
		fmt.Fprintf(w, "Abort reason: %s\n", r.AbortReason)
	}
	fmt.Fprintf(w, "Requested: %s\n", r.RequestedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Totals: discovered=%d downloaded=%d pass=%d fail=%d\n",
		r.TotalDiscovered, r.TotalDownloaded, r.TotalValidatedPass, r.TotalValidatedFail)
	fmt.Fprintln(w, strings.Repeat("=", 72))

	for i, rec := range r.PerDocument {
		fmt.Fprintf(w, "\nDocument #%d  %s\n", i+1, rec.Document.ID)
		fmt.Fprintln(w, strings.Repeat("-", 40))
		fmt.Fprintf(w, "URL: %s\n", rec.Document.SourceURL)
		if rec.Document.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", rec.Document.Title)
		}
		fmt.Fprintf(w, "File type: %s\n", rec.Document.FileTypeHint)
		if rec.Download != nil {
			fmt.Fprintf(w, "Download: %s (attempts: %d)\n", rec.Download.Status, rec.Download.AttemptCount)
			if rec.Download.LocalPath != "" {
				fmt.Fprintf(w, "Path: %s (%d bytes)\n", rec.Download.LocalPath, rec.Download.ByteSize)
			}
			if rec.Download.Error != "" {
				fmt.Fprintf(w, "Error: %s\n", rec.Download.Error)
			}
		}
		if rec.Verdict != nil {
			fmt.Fprintf(w, "Validated: %v\n", rec.Verdict.Passed)
			for _, f := range rec.Verdict.FailedRules {
				fmt.Fprintf(w, "  rule %s: %s\n", f.Rule, f.Reason)
			}
		}
	}
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(r *types.AcquisitionReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func failedRuleSummary(failures []types.RuleFailure) string {
	names := make([]string, len(failures))
	for i, f := range failures {
		names[i] = f.Rule
	}
	return "failed: " + strings.Join(names, ",")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
