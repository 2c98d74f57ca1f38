package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flyrell/checkin/internal/calendar"
	"github.com/Flyrell/checkin/internal/report"
)

var exportFormats = []string{"pdf", "html", "md"}

var exportCmd = LeafCommand{
	Use:   "export",
	Short: "Export the check-in history as PDF, HTML or markdown",
	StrFlags: []StringFlag{
		{Name: "format", Shorthand: "f", Usage: "export format (pdf, html, md)", Default: "pdf"},
		{Name: "output", Shorthand: "o", Usage: "output file, '-' for stdout (default checkin-<date>.<format>)"},
		{Name: "title", Usage: "document title", Default: "Check-in ledger"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := homeDir()
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		title, _ := cmd.Flags().GetString("title")
		pk := NewPromptKit(isInteractive(cmd.InOrStdin(), cmd.OutOrStdout()))
		return runExport(cmd, home, format, output, title, pk, time.Now)
	},
}.Build()

func runExport(
	cmd *cobra.Command,
	homeDir, format, output, title string,
	pk PromptKit,
	nowFunc func() time.Time,
) error {
	switch format {
	case "pdf", "html", "md":
	default:
		return fmt.Errorf("unsupported export format %q (supported: %v)", format, exportFormats)
	}
	if format == "pdf" && output == "-" {
		return fmt.Errorf("pdf export needs an output file")
	}

	sess, err := openSession(cmd, homeDir)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	state, err := sess.load(cmd, pk, false)
	if err != nil {
		return err
	}

	data := report.BuildExport(state, sess.cfg, title)
	if output == "" {
		output = fmt.Sprintf("checkin-%s.%s", calendar.Format(calendar.Today(nowFunc())), format)
	}

	w := cmd.OutOrStdout()

	if format == "pdf" {
		if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
			return err
		}
		if err := renderExportPDF(data, output); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "exported %d check-ins to %s\n", len(state.History), Primary(output))
		return nil
	}

	var content []byte
	if format == "html" {
		raw, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return err
		}
		content, err = renderExportHTML(data, raw)
		if err != nil {
			return err
		}
	} else {
		content = []byte(report.Markdown(data))
	}

	if output == "-" {
		_, err := w.Write(content)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(output, content, 0644); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "exported %d check-ins to %s\n", len(state.History), Primary(output))
	return nil
}
