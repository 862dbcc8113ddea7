package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"step-bot/internal/domain/entity"
)

var analyzeOutput string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [step-file]",
	Short: "Analyze a STEP file and print the result",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		validFormats := []string{"text", "json"}
		if !slices.Contains(validFormats, analyzeOutput) {
			return fmt.Errorf("invalid output format: %s. Valid options: %v", analyzeOutput, validFormats)
		}

		if _, err := os.Stat(args[0]); os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", args[0])
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildRuntime(false, false)
		if err != nil {
			return err
		}
		defer svc.close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		rec, err := svc.container.AnalysisService.Analyze(cmd.Context(), 0, filepath.Base(args[0]), data)
		if err != nil {
			return err
		}

		if err := printResult(cmd.OutOrStdout(), rec.Result, analyzeOutput); err != nil {
			return err
		}
		return rec.Result.Err()
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "text", "Output format")
	analyzeCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func printResult(w io.Writer, r entity.AnalysisResult, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	_, err := fmt.Fprintln(w, renderResult(r))
	return err
}

// renderResult строит текстовый отчёт для терминала.
func renderResult(r entity.AnalysisResult) string {
	title := TitleStyle.Render(r.Filename)
	if !r.Success {
		return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, WarningStyle.Render("✗ "+r.Error)))
	}

	box := r.BoundingBox
	f := r.Features
	rows := []string{
		title,
		GoodStyle.Render("✓ geometry found"),
		"",
		row("Size", fmt.Sprintf("%s × %s × %s", num(box.Width), num(box.Height), num(box.Depth))),
		row("Min", fmt.Sprintf("(%s, %s, %s)", num(box.MinX), num(box.MinY), num(box.MinZ))),
		row("Max", fmt.Sprintf("(%s, %s, %s)", num(box.MaxX), num(box.MaxY), num(box.MaxZ))),
		row("Parts", strconv.Itoa(r.PartsCount)),
		row("Holes", fmt.Sprintf("%s (circles: %d)", flag(f.HasHoles()), f.HoleCount)),
		row("Fillets", flag(f.HasFillets)),
		row("Chamfers", flag(f.HasChamfers)),
		row("Surfaces", strconv.Itoa(f.SurfaceCount)),
		"",
		MutedStyle.Render("fillets and chamfers are keyword heuristics"),
	}
	return BoxStyle.Render(strings.Join(rows, "\n"))
}

func row(label, value string) string {
	return LabelStyle.Render(label) + value
}

func flag(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
