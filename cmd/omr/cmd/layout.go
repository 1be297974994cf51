package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/MeKo-Tech/omr/internal/layout"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// identityDump lists the identity bubbles with their labels.
type identityDump struct {
	Labels  []string        `yaml:"labels" json:"labels"`
	Bubbles []layout.Circle `yaml:"bubbles" json:"bubbles"`
}

// layoutDump is the geometry shared by the sheet generator and the reader.
// Bubble coordinates are PDF points with the origin at the bottom left;
// corner marks are y-down.
type layoutDump struct {
	PageWidth   float64                 `yaml:"page_width" json:"page_width"`
	PageHeight  float64                 `yaml:"page_height" json:"page_height"`
	CornerMarks [4][2]float64           `yaml:"corner_marks" json:"corner_marks"`
	Identity    map[string]identityDump `yaml:"identity" json:"identity"`
	Answers     *layout.Layout          `yaml:"answers" json:"answers"`
}

func newLayoutCommand(a *app) *cobra.Command {
	var (
		format    string
		questions int
		choices   int
	)

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the sheet geometry for a question and choice count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The sheet flags are bound to the scan command; fall back to
			// the loaded configuration when they are not given here.
			if !cmd.Flags().Changed("questions") {
				questions = a.cfg.Sheet.Questions
			}
			if !cmd.Flags().Changed("choices") {
				choices = a.cfg.Sheet.Choices
			}
			l, err := layout.New(questions, choices)
			if err != nil {
				return err
			}
			return writeLayout(cmd.OutOrStdout(), buildLayoutDump(l), format)
		},
	}

	layoutCmd.Flags().IntVar(&questions, "questions", 50, "number of questions on the sheet")
	layoutCmd.Flags().IntVar(&choices, "choices", 4, "answer choices per question (3-5)")
	layoutCmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml, json)")
	return layoutCmd
}

func buildLayoutDump(l *layout.Layout) layoutDump {
	return layoutDump{
		PageWidth:   layout.PageWidthPt,
		PageHeight:  layout.PageHeightPt,
		CornerMarks: layout.CornerMarkCenters(),
		Identity: map[string]identityDump{
			"grade":       {Labels: layout.GradeLabels(), Bubbles: layout.GradeBubbles()},
			"class":       {Labels: layout.ClassLabels(), Bubbles: layout.ClassBubbles()},
			"seat_top":    {Labels: layout.ClassLabels(), Bubbles: layout.SeatRow(true)},
			"seat_bottom": {Labels: layout.ClassLabels(), Bubbles: layout.SeatRow(false)},
		},
		Answers: l,
	}
}

func writeLayout(w io.Writer, d layoutDump, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	default:
		return fmt.Errorf("unsupported format %q (use yaml or json)", format)
	}
}
