package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-breeze/breeze/pkg/config"
	"github.com/go-breeze/breeze/pkg/debugserver"
	"github.com/go-breeze/breeze/pkg/layout"
	"github.com/go-breeze/breeze/pkg/render"
)

// layoutRow is one element of the layout listing.
type layoutRow struct {
	Depth  int     `json:"depth"`
	Type   string  `json:"type"`
	ID     string  `json:"id,omitempty"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func layoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout <scene.yaml>",
		Short: "Lay a scene out and print every element rectangle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openScene(args[0], func(*config.Resolved) render.Backend {
				return &render.Recorder{}
			})
			if err != nil {
				return err
			}
			if err := s.frame(); err != nil {
				return err
			}

			if viper.GetBool("json") {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(debugserver.Snapshot(s.host))
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Element", "ID", "Left", "Top", "Width", "Height"})
			for _, r := range layoutRows(s.host) {
				tw.AppendRow(table.Row{
					strings.Repeat("  ", r.Depth) + r.Type, r.ID,
					formatFloat(r.Left), formatFloat(r.Top), formatFloat(r.Width), formatFloat(r.Height),
				})
			}
			tw.Render()
			return nil
		},
	}
}

func layoutRows(root layout.Element) []layoutRow {
	var rows []layoutRow
	layout.Walk(root, func(e layout.Element, depth int) bool {
		r := e.LayoutRect()
		rows = append(rows, layoutRow{
			Depth:  depth,
			Type:   e.DependencyType().Name(),
			ID:     e.ID(),
			Left:   r.Left,
			Top:    r.Top,
			Width:  r.Width(),
			Height: r.Height(),
		})
		return true
	})
	return rows
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
