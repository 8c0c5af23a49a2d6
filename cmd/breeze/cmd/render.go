package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-breeze/breeze/pkg/config"
	"github.com/go-breeze/breeze/pkg/render"
)

func renderCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render <scene.yaml>",
		Short: "Render one frame of a scene to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raster *render.Raster
			s, err := openScene(args[0], func(settings *config.Resolved) render.Backend {
				raster = newRaster(settings)
				return raster
			})
			if err != nil {
				return err
			}
			if err := s.frame(); err != nil {
				return err
			}
			return writePNG(raster, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "frame.png", "output PNG path")
	return cmd
}

func writePNG(raster *render.Raster, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := raster.WritePNG(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
