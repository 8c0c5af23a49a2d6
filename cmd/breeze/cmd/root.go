// Package cmd implements the breeze CLI commands.
//
// Every command loads a scene document, builds it under a headless host and
// drives it through the app tick loop. Window and render settings come from
// breeze.yaml in the project directory, overridden by BREEZE_* environment
// variables and then by flags.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-breeze/breeze/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "breeze",
		Short: "Breeze - a retained-mode UI engine",
		Long: `Breeze lays out and renders element trees described by YAML scene
documents. Scenes run on a headless surface: render writes a PNG, layout
prints the resolved rectangles and serve keeps the tick loop running behind
an HTTP debug server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			errors.SetHandler(&errors.LogHandler{
				Verbose: viper.GetBool("verbose"),
				Out:     cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("project", "p", ".", "project directory holding breeze.yaml")
	flags.Bool("json", false, "output JSON")
	flags.BoolP("verbose", "v", false, "verbose error output with stack traces")
	flags.Float64("width", 0, "surface width (overrides config)")
	flags.Float64("height", 0, "surface height (overrides config)")
	flags.Float64("scale", 0, "pixels per surface unit (overrides config)")
	flags.String("clear-color", "", "background colour as #RRGGBB or #AARRGGBB")
	flags.Bool("debug-bounds", false, "outline and label every filled rectangle")
	flags.Bool("capture-traces", false, "record creation stack traces of dispatcher operations")
	for _, name := range []string{"project", "json", "verbose", "width", "height", "scale", "clear-color", "debug-bounds", "capture-traces"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(renderCmd())
	root.AddCommand(layoutCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}

func initConfig() {
	viper.SetEnvPrefix("BREEZE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the CLI with os.Args.
func Execute() error {
	cobra.OnInitialize(initConfig)
	return NewRootCommand().Execute()
}
