package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/go-breeze/breeze/pkg/app"
	"github.com/go-breeze/breeze/pkg/config"
	"github.com/go-breeze/breeze/pkg/controls"
	"github.com/go-breeze/breeze/pkg/platform"
	"github.com/go-breeze/breeze/pkg/render"
	"github.com/go-breeze/breeze/pkg/scene"
)

// loadSettings resolves breeze.yaml from the project directory with
// environment and flag overrides applied.
func loadSettings() (*config.Resolved, error) {
	root, err := config.FindProjectRoot(viper.GetString("project"))
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOptional(root)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg)
	return cfg.Resolve(root)
}

func applyOverrides(cfg *config.Config) {
	if v := viper.GetFloat64("width"); v != 0 {
		cfg.Window.Width = v
	}
	if v := viper.GetFloat64("height"); v != 0 {
		cfg.Window.Height = v
	}
	if v := viper.GetFloat64("scale"); v != 0 {
		cfg.Render.Scale = v
	}
	if v := viper.GetString("clear-color"); v != "" {
		cfg.Render.ClearColor = v
	}
	if viper.GetBool("debug-bounds") {
		cfg.Render.DebugBounds = true
	}
	if viper.GetBool("capture-traces") {
		cfg.Dispatcher.CaptureTraces = true
	}
	if v := viper.GetString("addr"); v != "" {
		cfg.Debug.Addr = v
	}
}

// session is a scene loaded under a headless host.
type session struct {
	settings *config.Resolved
	app      *app.App
	platform *platform.Headless
	host     *controls.Host
	tree     *scene.Tree
}

// openScene loads path and builds it under a host bound to a new app drawing
// on the backend returned by newBackend. The app belongs to the calling
// goroutine.
func openScene(path string, newBackend func(*config.Resolved) render.Backend) (*session, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	doc, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	tree, err := scene.Build(doc)
	if err != nil {
		return nil, err
	}

	// Explicit flags and environment beat the document, which beats
	// breeze.yaml.
	size := doc.Size(settings.Size())
	if viper.GetFloat64("width") != 0 {
		size.Width = settings.Width
	}
	if viper.GetFloat64("height") != 0 {
		size.Height = settings.Height
	}
	title := doc.Title
	if title == "" {
		title = settings.Title
	}

	headless := platform.NewHeadless(size.Width, size.Height)
	a, err := app.New(app.Options{
		Platform:      headless,
		Backend:       newBackend(settings),
		CaptureTraces: settings.CaptureTraces,
	})
	if err != nil {
		return nil, err
	}

	host := controls.NewHost(a, title, size.Width, size.Height)
	host.SetContent(tree.Root)
	a.SetRoot(host)

	return &session{settings: settings, app: a, platform: headless, host: host, tree: tree}, nil
}

func newRaster(settings *config.Resolved) *render.Raster {
	return render.NewRaster(render.RasterOptions{
		Background:  settings.ClearColor,
		Scale:       settings.Scale,
		DebugBounds: settings.DebugBounds,
	})
}

// frame shows the host and runs one tick.
func (s *session) frame() error {
	s.host.Show()
	if err := s.app.Tick(); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	return nil
}
