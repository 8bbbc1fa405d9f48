package base

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/xnat/docsync/internal/config"
)

// Command is embedded by every docsync command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// Fs is where documents and configuration files are read and written.
	Fs afero.Fs
}

// NewCommand returns a Command sharing the root logger and UI.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Command{
		Log: log,
		UI:  ui,
		Fs:  afero.NewOsFs(),
	}
}

// LoadConfig loads the configuration at path, or the defaults when path is
// empty, and applies its log level to the root logger.
func (c *Command) LoadConfig(path string) (*config.Config, error) {
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}

	cfg, err := config.Load(c.Fs, path)
	if err != nil {
		return nil, err
	}
	c.Log.SetLevel(cfg.Level())

	if path != "" {
		c.Log.Debug("loaded configuration", "path", path)
	}
	return cfg, nil
}
