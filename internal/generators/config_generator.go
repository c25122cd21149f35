// Package generators renders layouts into Hyprland configuration files.
package generators

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/device"
	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
)

//go:embed default.conf.tmpl
var defaultTemplate string

type ConfigGenerator struct {
	cfg *config.Config
}

func NewConfigGenerator(cfg *config.Config) *ConfigGenerator {
	return &ConfigGenerator{cfg: cfg}
}

func (g *ConfigGenerator) templateContent() (string, error) {
	templatePath := g.cfg.Get().General.Template
	if templatePath == nil {
		return defaultTemplate, nil
	}

	//nolint:gosec
	content, err := os.ReadFile(*templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", *templatePath, err)
	}
	return string(content), nil
}

// Render returns the monitor configuration for cfg without touching the disk.
func (g *ConfigGenerator) Render(cfg *layout.Config, state device.State) ([]byte, error) {
	if cfg == nil {
		return nil, layout.ErrNilConfig
	}

	content, err := g.templateContent()
	if err != nil {
		return nil, err
	}

	funcMap := template.FuncMap{
		"isLidClosed": func() bool {
			return state.LidClosed
		},
		"isDocked": func() bool {
			return state.Docked
		},
		"isLaptop": func() bool {
			return state.Laptop
		},
	}

	tmpl, err := template.New("monitors").Funcs(funcMap).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	data := newTemplateData(cfg, state)
	logrus.WithFields(logrus.Fields{
		"outputs": len(data.Outputs),
		"origin":  data.Origin,
	}).Debug("Template data prepared")

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	if !bytes.HasSuffix(rendered.Bytes(), []byte("\n")) {
		rendered.WriteString("\n")
	}
	return rendered.Bytes(), nil
}

// GenerateConfig renders cfg into the destination file and reports whether
// the file changed.
func (g *ConfigGenerator) GenerateConfig(cfg *layout.Config, state device.State, destination string,
	dryRun bool,
) (bool, error) {
	rendered, err := g.Render(cfg, state)
	if err != nil {
		return false, err
	}

	//nolint:gosec
	if existingContent, err := os.ReadFile(destination); err == nil {
		if bytes.Equal(existingContent, rendered) {
			logrus.WithField("destination", destination).Debug("Content unchanged, skipping write")
			return false, nil
		}
	}

	if dryRun {
		logrus.WithFields(logrus.Fields{
			"destination": destination,
			"log_id":      utils.DryRunLogID,
		}).Info("[DRY RUN] Would write monitor configuration")
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o750); err != nil {
		return false, fmt.Errorf("cant create destination dir: %w", err)
	}
	if err := utils.WriteAtomic(destination, rendered); err != nil {
		return false, fmt.Errorf("cant write %s: %w", destination, err)
	}

	logrus.WithField("destination", destination).Info("Successfully rendered monitor configuration")
	return true, nil
}
