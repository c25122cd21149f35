// Package notifications provides notifications through dbus
package notifications

import (
	"fmt"
	"strings"

	"github.com/TheCreeper/go-notify"
	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/layout"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
)

type Service struct {
	config *config.Config
	hints  map[string]interface{}
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		hints: map[string]interface{}{
			"synchronous":       "hyprautolayout",
			"x-dunst-stack-tag": "hyprautolayout",
		},
	}
}

// Message builds the summary and body shown for an applied layout.
func Message(cfg *layout.Config, destination string) (string, string) {
	enabled := []string{}
	for _, output := range cfg.EnabledOutputs() {
		enabled = append(enabled, output.Name)
	}

	summary := "Display layout applied"
	if cfg.Origin != layout.UnknownOrigin {
		summary = "Display layout applied (" + cfg.Origin.Value() + ")"
	}
	body := "Enabled: " + strings.Join(enabled, ", ")
	if len(enabled) == 0 {
		body = "No outputs enabled"
	}
	return summary, body + "\nUpdated " + destination
}

func (s *Service) NotifyLayoutApplied(cfg *layout.Config, dryRun bool) error {
	appCfg := s.config.Get()
	if *appCfg.Notifications.Disabled {
		logrus.Debug("notifications are not enabled, not sending")
		return nil
	}

	summary, body := Message(cfg, *appCfg.General.Destination)
	if dryRun {
		logrus.WithFields(utils.WithLogID(logrus.Fields{
			"summary": summary,
			"body":    body,
		}, utils.DryRunLogID)).Info("[DRY RUN] Would send a notification")
		return nil
	}

	ntf := notify.NewNotification(summary, body)
	ntf.Timeout = *appCfg.Notifications.TimeoutMs
	ntf.Hints = s.hints

	if _, err := ntf.Show(); err != nil {
		return fmt.Errorf("cant send notification for the %s layout: %w", cfg.Origin.Value(), err)
	}
	return nil
}
