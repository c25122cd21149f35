// Package prepare resets the generated monitor rules before Hyprland starts.
package prepare

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/fiffeek/hyprautolayout/internal/config"
	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/sirupsen/logrus"
)

type Service struct {
	cfg                 *config.Config
	monitorDisableRegex *regexp.Regexp
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:                 cfg,
		monitorDisableRegex: regexp.MustCompile(`^\s*monitor\s*=.*,\s*disable\s*$`),
	}
}

// TruncateDestination drops the disable rules from the generated file. A
// layout written with the lid closed would otherwise start the next session
// without the embedded output, even when no external output is plugged in.
func (s *Service) TruncateDestination(dryRun bool) (int, error) {
	file := *s.cfg.Get().General.Destination
	contents, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		logrus.WithFields(logrus.Fields{"destination": file}).Info("Destination does not exist, nothing to prepare")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cant read the %s destination file: %w", file, err)
	}

	lines := strings.Split(string(contents), "\n")
	filteredLines := make([]string, 0, len(lines))
	for _, line := range lines {
		if s.monitorDisableRegex.MatchString(line) {
			logrus.WithFields(logrus.Fields{"line": line}).Info("Removing disable rule")
			continue
		}
		filteredLines = append(filteredLines, line)
	}

	removed := len(lines) - len(filteredLines)
	if removed == 0 {
		logrus.WithFields(logrus.Fields{"destination": file}).Debug("No disable rules found")
		return 0, nil
	}

	if dryRun {
		logrus.WithFields(utils.WithLogID(logrus.Fields{
			"destination": file,
			"removed":     removed,
		}, utils.DryRunLogID)).Info("[DRY RUN] Would remove disable rules")
		return removed, nil
	}

	if err := utils.WriteAtomic(file, []byte(strings.Join(filteredLines, "\n"))); err != nil {
		return 0, fmt.Errorf("cant write to %s destination file: %w", file, err)
	}
	return removed, nil
}
