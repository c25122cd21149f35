package testutils

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fiffeek/hyprautolayout/internal/utils"
	"github.com/stretchr/testify/assert"
)

type logline struct {
	LogID *utils.LogID `json:"log_id"`
}

// AssertLogsPresent checks that the json logs carry expectedIDs in order,
// other tagged lines may appear in between.
func AssertLogsPresent(t *testing.T, logs []byte, expectedIDs []utils.LogID) {
	if len(expectedIDs) == 0 {
		return
	}

	seenIDs := []utils.LogID{}
	for _, line := range strings.Split(string(logs), "\n") {
		var m logline
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			continue
		}
		if m.LogID != nil {
			seenIDs = append(seenIDs, *m.LogID)
		}
	}

	next := 0
	for _, id := range seenIDs {
		if next < len(expectedIDs) && id == expectedIDs[next] {
			next++
		}
	}
	assert.Equal(t, len(expectedIDs), next, "expected log ids %v in order, seen %v", expectedIDs, seenIDs)
}
