package device

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	dmiPathEnvVarOverride = "HYPRAUTOLAYOUT_DMI_PATH_OVERRIDE"
	dmiPath               = "/sys/class/dmi/id/chassis_type"
)

// laptopLikeCodes are the SMBIOS chassis_type codes of portable devices.
var laptopLikeCodes = map[int]struct{}{
	8:  {}, // Portable
	9:  {}, // Laptop
	10: {}, // Notebook
	14: {}, // Sub Notebook
	31: {}, // Convertible
	32: {}, // Detachable
}

var chassisNames = map[string]int{
	"portable":     8,
	"laptop":       9,
	"notebook":     10,
	"sub-notebook": 14,
	"sub notebook": 14,
	"convertible":  31,
	"detachable":   32,
	"desktop":      3,
	"server":       17,
}

func readChassisType() (int, error) {
	path, ok := os.LookupEnv(dmiPathEnvVarOverride)
	if !ok {
		path = dmiPath
	}

	//nolint:gosec
	contents, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("cant read chassis type: %w", err)
	}
	value := strings.TrimSpace(string(contents))

	if code, err := strconv.Atoi(value); err == nil {
		return code, nil
	}
	return chassisNames[strings.ToLower(value)], nil
}

// detectLaptop reads the DMI chassis type of the machine.
func detectLaptop() (bool, error) {
	code, err := readChassisType()
	if err != nil {
		return false, err
	}
	_, ok := laptopLikeCodes[code]
	return ok, nil
}
