package utils

import (
	"encoding/json"
	"errors"
	"fmt"
)

// UnmarshalResponse decodes a hypr or snapshot json payload into v.
func UnmarshalResponse[T any](response []byte, v *T) error {
	if len(response) == 0 {
		return errors.New("empty json response")
	}
	if err := json.Unmarshal(response, v); err != nil {
		return fmt.Errorf("error while unmarshal: %w, response: %s", err, response)
	}
	return nil
}
