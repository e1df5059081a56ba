package ingest

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/goliatone/go-cmdform/pkg/schema"
)

// ErrInvalidContent wraps format errors reported by Validate.
var ErrInvalidContent = errors.New("ingest: invalid file content")

// Validate checks content against the format the field's picker accepts:
// TOML for config files and JSON otherwise.
func Validate(fieldID string, content []byte) error {
	switch schema.AcceptFor(fieldID) {
	case ".toml":
		var doc map[string]any
		if _, err := toml.Decode(string(content), &doc); err != nil {
			return fmt.Errorf("%w: %s is not TOML: %v", ErrInvalidContent, fieldID, err)
		}
	default:
		var doc any
		if err := json.Unmarshal(content, &doc); err != nil {
			return fmt.Errorf("%w: %s is not JSON: %v", ErrInvalidContent, fieldID, err)
		}
	}
	return nil
}
