package display

import (
	"encoding/json"
	"os"
)

// CompactEnv switches JSON output to a single line, for piping into other tools
const CompactEnv = "KIN_JSON_COMPACT"

// MarshalJSON marshals JSON with pretty formatting, or compact when
// KIN_JSON_COMPACT is set
func MarshalJSON(v interface{}) ([]byte, error) {
	if os.Getenv(CompactEnv) != "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
