package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON maps onto a jsonb column. Transaction metadata uses it for
// values that belong on the record but not in the schema, such as the
// threshold that suspended a transfer.
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}
