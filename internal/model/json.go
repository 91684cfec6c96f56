package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue and jsonScan back the JSONB columns used for nested plan and
// session documents. Postgres hands JSONB back as []byte; everything is
// round-tripped through encoding/json.

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb value: %w", err)
	}
	return b, nil
}

func jsonScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unexpected jsonb source type %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
