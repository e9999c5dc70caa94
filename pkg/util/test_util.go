package util

import (
	"bytes"
	"encoding/json"
	"io"
)

// StructToJSONReader marshals data and wraps it in a reader suitable
// for an HTTP request body. Marshal failures yield a nil reader.
func StructToJSONReader(data interface{}) io.Reader {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return bytes.NewReader(jsonBytes)
}

// StructToJSON marshals data to a JSON string, or "" if it cannot be
// marshaled.
func StructToJSON(data interface{}) string {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(jsonBytes)
}
