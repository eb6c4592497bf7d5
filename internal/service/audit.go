package service

import "encoding/json"

// auditJSON encodes small audit payloads; nil or empty maps yield nil.
func auditJSON(values map[string]string) []byte {
	if len(values) == 0 {
		return nil
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return payload
}
