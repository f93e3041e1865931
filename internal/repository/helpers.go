package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forgo/notes/api/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique constraint violation
// or one of the THROWs used by conditional writes
func isUniqueConstraintError(err error) bool {
	return database.IsDuplicate(err)
}

// recordID converts a "table:key" string into a record id in table. A bare
// key is placed in table. An id naming another table, or carrying no key,
// does not resolve.
func recordID(table, id string) (models.RecordID, bool) {
	key := id
	if tb, k, found := strings.Cut(id, ":"); found {
		if tb != table {
			return models.RecordID{}, false
		}
		key = k
	}
	key = strings.Trim(key, "⟨⟩`")
	if key == "" {
		return models.RecordID{}, false
	}
	return models.RecordID{Table: table, ID: key}, true
}

// recordIDs converts a list of ids into record ids in table, dropping the
// ones that do not resolve
func recordIDs(table string, ids []string) []models.RecordID {
	out := make([]models.RecordID, 0, len(ids))
	for _, id := range ids {
		if rid, ok := recordID(table, id); ok {
			out = append(out, rid)
		}
	}
	return out
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	if str, ok := id.(string); ok {
		return str
	}

	if rid, ok := id.(models.RecordID); ok {
		return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
	}
	if rid, ok := id.(*models.RecordID); ok && rid != nil {
		return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
	}

	// Handle map format: {"tb": "user", "id": {"String": "demo"}} or similar
	if m, ok := id.(map[string]interface{}); ok {
		tb := ""
		idPart := ""

		if t, ok := m["tb"].(string); ok {
			tb = t
		} else if t, ok := m["Table"].(string); ok {
			tb = t
		}

		if idVal, ok := m["id"]; ok {
			idPart = extractIDValue(idVal)
		} else if idVal, ok := m["ID"]; ok {
			idPart = extractIDValue(idVal)
		}

		if tb != "" && idPart != "" {
			return tb + ":" + idPart
		}
		if idPart != "" {
			return idPart
		}
	}

	if id == nil {
		return ""
	}
	return fmt.Sprintf("%v", id)
}

// extractIDValue extracts the ID value which may be nested
func extractIDValue(val interface{}) string {
	if str, ok := val.(string); ok {
		return str
	}
	if m, ok := val.(map[string]interface{}); ok {
		if s, ok := m["String"].(string); ok {
			return s
		}
		if s, ok := m["string"].(string); ok {
			return s
		}
	}
	return fmt.Sprintf("%v", val)
}

// parseTime parses time from the formats the driver may hand back
func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}

// extractQueryResults extracts the record array of the first statement
func extractQueryResults(results []interface{}) []interface{} {
	if len(results) == 0 {
		return nil
	}
	if first, ok := results[0].(map[string]interface{}); ok {
		if arr, ok := first["result"].([]interface{}); ok {
			return arr
		}
		if _, wrapped := first["status"]; wrapped {
			return nil
		}
	}
	return results
}

// lastRecord returns the first record produced by the last statement that
// produced any records. Transaction batches answer with one result per
// statement and the interesting one (CREATE) comes last.
func lastRecord(results []interface{}) (map[string]interface{}, error) {
	for i := len(results) - 1; i >= 0; i-- {
		resp, ok := results[i].(map[string]interface{})
		if !ok {
			continue
		}
		arr, ok := resp["result"].([]interface{})
		if !ok || len(arr) == 0 {
			continue
		}
		if rec, ok := arr[0].(map[string]interface{}); ok {
			return rec, nil
		}
	}
	return nil, errors.New("no record returned")
}

// unwrapRecord turns a QueryOne result into a record map
func unwrapRecord(result interface{}) (map[string]interface{}, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}
	return data, nil
}

// extractCount extracts count from a `SELECT count() AS count ... GROUP ALL` record
func extractCount(result interface{}) int {
	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "count")
	}
	return 0
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case float32:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case uint32:
		return int(v)
	}
	return 0
}

// getBool extracts a bool value from a map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// getStringSlice extracts a string slice from a map
func getStringSlice(m map[string]interface{}, key string) []string {
	switch v := m[key].(type) {
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	case []string:
		return v
	}
	return nil
}
