package apiclient

import "github.com/ahmadqo/campus-console/internal/model"

// arrayKeys is the order in which wrapped list responses are searched.
var arrayKeys = []string{"data", "items", "results", "records", "rows"}

// PickArray extracts the record list from a loosely shaped list response.
//
// Precedence:
//  1. the body itself when it is a JSON array
//  2. the first array found under data, items, results, records, rows
//  3. the same keys one level down inside an object under "data"
//  4. otherwise an empty list
//
// Non-object array elements are skipped.
func PickArray(body any) []model.Record {
	if arr, ok := body.([]any); ok {
		return toRecords(arr)
	}

	obj, ok := body.(map[string]any)
	if !ok {
		return []model.Record{}
	}

	for _, key := range arrayKeys {
		if arr, ok := obj[key].([]any); ok {
			return toRecords(arr)
		}
	}

	if inner, ok := obj["data"].(map[string]any); ok {
		for _, key := range arrayKeys {
			if arr, ok := inner[key].([]any); ok {
				return toRecords(arr)
			}
		}
	}

	return []model.Record{}
}

// PickObject extracts a single record, unwrapping {"data": {...}} when
// present. Anything that is not an object yields nil.
func PickObject(body any) model.Record {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil
	}
	if inner, ok := obj["data"].(map[string]any); ok {
		return model.Record(inner)
	}
	return model.Record(obj)
}

func toRecords(arr []any) []model.Record {
	out := make([]model.Record, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, model.Record(m))
		}
	}
	return out
}
