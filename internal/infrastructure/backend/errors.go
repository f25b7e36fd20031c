package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

const maxErrorBody = 64 << 10

// decodeError reads the structured error body. Messages are looked up in
// detail, error, message, non_field_errors and details, in that order; a body
// of per-field errors is flattened; anything else gets a generic message.
func decodeError(resp *http.Response) *domain.BackendError {
	apiErr := &domain.BackendError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("Request failed with status %d", resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}

	if code, ok := stringValue(body["code"]); ok {
		apiErr.Code = code
	}
	for _, key := range []string{"detail", "error", "message", "non_field_errors", "details"} {
		if msg, ok := stringValue(body[key]); ok && msg != "" {
			apiErr.Message = msg
			return apiErr
		}
	}

	fields := make(map[string]string)
	for k, v := range body {
		if k == "code" {
			continue
		}
		if msg, ok := stringValue(v); ok && msg != "" {
			fields[k] = msg
		}
	}
	if len(fields) > 0 {
		apiErr.Fields = fields
		apiErr.Message = flattenFields(fields)
	}
	return apiErr
}

// stringValue accepts a JSON string or a list whose first element is one.
func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0], true
	}
	return "", false
}

func flattenFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}
