package apiclient

import (
	"encoding/json"
	"net/http"
	"strings"
)

type validationIssue struct {
	Msg string `json:"msg"`
}

// errorDetail pulls the human-readable message out of a hospital API error
// body. The API answers {"detail": "..."} or, for validation failures,
// {"detail": [{"msg": "..."}, ...]}.
func errorDetail(resp *Response) string {
	fallback := http.StatusText(resp.StatusCode)
	if fallback == "" {
		fallback = "unexpected response"
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return fallback
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil && strings.TrimSpace(text) != "" {
		return text
	}

	var issues []validationIssue
	if err := json.Unmarshal(envelope.Detail, &issues); err == nil && len(issues) > 0 {
		messages := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg != "" {
				messages = append(messages, issue.Msg)
			}
		}
		if len(messages) > 0 {
			return strings.Join(messages, "; ")
		}
	}

	return fallback
}
