package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	exportDivider = "\n\n--------------------------------------------------------------\n\n"
	exportBanner  = "========================================"
)

// ExportJSON renders the conversation as a pretty-printed array of
// {role, content} objects. Parsing the output back yields the exact turn
// sequence that was exported.
func ExportJSON(turns []ChatTurn) ([]byte, error) {
	data, err := json.MarshalIndent(turns, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding chat history: %w", err)
	}
	return data, nil
}

// ExportText renders the conversation as plain text: turns joined by a
// fixed divider, wrapped in the header/footer banner.
func ExportText(turns []ChatTurn) string {
	lines := make([]string, len(turns))
	for i, turn := range turns {
		speaker := "AI"
		if turn.Role == RoleUser {
			speaker = "User"
		}
		lines[i] = fmt.Sprintf("%s: %s", speaker, turn.Content)
	}

	return fmt.Sprintf("Chat History:\n%s\n\n%s\n\n%s\nEnd of Chat",
		exportBanner, strings.Join(lines, exportDivider), exportBanner)
}
