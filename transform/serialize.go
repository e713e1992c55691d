package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spetersoncode/lessonflow/config"
	"github.com/tidwall/gjson"
)

// Serialize renders a step value as file content in the given format.
func Serialize(content any, format config.FileFormat) ([]byte, error) {
	switch format {
	case config.FileText, config.FileMarkdown, "":
		return []byte(asText(content)), nil
	case config.FileJSON:
		return asJSON(content)
	case config.FileHTML:
		return []byte(MarkdownToHTML(asText(content))), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

func asText(content any) string {
	switch v := content.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case []string:
		return strings.Join(v, "\n")
	case []any:
		lines := make([]string, len(v))
		for i, item := range v {
			lines[i] = asText(item)
		}
		return strings.Join(lines, "\n")
	case map[string]any:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
	return fmt.Sprint(content)
}

func asJSON(content any) ([]byte, error) {
	if s, ok := content.(string); ok && gjson.Valid(s) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
			return nil, fmt.Errorf("indent json: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return data, nil
}
