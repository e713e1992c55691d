package validation

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Validator inspects content and reports issues. Arg is the text after the
// colon in a "name:arg" reference, or "".
type Validator interface {
	Validate(ctx context.Context, content any, arg string, vars map[string]any) ([]Issue, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, content any, arg string, vars map[string]any) ([]Issue, error)

func (f ValidatorFunc) Validate(ctx context.Context, content any, arg string, vars map[string]any) ([]Issue, error) {
	return f(ctx, content, arg, vars)
}

var placeholderPattern = regexp.MustCompile(`(?i)(lorem ipsum|\[insert[^\]]*\]|\bTODO\b|\bTBD\b|\{\{[^}]*\}\})`)

func issue(name string, sev Severity, format string, args ...any) Issue {
	return Issue{Validator: name, Severity: sev, Message: fmt.Sprintf(format, args...)}
}

func textOf(content any) string {
	switch v := content.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case []string:
		return strings.Join(v, "\n")
	}
	return fmt.Sprint(content)
}

func intArg(name, arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("validator %s: invalid argument %q", name, arg)
	}
	return n, nil
}

func nonEmpty(_ context.Context, content any, _ string, _ map[string]any) ([]Issue, error) {
	empty := content == nil
	if !empty {
		rv := reflect.ValueOf(content)
		switch rv.Kind() {
		case reflect.String:
			empty = strings.TrimSpace(rv.String()) == ""
		case reflect.Slice, reflect.Map, reflect.Array:
			empty = rv.Len() == 0
		}
	}
	if empty {
		return []Issue{issue("non_empty", SeverityError, "content is empty")}, nil
	}
	return nil, nil
}

func validJSON(_ context.Context, content any, _ string, _ map[string]any) ([]Issue, error) {
	switch v := content.(type) {
	case map[string]any, []any:
		return nil, nil
	case string:
		if gjson.Valid(strings.TrimSpace(v)) {
			return nil, nil
		}
	}
	return []Issue{issue("valid_json", SeverityError, "content is not valid JSON")}, nil
}

func minLength(_ context.Context, content any, arg string, _ map[string]any) ([]Issue, error) {
	n, err := intArg("min_length", arg)
	if err != nil {
		return nil, err
	}
	if l := len([]rune(textOf(content))); l < n {
		return []Issue{issue("min_length", SeverityError, "content has %d characters, minimum is %d", l, n)}, nil
	}
	return nil, nil
}

func maxLength(_ context.Context, content any, arg string, _ map[string]any) ([]Issue, error) {
	n, err := intArg("max_length", arg)
	if err != nil {
		return nil, err
	}
	if l := len([]rune(textOf(content))); l > n {
		return []Issue{issue("max_length", SeverityError, "content has %d characters, maximum is %d", l, n)}, nil
	}
	return nil, nil
}

func minWords(_ context.Context, content any, arg string, _ map[string]any) ([]Issue, error) {
	n, err := intArg("min_words", arg)
	if err != nil {
		return nil, err
	}
	if w := len(strings.Fields(textOf(content))); w < n {
		return []Issue{issue("min_words", SeverityWarning, "content has %d words, minimum is %d", w, n)}, nil
	}
	return nil, nil
}

func minItems(_ context.Context, content any, arg string, _ map[string]any) ([]Issue, error) {
	n, err := intArg("min_items", arg)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(content)
	if content == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return []Issue{issue("min_items", SeverityError, "content is not a list")}, nil
	}
	if rv.Len() < n {
		return []Issue{issue("min_items", SeverityError, "list has %d items, minimum is %d", rv.Len(), n)}, nil
	}
	return nil, nil
}

// requiredKeys checks comma-separated gjson paths against JSON content.
func requiredKeys(_ context.Context, content any, arg string, _ map[string]any) ([]Issue, error) {
	doc, err := jsonText(content)
	if err != nil {
		return nil, err
	}
	if !gjson.Valid(doc) {
		return []Issue{issue("required_keys", SeverityError, "content is not valid JSON")}, nil
	}
	var issues []Issue
	for _, key := range strings.Split(arg, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if !gjson.Get(doc, key).Exists() {
			i := issue("required_keys", SeverityError, "missing key %q", key)
			i.Path = key
			issues = append(issues, i)
		}
	}
	return issues, nil
}

func noPlaceholders(_ context.Context, content any, _ string, _ map[string]any) ([]Issue, error) {
	matches := placeholderPattern.FindAllString(textOf(content), -1)
	if len(matches) == 0 {
		return nil, nil
	}
	return []Issue{issue("no_placeholders", SeverityError, "content contains placeholder text: %s", strings.Join(matches, ", "))}, nil
}

func hasHeadings(_ context.Context, content any, _ string, _ map[string]any) ([]Issue, error) {
	for _, line := range strings.Split(textOf(content), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return nil, nil
		}
	}
	return []Issue{issue("has_headings", SeverityWarning, "content has no Markdown headings")}, nil
}

// mentionsVariable warns when the content never mentions the named context variable's value.
func mentionsVariable(_ context.Context, content any, arg string, vars map[string]any) ([]Issue, error) {
	v, ok := vars[arg]
	if !ok {
		return nil, fmt.Errorf("validator mentions: variable %q not in context", arg)
	}
	needle := strings.ToLower(fmt.Sprint(v))
	if !strings.Contains(strings.ToLower(textOf(content)), needle) {
		return []Issue{issue("mentions", SeverityWarning, "content does not mention %s %q", arg, v)}, nil
	}
	return nil, nil
}

func defaultValidators() map[string]Validator {
	return map[string]Validator{
		"non_empty":       ValidatorFunc(nonEmpty),
		"valid_json":      ValidatorFunc(validJSON),
		"min_length":      ValidatorFunc(minLength),
		"max_length":      ValidatorFunc(maxLength),
		"min_words":       ValidatorFunc(minWords),
		"min_items":       ValidatorFunc(minItems),
		"required_keys":   ValidatorFunc(requiredKeys),
		"no_placeholders": ValidatorFunc(noPlaceholders),
		"has_headings":    ValidatorFunc(hasHeadings),
		"mentions":        ValidatorFunc(mentionsVariable),
	}
}
