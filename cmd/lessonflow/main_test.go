package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVars(t *testing.T) {
	vars, err := parseVars([]string{"topic=Fractions", "grade=4", "tags=[\"a\",\"b\"]", "note=a=b", "empty="})
	require.NoError(t, err)

	assert.Equal(t, "Fractions", vars["topic"])
	assert.Equal(t, float64(4), vars["grade"])
	assert.Equal(t, []any{"a", "b"}, vars["tags"])
	assert.Equal(t, "a=b", vars["note"])
	assert.Equal(t, "", vars["empty"])

	for _, bad := range []string{"novalue", "=x"} {
		t.Run(bad, func(t *testing.T) {
			_, err := parseVars([]string{bad})
			require.Error(t, err)
		})
	}
}

// project lays out a settings file, one workflow and one prompt under a temp dir.
func project(t *testing.T) (dir, settingsFile string) {
	t.Helper()
	dir = t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	settingsFile = filepath.Join(dir, "lessonflow.yaml")
	write("lessonflow.yaml", "paths:\n"+
		"  workflows: "+filepath.Join(dir, "workflows")+"\n"+
		"  prompts: "+filepath.Join(dir, "prompts")+"\n"+
		"  sessions: "+filepath.Join(dir, "sessions")+"\n"+
		"llm:\n  retry:\n    max_attempts: 1\n")
	write("workflows/demo.yaml", `
name: demo
description: Say hello
defaults:
  model: fast
steps:
  - name: s1
    type: prompt
    prompt: demo/hello
    output_variable: x
`)
	write("prompts/demo/hello.md", "---\ndescription: Greeting\ntags: [demo]\nrequires: [topic]\n---\nSay hello about {{ topic }}.")
	return dir, settingsFile
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("LESSONFLOW_API_KEYS_ANTHROPIC", "")
	cmd := RootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunDryRunJSON(t *testing.T) {
	dir, cfg := project(t)

	out, err := execute(t, "--config", cfg, "--log-level", "disabled",
		"run", "demo", "--dry-run", "--output-json", "--var", "topic=Fractions", "--session-id", "s-1")
	require.NoError(t, err)

	var summary struct {
		SessionID string   `json:"session_id"`
		Workflow  string   `json:"workflow"`
		Status    string   `json:"status"`
		Steps     []string `json:"steps"`
		Usage     struct {
			Totals struct {
				Count int `json:"count"`
			} `json:"totals"`
		} `json:"usage"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "s-1", summary.SessionID)
	assert.Equal(t, "demo", summary.Workflow)
	assert.Equal(t, "completed", summary.Status)
	assert.Equal(t, []string{"s1"}, summary.Steps)
	assert.Equal(t, 1, summary.Usage.Totals.Count)

	assert.FileExists(t, filepath.Join(dir, "sessions", "s-1", "context.json"))
	assert.FileExists(t, filepath.Join(dir, "sessions", "s-1", "workflow.json"))
}

func TestRunWorkflowFile(t *testing.T) {
	dir, cfg := project(t)

	out, err := execute(t, "--config", cfg, "--log-level", "disabled",
		"run", filepath.Join(dir, "workflows", "demo.yaml"), "--dry-run", "--var", "topic=Maps")
	require.NoError(t, err)
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "s1")
}

func TestRunFailureExitsWithError(t *testing.T) {
	_, cfg := project(t)

	out, err := execute(t, "--config", cfg, "--log-level", "disabled",
		"run", "demo", "--dry-run", "--output-json")
	require.Error(t, err, "topic is required by the prompt")
	assert.Empty(t, out)
}

func TestRunWithoutKeyFails(t *testing.T) {
	_, cfg := project(t)

	_, err := execute(t, "--config", cfg, "--log-level", "disabled",
		"run", "demo", "--var", "topic=x")
	require.Error(t, err)
}

func TestRunUnknownWorkflow(t *testing.T) {
	_, cfg := project(t)

	_, err := execute(t, "--config", cfg, "--log-level", "disabled", "run", "missing")
	require.Error(t, err)
}

func TestResumeCompletedSession(t *testing.T) {
	_, cfg := project(t)

	_, err := execute(t, "--config", cfg, "--log-level", "disabled",
		"run", "demo", "--dry-run", "--var", "topic=Fractions", "--session-id", "s-2")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfg, "--log-level", "disabled",
		"resume", "s-2", "--dry-run", "--from-step", "s1", "--output-json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "completed"`)
}

func TestListCommands(t *testing.T) {
	_, cfg := project(t)

	out, err := execute(t, "--config", cfg, "list-workflows")
	require.NoError(t, err)
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "Say hello")

	out, err = execute(t, "--config", cfg, "list-prompts", "--tag", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "demo/hello")

	out, err = execute(t, "--config", cfg, "list-prompts", "--tag", "nope")
	require.NoError(t, err)
	assert.Empty(t, out)
}
