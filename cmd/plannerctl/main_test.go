package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arnavshah/planner-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const request = `{
  "planning_start": "2025-03-10T10:00:00Z",
  "daily_hour_cap": 4,
  "tasks": [{"name": "Math HW", "deadline": "2025-03-11T23:00:00Z", "difficulty": 3, "estimated_hours": 2}]
}`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeyCmd(t *testing.T) {
	t.Setenv("API_MASTER_SECRET", "cli-secret")
	out, err := execute(t, "", "key", "alice")
	require.NoError(t, err)
	assert.Regexp(t, `Generated Key for alice:\nalice\.[0-9a-f]{64}\n`, out)

	_, err = execute(t, "", "key")
	assert.Error(t, err)
}

func TestPlanCmd_JSON(t *testing.T) {
	out, err := execute(t, request, "plan", "-o", "json")
	require.NoError(t, err)

	var resp models.PlanResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Schedule, 1)
	assert.Equal(t, "10:05", resp.Schedule[0].Blocks[0].StartTime)
}

func TestPlanCmd_TableWithCommitted(t *testing.T) {
	dir := t.TempDir()
	reqPath := filepath.Join(dir, "request.json")
	require.NoError(t, os.WriteFile(reqPath, []byte(request), 0o600))
	committedPath := filepath.Join(dir, "committed.json")
	require.NoError(t, os.WriteFile(committedPath, []byte(`{"2025-03-10":[{"date":"2025-03-10","start_time":"10:00","end_time":"11:00"}]}`), 0o600))

	out, err := execute(t, "", "plan", "-f", reqPath, "--committed", committedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "2025-03-10  11:00  13:00  2.00   Math HW")
}

func TestPlanCmd_Errors(t *testing.T) {
	_, err := execute(t, request, "plan", "-o", "yaml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, `{"planning_start": "2025-03-10T10:00:00Z", "daily_hour_cap": -1}`, "plan")
	assert.Error(t, err)

	_, err = execute(t, `not json`, "plan")
	assert.ErrorContains(t, err, "reading request")
}
