package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dori/projectflow/internal/model"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func sample() Data {
	user := &model.User{ID: "u1", Name: "Ada", Email: "ada@example.com", CreatedAt: now}
	projects := []model.Project{{
		ID:        "1",
		Name:      "Launch",
		CreatedAt: now,
		Tasks:     []model.Task{{ID: "t1", Title: "Ship", Status: model.StatusTodo, CreatedAt: now}},
	}}
	return Build(user, projects, now)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "projectflow-data-2026-03-10.json", FileName(now, FormatJSON))
	assert.Equal(t, "projectflow-data-2026-03-10.yaml", FileName(now, FormatYAML))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), FormatJSON))

	assert.Contains(t, buf.String(), "\n  \"projects\": [")

	var back Data
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, sample(), back)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(), FormatYAML))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Contains(t, back, "exportDate")
	projects, ok := back["projects"].([]any)
	require.True(t, ok)
	assert.Len(t, projects, 1)
}

func TestBuildWithoutProjects(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Build(nil, nil, now), FormatJSON))
	assert.JSONEq(t, `{"user": null, "projects": [], "exportDate": "2026-03-10T12:00:00Z"}`, buf.String())
}
