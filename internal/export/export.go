// Package export renders the signed in user's data as a downloadable file.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dori/projectflow/internal/model"
)

// Format selects the export encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use json or yaml)", s)
	}
}

// Data is the exported snapshot
type Data struct {
	User       *model.User     `json:"user" yaml:"user"`
	Projects   []model.Project `json:"projects" yaml:"projects"`
	ExportDate time.Time       `json:"exportDate" yaml:"exportDate"`
}

// Build assembles a snapshot taken at now
func Build(user *model.User, projects []model.Project, now time.Time) Data {
	if projects == nil {
		projects = []model.Project{}
	}
	return Data{User: user, Projects: projects, ExportDate: now.UTC()}
}

// FileName returns projectflow-data-YYYY-MM-DD with the format's extension
func FileName(now time.Time, format Format) string {
	return fmt.Sprintf("projectflow-data-%s.%s", now.Format("2006-01-02"), format)
}

// Write encodes data to w
func Write(w io.Writer, data Data, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
