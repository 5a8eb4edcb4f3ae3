// Package siteconfig reads and writes property sets as YAML, JSON or Hadoop
// site XML.
package siteconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/apache/ambari-config-initializer/pkg/deriver"
)

// Format is a serialization of a property set.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// ParseFormat accepts yaml, yml, json and xml, case insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("unsupported format %q, must be one of: yaml, json, xml", s)
	}
}

// FormatOf guesses the format from a file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".xml":
		return FormatXML
	default:
		return FormatYAML
	}
}

// Document is a property file: the properties to derive and the dependency
// values some rules read.
type Document struct {
	Dependencies deriver.Dependencies      `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Properties   []*deriver.ConfigProperty `yaml:"properties" json:"properties"`
}

// Load reads a property file. XML files are read as a single site file whose
// base name becomes the filename of every property.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties file: %w", err)
	}
	format := FormatOf(path)
	if format == FormatXML {
		props, err := ParseSiteXML(filepath.Base(path), data)
		if err != nil {
			return nil, err
		}
		return &Document{Properties: props}, nil
	}
	return Parse(data, format)
}

// Parse decodes a YAML or JSON document and checks every property is named.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse properties: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse properties: %w", err)
		}
	default:
		return nil, fmt.Errorf("format %s cannot carry dependencies, use ParseSiteXML", format)
	}
	if err := validate(doc.Properties); err != nil {
		return nil, err
	}
	return &doc, nil
}

func validate(props []*deriver.ConfigProperty) error {
	for i, p := range props {
		if p == nil {
			return fmt.Errorf("property[%d]: empty entry", i)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("property[%d]: name is required", i)
		}
	}
	return nil
}

// Encode writes doc to w as YAML or JSON.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %s is written per site file, use WriteSiteXML", format)
	}
}

// Save writes doc to path, or site XML files into the directory path when
// format is xml.
func Save(path string, doc *Document, format Format) error {
	if format == FormatXML {
		_, err := WriteSiteXML(path, doc.Properties)
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc, format); err != nil {
		return fmt.Errorf("failed to encode properties: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write properties file: %w", err)
	}
	return nil
}
