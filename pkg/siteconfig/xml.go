package siteconfig

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/apache/ambari-config-initializer/pkg/deriver"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>
<?xml-stylesheet type="text/xsl" href="configuration.xsl"?>
`

type property struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

type configuration struct {
	XMLName    xml.Name   `xml:"configuration"`
	Properties []property `xml:"property"`
}

// ParseSiteXML reads a Hadoop site file. Each value becomes both the value and
// the recommended value of a property in filename.
func ParseSiteXML(filename string, data []byte) ([]*deriver.ConfigProperty, error) {
	var conf configuration
	if err := xml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	props := make([]*deriver.ConfigProperty, 0, len(conf.Properties))
	for _, p := range conf.Properties {
		props = append(props, &deriver.ConfigProperty{
			Name:             p.Name,
			Filename:         filename,
			Value:            p.Value,
			RecommendedValue: p.Value,
		})
	}
	if err := validate(props); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return props, nil
}

// MarshalSiteXML renders props as one site file, in the given order.
func MarshalSiteXML(props []*deriver.ConfigProperty) ([]byte, error) {
	conf := configuration{Properties: make([]property, 0, len(props))}
	for _, p := range props {
		conf.Properties = append(conf.Properties, property{Name: p.Name, Value: p.Value})
	}
	out, err := xml.MarshalIndent(conf, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), append(out, '\n')...), nil
}

// GroupByFilename splits props by site file, keeping input order inside a
// group.
func GroupByFilename(props []*deriver.ConfigProperty) (map[string][]*deriver.ConfigProperty, error) {
	groups := make(map[string][]*deriver.ConfigProperty)
	for _, p := range props {
		if p.Filename == "" {
			return nil, fmt.Errorf("property %s: filename is required for xml output", p.Name)
		}
		groups[p.Filename] = append(groups[p.Filename], p)
	}
	return groups, nil
}

// WriteSiteXML writes one file per site into dir and returns the written
// paths, sorted.
func WriteSiteXML(dir string, props []*deriver.ConfigProperty) ([]string, error) {
	groups, err := GroupByFilename(props)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		data, err := MarshalSiteXML(groups[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		path := filepath.Join(dir, filepath.Base(name))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
