package config

import (
	"fmt"
	"os"
	"strings"

	"ethnicityfacts/internal/errors"

	"gopkg.in/yaml.v3"
)

// LookupConfig describes one reference dictionary offered to users
type LookupConfig struct {
	// Name identifies the lookup in API requests and CLI flags
	Name string `yaml:"name"`
	// Reference is the CSV reference table, relative to the catalogue file
	Reference string `yaml:"reference"`
	// Wildcard is substituted in Defaults (default "*")
	Wildcard string `yaml:"wildcard"`
	// Defaults are appended to rows with no match, one per output column
	Defaults []string `yaml:"defaults"`
}

type lookupCatalogue struct {
	Lookups []LookupConfig `yaml:"lookups"`
}

// LoadLookups reads the YAML lookup catalogue at path
func LoadLookups(path string) ([]LookupConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read lookup catalogue %s", path)
	}
	return ParseLookups(data)
}

// ParseLookups decodes and validates a lookup catalogue
func ParseLookups(data []byte) ([]LookupConfig, error) {
	var catalogue lookupCatalogue
	if err := yaml.Unmarshal(data, &catalogue); err != nil {
		return nil, errors.DataFormat("lookup catalogue", err)
	}

	seen := make(map[string]bool, len(catalogue.Lookups))
	for i := range catalogue.Lookups {
		lc := &catalogue.Lookups[i]
		lc.Name = strings.TrimSpace(lc.Name)
		if lc.Name == "" {
			return nil, errors.ConfigInvalid(fmt.Sprintf("lookup %d has no name", i))
		}
		if seen[lc.Name] {
			return nil, errors.ConfigInvalid(fmt.Sprintf("lookup %q is defined twice", lc.Name))
		}
		seen[lc.Name] = true
		if lc.Reference == "" {
			return nil, errors.ConfigInvalid(fmt.Sprintf("lookup %q has no reference file", lc.Name))
		}
		if lc.Wildcard == "" {
			lc.Wildcard = "*"
		}
	}

	return catalogue.Lookups, nil
}
