package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/java-packager/internal/domain/packaging"
)

// PomFilename is the Maven project descriptor read for defaults.
const PomFilename = "pom.xml"

// License is a license entry declared by the project.
type License struct {
	Name string `xml:"name"`
	URL  string `xml:"url"`
}

// ProjectMetadata is the subset of pom.xml used as option defaults.
type ProjectMetadata struct {
	Name             string
	Version          string
	Description      string
	URL              string
	OrganizationName string
	OrganizationURL  string
	Licenses         []License
}

// pomProject mirrors the pom.xml elements we read.
type pomProject struct {
	XMLName     xml.Name `xml:"project"`
	ArtifactID  string   `xml:"artifactId"`
	Name        string   `xml:"name"`
	Version     string   `xml:"version"`
	Description string   `xml:"description"`
	URL         string   `xml:"url"`
	Parent      struct {
		Version string `xml:"version"`
	} `xml:"parent"`
	Organization struct {
		Name string `xml:"name"`
		URL  string `xml:"url"`
	} `xml:"organization"`
	Licenses []License `xml:"licenses>license"`
}

// LoadProjectMetadata reads pom.xml from dir. A missing pom yields nil metadata.
// Values still holding Maven ${...} placeholders are ignored.
func LoadProjectMetadata(dir string) (*ProjectMetadata, error) {
	contents, err := os.ReadFile(filepath.Join(dir, PomFilename))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil //nolint:nilnil // No pom is a valid state.
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", PomFilename, err)
	}

	var pom pomProject
	if err = xml.Unmarshal(contents, &pom); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", packaging.ErrConfiguration, PomFilename, err)
	}

	metadata := &ProjectMetadata{
		Name:             literal(pom.Name),
		Version:          literal(pom.Version),
		Description:      literal(pom.Description),
		URL:              literal(pom.URL),
		OrganizationName: literal(pom.Organization.Name),
		OrganizationURL:  literal(pom.Organization.URL),
	}

	if metadata.Name == "" {
		metadata.Name = literal(pom.ArtifactID)
	}

	if metadata.Version == "" {
		metadata.Version = literal(pom.Parent.Version)
	}

	for _, license := range pom.Licenses {
		metadata.Licenses = append(metadata.Licenses, License{
			Name: literal(license.Name),
			URL:  literal(license.URL),
		})
	}

	return metadata, nil
}

// literal trims s and drops unresolved property references.
func literal(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "${") {
		return ""
	}

	return s
}
