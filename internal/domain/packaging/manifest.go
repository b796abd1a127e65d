package packaging

import "time"

// Builder identifies who produced a release.
type Builder struct {
	Hostname string `yaml:"hostname"`
	Username string `yaml:"username"`
}

// StageRecord is the persisted form of an Outcome.
type StageRecord struct {
	Stage  string `yaml:"stage"`
	Status Status `yaml:"status"`
	Detail string `yaml:"detail,omitempty"`
}

// Release describes the artifacts produced by one run.
// Artifacts maps final artifact file names to base64 SHA-512 checksums.
type Release struct {
	Name      string            `yaml:"name"`
	Version   string            `yaml:"version"`
	Platform  Platform          `yaml:"platform"`
	BuiltBy   Builder           `yaml:"built_by"`
	BuiltAt   time.Time         `yaml:"built_at"`
	Artifacts map[string]string `yaml:"artifacts"`
	Stages    []StageRecord     `yaml:"stages"`
}

// NewRelease returns an empty release for the context.
func NewRelease(c *Context) *Release {
	return &Release{
		Name:      c.Name,
		Version:   c.Version,
		Platform:  c.Platform,
		Artifacts: make(map[string]string),
	}
}

// Record appends the outcome to the stage log.
func (r *Release) Record(o Outcome) {
	r.Stages = append(r.Stages, StageRecord{
		Stage:  o.Stage,
		Status: o.Status,
		Detail: o.Detail(),
	})
}
