package engine

// ReportKind identifies a message for companion tooling.
type ReportKind string

const (
	// ReportPackages carries the loaded package names; nil after a failed load.
	ReportPackages ReportKind = "packages"
	// ReportConfigurationFinished is sent after every load attempt.
	ReportConfigurationFinished ReportKind = "configuration_finished"
	// ReportNumberOfProfiles answers RequestNumberOfProfiles.
	ReportNumberOfProfiles ReportKind = "number_of_profiles"
)

// Report is a message for companion tooling.
type Report struct {
	Kind     ReportKind `yaml:"kind"               json:"kind"`
	Packages []string   `yaml:"packages,omitempty" json:"packages,omitempty"`
	Profiles int        `yaml:"profiles,omitempty" json:"profiles,omitempty"`
	Success  bool       `yaml:"success,omitempty"  json:"success,omitempty"`
}

// ReportFunc receives reports on the engine goroutine.
type ReportFunc func(Report)

func (e *Engine) send(r Report) {
	if e.report != nil {
		e.report(r)
	}
}
