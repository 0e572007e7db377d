package plan

import "os"

// Plan is a fully loaded scaffold plan. File contents have been read from
// their sources; templates have not been rendered yet.
type Plan struct {
	Name        string
	Version     string
	Description string
	Requires    string
	Vars        map[string]string
	Commit      Commit
	Files       []Entry

	// Origin describes where the plan was loaded from, for messages only
	// (e.g. "builtin:fullstack-demo" or a file path).
	Origin string
}

// Commit holds version-control settings carried by a plan.
type Commit struct {
	Message string
}

// Entry is one file to materialize.
type Entry struct {
	Path     string      // slash-separated, relative to the target root
	Content  []byte      // opaque bytes, written verbatim unless Template is set
	Template bool        // render Content with text/template before writing
	Mode     os.FileMode // permission bits for the written file
}

// planFile mirrors the on-disk plan format.
type planFile struct {
	Name        string            `yaml:"name" json:"name"`
	Version     string            `yaml:"version,omitempty" json:"version,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Requires    string            `yaml:"requires,omitempty" json:"requires,omitempty"`
	Vars        map[string]string `yaml:"vars,omitempty" json:"vars,omitempty"`
	Commit      *commitSpec       `yaml:"commit,omitempty" json:"commit,omitempty"`
	Files       []fileSpec        `yaml:"files" json:"files"`
}

type commitSpec struct {
	Message string `yaml:"message" json:"message"`
}

type fileSpec struct {
	Path     string  `yaml:"path" json:"path"`
	Content  *string `yaml:"content,omitempty" json:"content,omitempty"`
	Source   string  `yaml:"source,omitempty" json:"source,omitempty"`
	Template bool    `yaml:"template,omitempty" json:"template,omitempty"`
	Mode     string  `yaml:"mode,omitempty" json:"mode,omitempty"`
}
