package catalog

// Template describes one fault scenario: the command that breaks the sandbox,
// the command that verifies the repair, and progressive hints for the trainee.
// Templates are read-only to the rest of the system.
type Template struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"desc"`
	Explain     string   `yaml:"explain,omitempty"`
	ChaosCmd    string   `yaml:"chaos_cmd"`
	CheckCmd    string   `yaml:"check_cmd"`
	Hints       []string `yaml:"hints,omitempty"`
}

// Catalog provides fault templates to the session controller and the scheduler.
// Implementations must be safe for concurrent use.
type Catalog interface {
	// Select chooses the next template according to the catalog's selection
	// policy. Returns false when the catalog is empty.
	Select() (Template, bool)

	// Get returns the template with the given id, or false if it is unknown.
	Get(id string) (Template, bool)

	// Len returns the number of templates currently loaded.
	Len() int
}
