package catalog

// Selection policies supported by FileCatalog.
const (
	SelectionRandom     = "random"
	SelectionSequential = "sequential"
)

// Config holds file catalog configuration.
type Config struct {
	Path      string `env:"CATALOG_PATH" envDefault:"templates.yaml"`
	Selection string `env:"CATALOG_SELECTION" envDefault:"random"`
	Watch     bool   `env:"CATALOG_WATCH" envDefault:"false"`
}
