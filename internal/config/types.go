// Package config loads plsweave project configuration. It is decoupled
// from CLI concerns so the index and watch tooling can load project
// settings on their own.
package config

// Default configuration values.
const (
	DefaultIndexPath = ".plsweave/index.db"
	DefaultOutput    = "auto"

	// ConfigFileName is the project config file name.
	ConfigFileName = "plsweave.yaml"
	// ConfigFileNameAlt is the alternate spelling.
	ConfigFileNameAlt = "plsweave.yml"
)

// Config holds the resolved project configuration.
type Config struct {
	// ProjectRoot is the directory the config file was found in (or the
	// working directory when running without one). Not itself a config
	// key; relative paths below resolve against it.
	ProjectRoot string `koanf:"-"`

	// SourceDirs are the directories scanned for IFS source files
	// (.plsql, .entity, .enumeration, .views, .storage).
	SourceDirs []string `koanf:"source_dirs"`

	// IndexPath is the SQLite symbol index location.
	IndexPath string `koanf:"index_path"`

	// Verbose enables debug-level logging.
	Verbose bool `koanf:"verbose"`

	// Output selects the render mode (auto, text, json).
	Output string `koanf:"output"`
}

// ApplyDefaults fills unset fields with defaults.
func (c *Config) ApplyDefaults() {
	if c == nil {
		return
	}
	if len(c.SourceDirs) == 0 {
		c.SourceDirs = []string{"."}
	}
	if c.IndexPath == "" {
		c.IndexPath = DefaultIndexPath
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
}
