// config.go
package cursegen

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by the tool. CC, AR, TARGET, HOST and
// PKG_CONFIG / PKG_CONFIG_PATH are honored transparently by the compiler and
// metadata capabilities.
const (
	// EnvLinkLib overrides the final primary-library link name.
	EnvLinkLib = "CURSEGEN_LINK_LIB"
	// EnvLinkFlags supplies raw supplementary linker flags, passed through
	// verbatim.
	EnvLinkFlags = "CURSEGEN_LDFLAGS"
	// EnvKeepArtifacts keeps transient probe sources and binaries around for
	// inspection. Any value except "0" and "false" enables it.
	EnvKeepArtifacts = "CURSEGEN_KEEP_ARTIFACTS"
)

// Config holds cursegen configuration
type Config struct {
	// Wide selects the wide-character (multi-byte) library variants. Forced
	// off on darwin, where the system ncurses has no usable wide build.
	Wide bool `yaml:"wide"`

	// Menu enables discovery of the menu extension library
	Menu bool `yaml:"menu"`

	// Panel enables discovery of the panel extension library
	Panel bool `yaml:"panel"`

	// OutDir is the build-scoped output/scratch directory
	OutDir string `yaml:"out_dir"`

	// CsrcDir optionally points at on-disk introspection sources; when empty
	// the embedded copies are used
	CsrcDir string `yaml:"csrc_dir"`

	// Compiler overrides the C compiler (CC still wins when set)
	Compiler string `yaml:"compiler"`

	// KeepArtifacts preserves transient probe artifacts for inspection
	KeepArtifacts bool `yaml:"keep_artifacts"`

	// Debug enables colored diagnostics
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Wide:   true,
		Menu:   true,
		Panel:  true,
		OutDir: "out",
	}
}

// LoadConfig loads configuration from file, falling back to defaults when the
// file does not exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(home, ".config", "cursegen", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// ResolveWide fixes the process-wide wideness flag from the requested feature
// selection and the target platform. Resolved once at startup and threaded
// explicitly; never consulted from ambient state afterwards.
func ResolveWide(requested bool, goos string) bool {
	return requested && goos != "darwin"
}

// keepArtifacts reports whether transient probe artifacts should be
// preserved, from config or the debug environment variable.
func (c *Config) keepArtifacts() bool {
	if c.KeepArtifacts {
		return true
	}
	v, ok := os.LookupEnv(EnvKeepArtifacts)
	return ok && v != "0" && v != "false"
}
