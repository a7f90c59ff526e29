// Package manifest reads and writes platform manifests: small YAML files
// describing a firmware build, its hart topology and the extensions it
// composes. Probe tooling and platform ports share the format.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rvcore/sbi/spec"
)

const Filename = "sbi.yaml"

// Manifest describes one firmware composition.
type Manifest struct {
	Version int    `yaml:"version"`
	Name    string `yaml:"name"`

	Harts    int       `yaml:"harts"`
	BootHart spec.Word `yaml:"bootHart,omitempty"`

	Impl ImplConfig `yaml:"impl,omitempty"`

	// Extensions names the extension surface the platform wires up, using
	// the lowercase names from ExtensionIDs (for example "time", "rfnc").
	Extensions []string `yaml:"extensions"`
}

type ImplConfig struct {
	ID      spec.Word `yaml:"id"`
	Version spec.Word `yaml:"version,omitempty"`
}

// ExtensionIDs maps the manifest extension names to their extension ids.
// The base extension is always present and is not listed.
var ExtensionIDs = map[string]spec.Word{
	"time": spec.EIDTime,
	"ipi":  spec.EIDIpi,
	"rfnc": spec.EIDRfnc,
	"hsm":  spec.EIDHsm,
	"srst": spec.EIDSrst,
	"pmu":  spec.EIDPmu,
	"dbcn": spec.EIDDbcn,
	"susp": spec.EIDSusp,
	"cppc": spec.EIDCppc,
	"nacl": spec.EIDNacl,
	"sta":  spec.EIDSta,
}

func (m *Manifest) normalize() {
	if m.Version == 0 {
		m.Version = 1
	}
	if m.Harts == 0 {
		m.Harts = 1
	}
	for i, name := range m.Extensions {
		m.Extensions[i] = strings.ToLower(strings.TrimSpace(name))
	}
}

// Validate checks the manifest for internal consistency.
func (m *Manifest) Validate() error {
	if m.Version != 1 {
		return fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	if m.Name == "" {
		return fmt.Errorf("missing name")
	}
	if m.Harts <= 0 {
		return fmt.Errorf("hart count %d is not positive", m.Harts)
	}
	if m.BootHart >= spec.Word(m.Harts) {
		return fmt.Errorf("boot hart %d outside hart set of %d", m.BootHart, m.Harts)
	}
	seen := make(map[string]bool, len(m.Extensions))
	for _, name := range m.Extensions {
		if _, ok := ExtensionIDs[name]; !ok {
			return fmt.Errorf("unknown extension %q", name)
		}
		if seen[name] {
			return fmt.Errorf("extension %q listed twice", name)
		}
		seen[name] = true
	}
	return nil
}

// Has reports whether the manifest lists the named extension.
func (m *Manifest) Has(name string) bool {
	for _, ext := range m.Extensions {
		if ext == name {
			return true
		}
	}
	return false
}

// Parse decodes and validates a manifest from YAML bytes.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	m.normalize()
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Load reads the manifest file from a platform directory.
func Load(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		return Manifest{}, fmt.Errorf("read %s: %w", Filename, err)
	}
	m, err := Parse(data)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", Filename, err)
	}
	return m, nil
}

// Write encodes a manifest into a platform directory, creating it if
// needed.
func Write(dir string, m Manifest) error {
	m.normalize()
	if err := m.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create platform dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, Filename))
	if err != nil {
		return fmt.Errorf("create %s: %w", Filename, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(&m); err != nil {
		return fmt.Errorf("encode %s: %w", Filename, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close %s: %w", Filename, err)
	}
	return nil
}
