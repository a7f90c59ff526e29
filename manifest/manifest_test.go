package manifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rvcore/sbi/spec"
)

func TestParse(t *testing.T) {
	yamlContent := `version: 1
name: "qemu-virt"
harts: 4
bootHart: 0
impl:
  id: 4
  version: 0x20000
extensions:
  - time
  - ipi
  - rfnc
  - hsm
  - srst
  - dbcn
`
	m, err := Parse([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Name != "qemu-virt" {
		t.Errorf("Name = %q, want %q", m.Name, "qemu-virt")
	}
	if m.Harts != 4 {
		t.Errorf("Harts = %d, want 4", m.Harts)
	}
	if m.Impl.ID != spec.ImplRustSBI {
		t.Errorf("Impl.ID = %d, want %d", m.Impl.ID, spec.ImplRustSBI)
	}
	if m.Impl.Version != 0x20000 {
		t.Errorf("Impl.Version = %#x, want 0x20000", m.Impl.Version)
	}
	if !m.Has("hsm") || m.Has("pmu") {
		t.Errorf("extension set = %v", m.Extensions)
	}
}

func TestParseNormalizes(t *testing.T) {
	m, err := Parse([]byte("name: minimal\nextensions: [\" TIME \", dbcn]\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("Version = %d, want defaulted 1", m.Version)
	}
	if m.Harts != 1 {
		t.Errorf("Harts = %d, want defaulted 1", m.Harts)
	}
	if !m.Has("time") {
		t.Errorf("extension names not normalized: %v", m.Extensions)
	}
}

func TestParseValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", "harts: 1\nextensions: [time]\n"},
		{"bad version", "version: 2\nname: x\nextensions: []\n"},
		{"negative harts", "name: x\nharts: -1\nextensions: []\n"},
		{"boot hart outside set", "name: x\nharts: 2\nbootHart: 2\nextensions: []\n"},
		{"unknown extension", "name: x\nextensions: [warp]\n"},
		{"duplicate extension", "name: x\nextensions: [time, time]\n"},
		{"not yaml", ": :\n  - ["},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Errorf("Parse accepted %q", tc.yaml)
			}
		})
	}
}

func TestExtensionIDs(t *testing.T) {
	if ExtensionIDs["time"] != spec.EIDTime {
		t.Errorf("time maps to %#x", ExtensionIDs["time"])
	}
	if ExtensionIDs["dbcn"] != spec.EIDDbcn {
		t.Errorf("dbcn maps to %#x", ExtensionIDs["dbcn"])
	}
	if _, ok := ExtensionIDs["base"]; ok {
		t.Errorf("base must not be listable, it is always present")
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	want := Manifest{
		Version:  1,
		Name:     "bench-board",
		Harts:    2,
		BootHart: 1,
		Impl:     ImplConfig{ID: spec.ImplRustSBI, Version: 1},
		Extensions: []string{
			"time", "ipi", "hsm",
		},
	}
	if err := Write(dir, want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRejectsInvalid(t *testing.T) {
	if err := Write(t.TempDir(), Manifest{Name: "x", Extensions: []string{"warp"}}); err == nil {
		t.Errorf("Write accepted an unknown extension")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Errorf("Load of empty dir succeeded")
	}
}
