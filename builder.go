package sbi

import (
	"fmt"
	"log/slog"

	"github.com/rvcore/sbi/spec"
)

// Builder registers extension implementations before composing a Firmware.
// Registration happens once at firmware assembly time; the built Firmware
// is immutable and shared by all harts without locking.
type Builder struct {
	console Console
	timer   Timer
	ipi     Ipi
	fence   Fence
	hsm     Hsm
	reset   Reset
	pmu     Pmu
	susp    Susp
	cppc    Cppc
	nacl    Nacl
	sta     Sta

	info        EnvInfo
	legacy      LegacyConsole
	implID      Word
	implVersion Word
	log         *slog.Logger

	custom map[Word]Extension
}

// NewBuilder returns an empty Builder. The implementation id defaults to
// spec.ImplBBL (0); platforms should set their registered id with WithImpl.
func NewBuilder() *Builder {
	return &Builder{
		custom: make(map[Word]Extension),
	}
}

// WithConsole registers the debug console extension.
func (b *Builder) WithConsole(c Console) error {
	if c == nil {
		return fmt.Errorf("console implementation is nil")
	}
	if b.console != nil {
		return fmt.Errorf("console already registered")
	}
	b.console = c
	return nil
}

// WithTimer registers the timer extension.
func (b *Builder) WithTimer(t Timer) error {
	if t == nil {
		return fmt.Errorf("timer implementation is nil")
	}
	if b.timer != nil {
		return fmt.Errorf("timer already registered")
	}
	b.timer = t
	return nil
}

// WithIpi registers the inter-processor interrupt extension.
func (b *Builder) WithIpi(i Ipi) error {
	if i == nil {
		return fmt.Errorf("ipi implementation is nil")
	}
	if b.ipi != nil {
		return fmt.Errorf("ipi already registered")
	}
	b.ipi = i
	return nil
}

// WithFence registers the remote fence extension. If the implementation
// also satisfies HypervisorFence, the HFENCE calls are routed to it.
func (b *Builder) WithFence(f Fence) error {
	if f == nil {
		return fmt.Errorf("fence implementation is nil")
	}
	if b.fence != nil {
		return fmt.Errorf("fence already registered")
	}
	b.fence = f
	return nil
}

// WithHsm registers the hart state management extension.
func (b *Builder) WithHsm(h Hsm) error {
	if h == nil {
		return fmt.Errorf("hsm implementation is nil")
	}
	if b.hsm != nil {
		return fmt.Errorf("hsm already registered")
	}
	b.hsm = h
	return nil
}

// WithReset registers the system reset extension.
func (b *Builder) WithReset(r Reset) error {
	if r == nil {
		return fmt.Errorf("reset implementation is nil")
	}
	if b.reset != nil {
		return fmt.Errorf("reset already registered")
	}
	b.reset = r
	return nil
}

// WithPmu registers the performance monitoring extension.
func (b *Builder) WithPmu(p Pmu) error {
	if p == nil {
		return fmt.Errorf("pmu implementation is nil")
	}
	if b.pmu != nil {
		return fmt.Errorf("pmu already registered")
	}
	b.pmu = p
	return nil
}

// WithSusp registers the system suspend extension.
func (b *Builder) WithSusp(s Susp) error {
	if s == nil {
		return fmt.Errorf("susp implementation is nil")
	}
	if b.susp != nil {
		return fmt.Errorf("susp already registered")
	}
	b.susp = s
	return nil
}

// WithCppc registers the CPPC extension.
func (b *Builder) WithCppc(c Cppc) error {
	if c == nil {
		return fmt.Errorf("cppc implementation is nil")
	}
	if b.cppc != nil {
		return fmt.Errorf("cppc already registered")
	}
	b.cppc = c
	return nil
}

// WithNacl registers the nested acceleration extension.
func (b *Builder) WithNacl(n Nacl) error {
	if n == nil {
		return fmt.Errorf("nacl implementation is nil")
	}
	if b.nacl != nil {
		return fmt.Errorf("nacl already registered")
	}
	b.nacl = n
	return nil
}

// WithSta registers the steal-time accounting extension.
func (b *Builder) WithSta(s Sta) error {
	if s == nil {
		return fmt.Errorf("sta implementation is nil")
	}
	if b.sta != nil {
		return fmt.Errorf("sta already registered")
	}
	b.sta = s
	return nil
}

// WithEnvInfo supplies the machine identity reported by the base extension.
func (b *Builder) WithEnvInfo(info EnvInfo) error {
	if info == nil {
		return fmt.Errorf("env info is nil")
	}
	if b.info != nil {
		return fmt.Errorf("env info already registered")
	}
	b.info = info
	return nil
}

// WithImpl sets the implementation id and version reported by the base
// extension.
func (b *Builder) WithImpl(id, version Word) {
	b.implID = id
	b.implVersion = version
}

// WithLegacyConsole enables the deprecated single-register-return calls,
// serving console bytes through lc. Legacy set-timer, send-ipi and
// shutdown route to the registered Timer, Ipi and Reset implementations.
func (b *Builder) WithLegacyConsole(lc LegacyConsole) error {
	if lc == nil {
		return fmt.Errorf("legacy console is nil")
	}
	if b.legacy != nil {
		return fmt.Errorf("legacy console already registered")
	}
	b.legacy = lc
	return nil
}

// WithLogger attaches a logger for per-call debug tracing. Routing never
// requires logging; this is a development aid.
func (b *Builder) WithLogger(log *slog.Logger) {
	b.log = log
}

// WithExtension registers a handler for a vendor, firmware or experimental
// extension id.
func (b *Builder) WithExtension(eid Word, ext Extension) error {
	if ext == nil {
		return fmt.Errorf("extension %#x is nil", eid)
	}
	if standardEID(eid) {
		return fmt.Errorf("extension id %#x collides with a standard extension", eid)
	}
	if _, exists := b.custom[eid]; exists {
		return fmt.Errorf("extension %#x already registered", eid)
	}
	b.custom[eid] = ext
	return nil
}

func standardEID(eid Word) bool {
	switch eid {
	case spec.EIDBase, spec.EIDTime, spec.EIDIpi, spec.EIDRfnc, spec.EIDHsm,
		spec.EIDSrst, spec.EIDPmu, spec.EIDDbcn, spec.EIDSusp, spec.EIDCppc,
		spec.EIDNacl, spec.EIDSta:
		return true
	}
	return eid <= spec.LegacyShutdown
}

// Build composes the registered extensions into an immutable Firmware.
func (b *Builder) Build() (*Firmware, error) {
	if b == nil {
		return nil, fmt.Errorf("sbi builder is nil")
	}

	custom := make(map[Word]Extension, len(b.custom))
	for eid, ext := range b.custom {
		custom[eid] = ext
	}

	fw := &Firmware{
		console:     b.console,
		timer:       b.timer,
		ipi:         b.ipi,
		fence:       b.fence,
		hsm:         b.hsm,
		reset:       b.reset,
		pmu:         b.pmu,
		susp:        b.susp,
		cppc:        b.cppc,
		nacl:        b.nacl,
		sta:         b.sta,
		info:        b.info,
		legacy:      b.legacy,
		implID:      b.implID,
		implVersion: b.implVersion,
		log:         b.log,
		custom:      custom,
	}
	if b.fence != nil {
		fw.hfence, _ = b.fence.(HypervisorFence)
	}
	if b.pmu != nil {
		fw.pmuSnapshot, _ = b.pmu.(PmuSnapshot)
	}
	return fw, nil
}
