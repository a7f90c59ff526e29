// sbiprobe composes a firmware instance from a platform manifest, using
// inert host-side drivers, and reports which extensions a supervisor
// would find. It is a development aid for checking manifests and the
// probe surface without a target machine.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/rvcore/sbi"
	"github.com/rvcore/sbi/hsm"
	"github.com/rvcore/sbi/manifest"
	"github.com/rvcore/sbi/rfence"
	"github.com/rvcore/sbi/spec"
)

// hostConsole prints console traffic to stdout. Buffer-based writes only
// report acceptance, since host-side probing has no guest memory to copy
// from.
type hostConsole struct{}

func (hostConsole) Write(bytes spec.Physical) spec.SbiRet { return spec.Success(bytes.NumBytes) }
func (hostConsole) Read(bytes spec.Physical) spec.SbiRet { return spec.Success(0) }
func (hostConsole) WriteByte(b byte) spec.SbiRet {
	fmt.Printf("%c", b)
	return spec.Success(0)
}

type hostTimer struct{}

func (hostTimer) SetTimer(stimeValue uint64) {}

type hostIpi struct{}

func (hostIpi) SendIPI(mask spec.HartMask) spec.SbiRet { return spec.Success(0) }

type hostReset struct{}

func (hostReset) SystemReset(resetType, resetReason uint32) spec.SbiRet {
	return spec.NotSupported()
}

type hostSusp struct{}

func (hostSusp) SystemSuspend(sleepType uint32, resumeAddr, opaque spec.Word) spec.SbiRet {
	return spec.NotSupported()
}

type hostPmu struct{}

func (hostPmu) NumCounters() spec.Word { return 0 }
func (hostPmu) CounterGetInfo(counterIdx spec.Word) spec.SbiRet { return spec.InvalidParam() }
func (hostPmu) CounterConfigMatching(counters spec.CounterMask, configFlags, eventIdx spec.Word, eventData uint64) spec.SbiRet {
	return spec.NotSupported()
}
func (hostPmu) CounterStart(counters spec.CounterMask, startFlags spec.Word, initialValue uint64) spec.SbiRet {
	return spec.InvalidParam()
}
func (hostPmu) CounterStop(counters spec.CounterMask, stopFlags spec.Word) spec.SbiRet {
	return spec.InvalidParam()
}
func (hostPmu) CounterFwRead(counterIdx spec.Word) spec.SbiRet { return spec.InvalidParam() }
func (hostPmu) CounterFwReadHi(counterIdx spec.Word) spec.SbiRet { return spec.InvalidParam() }

type hostCppc struct{}

func (hostCppc) Probe(regID uint32) spec.SbiRet { return spec.Success(0) }
func (hostCppc) Read(regID uint32) spec.SbiRet { return spec.NotSupported() }
func (hostCppc) ReadHi(regID uint32) spec.SbiRet { return spec.NotSupported() }
func (hostCppc) Write(regID uint32, val uint64) spec.SbiRet { return spec.NotSupported() }

type hostNacl struct{}

func (hostNacl) ProbeFeature(featureID uint32) spec.SbiRet { return spec.Success(0) }
func (hostNacl) SetShmem(shmem spec.SharedPtr, flags spec.Word) spec.SbiRet {
	return spec.NotSupported()
}
func (hostNacl) SyncCSR(csrNum spec.Word) spec.SbiRet { return spec.NotSupported() }
func (hostNacl) SyncHFence(entryIndex spec.Word) spec.SbiRet { return spec.NotSupported() }
func (hostNacl) SyncSRET() spec.SbiRet { return spec.NotSupported() }

type hostSta struct{}

func (hostSta) SetShmem(shmem spec.SharedPtr, flags spec.Word) spec.SbiRet {
	return spec.NotSupported()
}

type hostWaker struct{}

func (hostWaker) Wake(hartID spec.Word) error { return nil }

// hostFlusher is a no-op flusher; the coordinator still exercises queue
// and rendezvous logic.
type hostFlusher struct{}

func (hostFlusher) FenceI() {}
func (hostFlusher) SFenceVMA(rfence.Scope) {}

type hostTransport struct{ c *rfence.Coordinator }

func (t *hostTransport) SendIPI(harts []spec.Word) error {
	for _, h := range harts {
		t.c.Process(h)
	}
	return nil
}

func compose(m manifest.Manifest, log *slog.Logger) (*sbi.Firmware, error) {
	b := sbi.NewBuilder()
	b.WithImpl(m.Impl.ID, m.Impl.Version)
	b.WithLogger(log)

	if m.Has("dbcn") {
		if err := b.WithConsole(hostConsole{}); err != nil {
			return nil, err
		}
	}
	if m.Has("time") {
		if err := b.WithTimer(hostTimer{}); err != nil {
			return nil, err
		}
	}
	if m.Has("ipi") {
		if err := b.WithIpi(hostIpi{}); err != nil {
			return nil, err
		}
	}
	if m.Has("rfnc") {
		transport := &hostTransport{}
		flushers := make([]rfence.Flusher, m.Harts)
		for i := range flushers {
			flushers[i] = hostFlusher{}
		}
		c := rfence.New(transport, flushers)
		transport.c = c
		if err := b.WithFence(rfence.NewFence(c, func() spec.Word { return m.BootHart })); err != nil {
			return nil, err
		}
	}
	if m.Has("hsm") {
		table, err := hsm.NewTable(m.Harts, m.BootHart)
		if err != nil {
			return nil, err
		}
		machine, err := hsm.NewMachine(hsm.MachineConfig{
			Table:       table,
			Waker:       hostWaker{},
			CurrentHart: func() spec.Word { return m.BootHart },
		})
		if err != nil {
			return nil, err
		}
		if err := b.WithHsm(machine); err != nil {
			return nil, err
		}
	}
	if m.Has("srst") {
		if err := b.WithReset(hostReset{}); err != nil {
			return nil, err
		}
	}
	if m.Has("pmu") {
		if err := b.WithPmu(hostPmu{}); err != nil {
			return nil, err
		}
	}
	if m.Has("susp") {
		if err := b.WithSusp(hostSusp{}); err != nil {
			return nil, err
		}
	}
	if m.Has("cppc") {
		if err := b.WithCppc(hostCppc{}); err != nil {
			return nil, err
		}
	}
	if m.Has("nacl") {
		if err := b.WithNacl(hostNacl{}); err != nil {
			return nil, err
		}
	}
	if m.Has("sta") {
		if err := b.WithSta(hostSta{}); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func run() error {
	verbose := flag.Bool("v", false, "log every dispatched call")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `sbiprobe - probe a firmware composition from a platform manifest

USAGE:
  sbiprobe [flags] <platform-dir>

The platform directory must contain %s.

FLAGS:
  -v   Log every dispatched call to stderr

OUTPUT:
  One line per known extension: NAME EID RESULT
  RESULT is "yes" when the probe reports the extension available.
`, manifest.Filename)
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	m, err := manifest.Load(flag.Arg(0))
	if err != nil {
		return err
	}
	log.Info("sbiprobe: loaded manifest", "name", m.Name, "harts", m.Harts, "extensions", m.Extensions)

	fw, err := compose(m, log)
	if err != nil {
		return fmt.Errorf("compose firmware: %w", err)
	}

	ret := fw.HandleEcall(spec.EIDBase, spec.BaseGetSpecVersion, [6]spec.Word{})
	version, err := ret.Result()
	if err != nil {
		return fmt.Errorf("read spec version: %w", err)
	}
	fmt.Printf("%s: SBI v%d.%d, impl %d version %#x\n",
		m.Name, version>>24&0x7f, version&0xffffff, m.Impl.ID, m.Impl.Version)

	names := make([]string, 0, len(manifest.ExtensionIDs))
	for name := range manifest.ExtensionIDs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		eid := manifest.ExtensionIDs[name]
		ret := fw.HandleEcall(spec.EIDBase, spec.BaseProbeExtension, [6]spec.Word{eid})
		v, err := ret.Result()
		if err != nil {
			return fmt.Errorf("probe %s: %w", name, err)
		}
		support := "no"
		if v != spec.UnavailableExtension {
			support = "yes"
		}
		fmt.Printf("  %-4s %#10x %s\n", name, eid, support)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sbiprobe: %v\n", err)
		os.Exit(1)
	}
}
