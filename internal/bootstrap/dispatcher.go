// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"context"
	"fmt"

	"github.com/extboot/extboot/internal/config"
	"github.com/extboot/extboot/internal/extlog"
	"github.com/extboot/extboot/internal/handlerenv"
	"github.com/extboot/extboot/internal/identity"
	"github.com/extboot/extboot/internal/introspect"
	"github.com/extboot/extboot/internal/issue"
	"github.com/extboot/extboot/internal/runtime"
	"github.com/extboot/extboot/internal/seed"
)

type (
	// Options configures dispatcher construction.
	//
	// Required: Config must be non-nil. ExtensionDir defaults to ".", the
	// directory the host agent launches the bootstrap in.
	Options struct {
		Config       *config.Config
		ExtensionDir string
		// Notice receives the issue id of user-facing failure families.
		// Nil disables it.
		Notice func(id issue.Id)
	}

	// Dispatcher executes one lifecycle command per process run and
	// reports the exit status the process must end with. Install seeds
	// host configuration; commands that need a runtime forward to the
	// handler through a resolved interpreter.
	Dispatcher struct {
		Config       *config.Config
		Invoker      runtime.HandlerInvoker
		Introspector runtime.Introspector
		Identity     *identity.Store
		// Logf receives one line per dispatch event. Nil discards them.
		Logf func(format string, args ...any)
		// Notice receives the issue id of user-facing failure families,
		// for guidance rendering outside the extension log. Nil disables it.
		Notice func(id issue.Id)
	}
)

// New wires a production dispatcher. The log sink lands in the agent's
// logFolder when the handler environment descriptor is readable, falling
// back to the configured directory; the handler runs as a real child
// process inheriting the bootstrap's streams.
func New(opts Options) (*Dispatcher, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap.New: Config must not be nil")
	}
	extDir := opts.ExtensionDir
	if extDir == "" {
		extDir = "."
	}

	logDir := string(opts.Config.FallbackLogDir)
	env, envErr := handlerenv.Load(extDir)
	if envErr == nil && env.LogFolder != "" {
		logDir = env.LogFolder
	}
	sink := extlog.New(logDir)
	if envErr != nil {
		sink.Printf("handler environment unavailable (%v), logging to %s", envErr, sink.Path())
		if opts.Notice != nil {
			opts.Notice(issue.HandlerEnvInvalidId)
		}
	}

	var introspector runtime.Introspector
	if opts.Config.ReferenceProcess != "" {
		introspector = introspect.New(string(opts.Config.ReferenceProcess))
	}

	return &Dispatcher{
		Config:       opts.Config,
		Invoker:      runtime.NewExecInvoker(string(opts.Config.HandlerScript)),
		Introspector: introspector,
		Identity:     identity.New(string(opts.Config.IdentityDescriptor), extDir),
		Logf:         sink.Printf,
		Notice:       opts.Notice,
	}, nil
}

// Run executes command and returns the exit status for the process.
func (d *Dispatcher) Run(ctx context.Context, command Command) runtime.Status {
	d.logf("processing command %q", command)

	if command == CommandInstall {
		d.install()
		return runtime.StatusOK
	}
	if !command.NeedsRuntime() {
		d.logf("unrecognized command %q, nothing to do", command)
		return runtime.StatusOK
	}

	token := SequenceFromEnv(d.Config.SequenceEnv)
	if token.Found() {
		d.logf("sequence number %s from environment", token.Value())
	} else {
		d.logf("sequence number not found, defaulting to %s", token.Value())
	}

	d.compareIdentity()

	tracker := &trackingInvoker{next: d.Invoker}
	resolver := runtime.Resolver{
		Candidates:   candidatesFromConfig(d.Config.Candidates),
		GenericName:  string(d.Config.GenericRuntime),
		Introspector: d.Introspector,
		Invoker:      tracker,
		Logf:         d.logf,
	}
	status := resolver.Run(ctx, []string{token.Arg(), command.Arg()})
	if !tracker.invoked {
		d.notice(issue.RuntimeNotFoundId)
	}
	return status
}

// install seeds the workload configuration and records the machine
// identity. The installer-host contract pins install at status 0, so
// failures surface through the log only.
func (d *Dispatcher) install() {
	target := string(d.Config.WorkloadConfig)
	outcome, err := seed.Seed(target)
	switch {
	case err != nil:
		d.logf("workload config seeding failed: %v", err)
		d.notice(issue.SeedFailedId)
	case outcome == seed.OutcomeKept:
		d.logf("workload config at %s is customized, leaving it in place", target)
	default:
		if w, derr := seed.Default(); derr == nil {
			d.logf("seeded workload %q config at %s", w.Name, target)
		} else {
			d.logf("seeded default workload config at %s", target)
		}
	}

	if d.Identity == nil {
		return
	}
	if err := d.Identity.Save(); err != nil {
		d.logf("failed to record machine identity: %v", err)
	}
}

// compareIdentity logs when the machine identity differs from the recorded
// one. The comparison is diagnostic only; it never affects the exit status.
func (d *Dispatcher) compareIdentity() {
	if d.Identity == nil {
		return
	}

	current, err := d.Identity.Current()
	if err != nil {
		d.logf("machine identity check failed: %v", err)
		return
	}
	stored, err := d.Identity.Stored()
	if err != nil {
		d.logf("machine identity check failed: %v", err)
		return
	}
	if stored != "" && current != "" && stored != current {
		d.logf("machine identity changed from %s to %s", stored, current)
	}
}

// candidatesFromConfig maps config entries onto runtime candidates.
func candidatesFromConfig(entries []config.CandidateEntry) []runtime.Candidate {
	candidates := make([]runtime.Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, runtime.Candidate{
			Name:         string(e.Name),
			PrimaryDir:   string(e.PrimaryDir),
			SecondaryDir: string(e.SecondaryDir),
		})
	}
	return candidates
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.Logf != nil {
		d.Logf(format, args...)
	}
}

func (d *Dispatcher) notice(id issue.Id) {
	if d.Notice != nil {
		d.Notice(id)
	}
}

// trackingInvoker records whether any invocation happened, telling a child
// that exited with the sentinel status apart from total resolution failure.
type trackingInvoker struct {
	next    runtime.HandlerInvoker
	invoked bool
}

func (t *trackingInvoker) Invoke(ctx context.Context, interpreter string, args []string) (runtime.Status, error) {
	t.invoked = true
	return t.next.Invoke(ctx, interpreter, args)
}
