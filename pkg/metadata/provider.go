package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/observability"
)

// Provider supplies a resolved dependency document.
type Provider interface {
	// Name identifies the provider in log output.
	Name() string
	// Metadata returns the decoded document.
	Metadata(ctx context.Context) (*Document, error)
}

// Options are the resolver inputs passed through to cargo.
type Options struct {
	ManifestPath      string
	Features          string
	AllFeatures       bool
	NoDefaultFeatures bool
	Target            string // filter to this target triple; host when empty
	AllTargets        bool   // do not filter by platform at all
	Quiet             bool
	Verbose           int
	Color             string
	Frozen            bool
	Locked            bool
	Offline           bool
	UnstableFlags     []string
}

// Cargo runs `cargo metadata` to obtain the document.
type Cargo struct {
	Options Options

	// Stderr receives the subprocesses' diagnostics. Defaults to os.Stderr.
	Stderr io.Writer

	// Logger receives debug output about the commands run. May be nil.
	Logger *log.Logger
}

// Name implements Provider.
func (c *Cargo) Name() string { return "cargo metadata" }

// Metadata implements Provider.
func (c *Cargo) Metadata(ctx context.Context) (*Document, error) {
	if c.Options.ManifestPath != "" {
		if err := errs.ValidateManifestPath(c.Options.ManifestPath); err != nil {
			return nil, err
		}
	}

	target := c.Options.Target
	if !c.Options.AllTargets && target == "" {
		host, err := c.HostTarget(ctx)
		if err != nil {
			return nil, err
		}
		target = host
	}

	out, err := c.output(ctx, "cargo metadata", envOr("CARGO", "cargo"), c.args(target)...)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(out))
}

// HostTarget returns the host triple reported by `rustc -vV`.
func (c *Cargo) HostTarget(ctx context.Context) (string, error) {
	out, err := c.output(ctx, "rustc", envOr("RUSTC", "rustc"), "-vV")
	if err != nil {
		return "", err
	}
	return parseHost(string(out))
}

// args builds the cargo argument list. An empty target means no platform filter.
func (c *Cargo) args(target string) []string {
	o := c.Options
	args := []string{"metadata", "--format-version", "1"}

	if o.Quiet {
		args = append(args, "-q")
	}
	if o.Features != "" {
		args = append(args, "--features", o.Features)
	}
	if o.AllFeatures {
		args = append(args, "--all-features")
	}
	if o.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	if !o.AllTargets && target != "" {
		args = append(args, "--filter-platform", target)
	}
	if o.ManifestPath != "" {
		args = append(args, "--manifest-path", o.ManifestPath)
	}
	for i := 0; i < o.Verbose; i++ {
		args = append(args, "-v")
	}
	if o.Color != "" {
		args = append(args, "--color", o.Color)
	}
	if o.Frozen {
		args = append(args, "--frozen")
	}
	if o.Locked {
		args = append(args, "--locked")
	}
	if o.Offline {
		args = append(args, "--offline")
	}
	for _, flag := range o.UnstableFlags {
		args = append(args, "-Z", flag)
	}
	return args
}

func (c *Cargo) output(ctx context.Context, job, name string, args ...string) ([]byte, error) {
	if c.Logger != nil {
		c.Logger.Debug("running", "job", job, "cmd", name, "args", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = c.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	hooks := observability.Command()
	hooks.OnCommandStart(ctx, name, args)
	start := time.Now()
	out, err := cmd.Output()
	hooks.OnCommandComplete(ctx, name, time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, errs.New(errs.ErrCodeProviderFailed, "%s returned %s", job, exitErr.ProcessState)
		}
		return nil, errs.Wrap(errs.ErrCodeProviderFailed, err, "error running %s", job)
	}
	return out, nil
}

func parseHost(output string) (string, error) {
	const prefix = "host: "
	for _, line := range strings.Split(output, "\n") {
		if host, ok := strings.CutPrefix(line, prefix); ok {
			return strings.TrimSpace(host), nil
		}
	}
	return "", errs.New(errs.ErrCodeProviderFailed, "host missing from rustc output")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// File reads a previously captured document. A Path of "-" reads Stdin.
type File struct {
	Fs    afero.Fs
	Path  string
	Stdin io.Reader
}

// Name implements Provider.
func (f *File) Name() string {
	if f.Path == "-" {
		return "stdin"
	}
	return f.Path
}

// Metadata implements Provider.
func (f *File) Metadata(ctx context.Context) (*Document, error) {
	if f.Path == "-" {
		r := f.Stdin
		if r == nil {
			r = os.Stdin
		}
		return Decode(r)
	}

	fs := f.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	file, err := fs.Open(f.Path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", f.Path)
	}
	defer file.Close()
	return Decode(file)
}

// Decode parses a document and checks that it carries a resolve section.
// Per-edge validation happens when the graph is built.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "error parsing cargo metadata output")
	}
	if doc.Resolve == nil {
		return nil, errs.New(errs.ErrCodeMalformedInput, "cargo metadata output has no resolve section")
	}
	return &doc, nil
}
