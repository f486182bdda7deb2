package pipeline

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/graph"
	"github.com/matzehuels/deptree/pkg/metadata"
	"github.com/matzehuels/deptree/pkg/observability"
)

// countingProvider wraps the fixture and counts calls.
type countingProvider struct {
	metadata.Provider
	calls int
}

func (p *countingProvider) Metadata(ctx context.Context) (*metadata.Document, error) {
	p.calls++
	return p.Provider.Metadata(ctx)
}

func fixtureRunner() (*Runner, *countingProvider) {
	p := &countingProvider{Provider: &metadata.File{Fs: afero.NewOsFs(), Path: "../metadata/testdata/app.json"}}
	var logs bytes.Buffer
	return NewRunner(p, log.New(&logs)), p
}

func TestExecuteTree(t *testing.T) {
	r, _ := fixtureRunner()

	var out bytes.Buffer
	result, err := r.Execute(context.Background(), &out, Options{NoDevDependencies: true, MaxDepth: intPtr(1)})
	require.NoError(t, err)

	want := "app v0.1.0 (/src/app)\n" +
		"├── log v0.4.8\n" +
		"├── rand_core v0.6.0\n" +
		"└── serde v1.0.100\n" +
		"[build-dependencies]\n" +
		"├── cc v1.0.50\n" +
		"└── log v0.4.8\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("Execute() output mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 9, result.Stats.PackageCount)
	assert.Equal(t, 6, result.Stats.NodeCount)
	assert.Equal(t, 6, result.Stats.EdgeCount)
	assert.Zero(t, result.Stats.Cycles)
	require.Len(t, result.Roots, 1)
	assert.Equal(t, "app", result.Graph.Node(result.Roots[0]).ID.Name)
}

func TestExecuteDuplicates(t *testing.T) {
	r, _ := fixtureRunner()

	var out bytes.Buffer
	result, err := r.Execute(context.Background(), &out, Options{Duplicates: true, Charset: "ascii"})
	require.NoError(t, err)

	want := "rand_core v0.5.1\n" +
		"`-- rand v0.7.3\n" +
		"    [dev-dependencies]\n" +
		"    `-- app v0.1.0 (/src/app)\n" +
		"\n" +
		"rand_core v0.6.0\n" +
		"`-- app v0.1.0 (/src/app)\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("Execute() output mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, result.Roots, 2)
}

func TestExecuteAmbiguousPackage(t *testing.T) {
	r, _ := fixtureRunner()

	var out bytes.Buffer
	_, err := r.Execute(context.Background(), &out, Options{Package: "rand_core"})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeAmbiguousPackage))
	assert.Zero(t, out.Len())

	var offered []string
	choose := func(g *graph.Graph, query string, candidates []int) (int, error) {
		for _, c := range candidates {
			offered = append(offered, g.Node(c).ID.Spec())
		}
		return candidates[len(candidates)-1], nil
	}
	_, err = r.Execute(context.Background(), &out, Options{Package: "rand_core", Invert: true, Choose: choose})
	require.NoError(t, err)
	assert.Equal(t, []string{"rand_core:0.5.1", "rand_core:0.6.0"}, offered)
	assert.Equal(t, "rand_core v0.6.0\n└── app v0.1.0 (/src/app)\n", out.String())
}

func TestExecuteValidatesBeforeLoading(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"bad format", Options{Format: "{p} {x}"}, errs.ErrCodeFormatPattern},
		{"bad charset", Options{Charset: "latin1"}, errs.ErrCodeInvalidInput},
		{"negative depth", Options{MaxDepth: intPtr(-2)}, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, p := fixtureRunner()
			var out bytes.Buffer
			_, err := r.Execute(context.Background(), &out, tt.opts)
			require.Error(t, err)
			assert.True(t, errs.Is(err, tt.code), "code = %s", errs.GetCode(err))
			assert.Zero(t, p.calls, "metadata must not be loaded")
			assert.Zero(t, out.Len())
		})
	}
}

func TestExecutePackageNotFound(t *testing.T) {
	r, _ := fixtureRunner()
	var out bytes.Buffer
	_, err := r.Execute(context.Background(), &out, Options{Package: "unused"})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodePackageNotFound))
	assert.Zero(t, out.Len())
}

func TestExecuteCanceled(t *testing.T) {
	r, p := fixtureRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Execute(ctx, &bytes.Buffer{}, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, p.calls)
}

func TestLoadReportsCycles(t *testing.T) {
	doc := `{
		"packages": [
			{"id": "a", "name": "a", "version": "1.0.0", "source": null, "manifest_path": "/a/Cargo.toml"},
			{"id": "b", "name": "b", "version": "1.0.0", "source": null, "manifest_path": "/b/Cargo.toml"}
		],
		"resolve": {
			"root": "a",
			"nodes": [
				{"id": "a", "dependencies": ["b"], "deps": [{"name": "b", "pkg": "b", "dep_kinds": [{"kind": null}]}]},
				{"id": "b", "dependencies": ["a"], "deps": [{"name": "a", "pkg": "a", "dep_kinds": [{"kind": "dev"}]}]}
			]
		}
	}`
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/metadata.json", []byte(doc), 0o644))

	var logs bytes.Buffer
	r := NewRunner(&metadata.File{Fs: fs, Path: "/metadata.json"}, log.New(&logs))
	g, stats, err := r.Load(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, stats.Cycles)
	assert.Contains(t, logs.String(), "dependency cycle")
	assert.Contains(t, logs.String(), "a v1.0.0, b v1.0.0")

	logs.Reset()
	g, stats, err = r.Load(context.Background(), Options{NoDevDependencies: true})
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())
	assert.Zero(t, stats.Cycles)
	assert.NotContains(t, logs.String(), "dependency cycle")
}

func TestLoadAcyclicDoesNotWarn(t *testing.T) {
	p := &metadata.File{Fs: afero.NewOsFs(), Path: "../metadata/testdata/app.json"}
	var logs bytes.Buffer
	_, stats, err := NewRunner(p, log.New(&logs)).Load(context.Background(), Options{})
	require.NoError(t, err)
	assert.Zero(t, stats.Cycles)
	assert.Empty(t, logs.String())
}

func TestLoadWithoutProvider(t *testing.T) {
	_, _, err := NewRunner(nil, nil).Load(context.Background(), Options{})
	assert.True(t, errs.Is(err, errs.ErrCodeInternal))
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnMetadataStart(context.Context, string) { h.record("metadata-start") }
func (h *recordingHooks) OnMetadataComplete(context.Context, string, int, time.Duration, error) {
	h.record("metadata-complete")
}
func (h *recordingHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {
	h.record("build-complete")
}
func (h *recordingHooks) OnRenderStart(_ context.Context, mode string) { h.record("render-start:" + mode) }
func (h *recordingHooks) OnRenderComplete(_ context.Context, mode string, _ time.Duration, err error) {
	if err != nil {
		h.record("render-failed:" + mode)
		return
	}
	h.record("render-complete:" + mode)
}

func TestExecuteEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r, _ := fixtureRunner()
	_, err := r.Execute(context.Background(), &bytes.Buffer{}, Options{Duplicates: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"metadata-start",
		"metadata-complete",
		"build-complete",
		"render-start:duplicates",
		"render-complete:duplicates",
	}, hooks.events)
}
