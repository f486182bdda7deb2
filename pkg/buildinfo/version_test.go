package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset(t *testing.T, version, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/matzehuels/deptree", Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	t.Run("unset", func(t *testing.T) {
		reset(t, "dev", "none", "unknown")
		fill(bi)
		assert.Equal(t, "version: v0.3.1\ncommit: abc123\nbuilt: 2026-01-02T03:04:05Z", String())
	})

	t.Run("ldflags win", func(t *testing.T) {
		reset(t, "v1.0.0", "deadbeef", "today")
		fill(bi)
		assert.Equal(t, "version: v1.0.0\ncommit: deadbeef\nbuilt: today", String())
	})

	t.Run("devel build", func(t *testing.T) {
		reset(t, "dev", "none", "unknown")
		fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		assert.Equal(t, "{{.Name}} version dev\ncommit: none\nbuilt: unknown\n", Template())
	})
}
