package pkg

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert"
	"github.com/posops/termpick/pkg/core"
)

func testScheduler(dryRun bool) (*Scheduler, *bytes.Buffer) {
	var b bytes.Buffer
	s := NewScheduler(nullLogger(), &Porcelain{Out: &b}, nil)
	s.DryRun = dryRun
	s.Out = &b
	return s, &b
}

func TestExecuteNoRunnableTracks(t *testing.T) {
	s, _ := testScheduler(true)
	empty := NewTrack(core.TrackV1, []string{"robot"})

	_, err := s.Execute(core.DualVersion(), []*Track{empty}, "results", "suites")
	assert.Error(t, err)
}

func TestExecuteSingleVersionLayout(t *testing.T) {
	s, _ := testScheduler(true)
	tr := NewTrack("", []string{"robot"})
	tr.AddTest("AUAI Onus")

	code, err := s.Execute(core.SingleVersion("V1"), []*Track{tr}, "results/20240101-120000", "suites")
	assert.NoError(t, err)
	assert.Equal(t, code, 0)

	argv := tr.Argv()
	// outputdir and suite path are always the final tokens, and the
	// single-version run writes directly into the run directory
	assert.Equal(t, argv[len(argv)-3:], []string{"--outputdir", "results/20240101-120000", "suites"})
}

func TestExecuteDualDropsTrackWithoutTests(t *testing.T) {
	s, _ := testScheduler(true)
	v1 := NewTrack(core.TrackV1, []string{"robot"})
	v1.AddTest("AUAI Onus")
	v2 := NewTrack(core.TrackV2, []string{"robot"})
	v2.AddVariable(VarCombinedTestName, "V1 Only Flow")

	code, err := s.Execute(core.DualVersion(), []*Track{v1, v2}, "results/run", "suites")
	assert.NoError(t, err)
	assert.Equal(t, code, 0)

	assert.True(t, v1.Finalized())
	assert.False(t, v2.Finalized())

	// the sibling never runs, so no cross-reference variables exist
	assert.False(t, hasVariable(v1, VarV2OutputFile, filepath.Join("results/run", "V2", "output.xml")))
}

func TestExecuteDualCrossOutputVariables(t *testing.T) {
	s, _ := testScheduler(true)
	v1 := NewTrack(core.TrackV1, []string{"robot"})
	v1.AddTest("AUAI Onus")
	v2 := NewTrack(core.TrackV2, []string{"robot"})
	v2.AddTest("AUAI Offus")

	code, err := s.Execute(core.DualVersion(), []*Track{v1, v2}, "results/run", "suites")
	assert.NoError(t, err)
	assert.Equal(t, code, 0)

	assert.True(t, hasVariable(v1, VarV2OutputFile, filepath.Join("results/run", "V2", "output.xml")))
	assert.True(t, hasVariable(v2, VarV1OutputFile, filepath.Join("results/run", "V1", "output.xml")))

	// per-track output directories, path token last
	argv1 := v1.Argv()
	assert.Equal(t, argv1[len(argv1)-3:], []string{"--outputdir", filepath.Join("results/run", "V1"), "suites"})
	argv2 := v2.Argv()
	assert.Equal(t, argv2[len(argv2)-3:], []string{"--outputdir", filepath.Join("results/run", "V2"), "suites"})

	assert.Equal(t, v1.OutputDir(), filepath.Join("results/run", "V1"))
	assert.Equal(t, v2.OutputDir(), filepath.Join("results/run", "V2"))
}

func TestExecuteDryRunPrintsPlans(t *testing.T) {
	s, out := testScheduler(true)
	tr := NewTrack("", []string{"robot"})
	tr.AddTest("AUAI Onus")

	_, err := s.Execute(core.SingleVersion("V1"), []*Track{tr}, "results/run", "suites")
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "robot --test 'AUAI Onus'")
}

func TestExecuteForegroundPropagatesExitStatus(t *testing.T) {
	root := t.TempDir()

	s, _ := testScheduler(false)
	ok := NewTrack("", []string{"true"})
	ok.AddTest("A")
	code, err := s.Execute(core.SingleVersion("V1"), []*Track{ok}, filepath.Join(root, "ok"), "suites")
	assert.NoError(t, err)
	assert.Equal(t, code, 0)

	s, _ = testScheduler(false)
	bad := NewTrack("", []string{"false"})
	bad.AddTest("A")
	code, err = s.Execute(core.SingleVersion("V1"), []*Track{bad}, filepath.Join(root, "bad"), "suites")
	assert.NoError(t, err)
	assert.Equal(t, code, 1)
}

func TestExecuteConcurrentAwaitsBothAndPrefixesOutput(t *testing.T) {
	root := t.TempDir()

	s, out := testScheduler(false)
	v1 := NewTrack(core.TrackV1, []string{"echo"})
	v1.AddTest("AUAI Onus")
	v2 := NewTrack(core.TrackV2, []string{"echo"})
	v2.AddTest("AUAI Offus")

	code, err := s.Execute(core.DualVersion(), []*Track{v1, v2}, root, "suites")
	assert.NoError(t, err)
	assert.Equal(t, code, 0)

	assert.Contains(t, out.String(), "[V1]")
	assert.Contains(t, out.String(), "[V2]")
	assert.Contains(t, out.String(), "passed")
}

func TestExecuteConcurrentSurfacesFailure(t *testing.T) {
	root := t.TempDir()

	s, out := testScheduler(false)
	v1 := NewTrack(core.TrackV1, []string{"false"})
	v1.AddTest("A")
	v2 := NewTrack(core.TrackV2, []string{"true"})
	v2.AddTest("B")

	// the healthy sibling is still awaited and reported; the failing
	// track's status becomes the run's exit code
	code, err := s.Execute(core.DualVersion(), []*Track{v1, v2}, root, "suites")
	assert.NoError(t, err)
	assert.Equal(t, code, 1)
	assert.Contains(t, out.String(), "failed")
	assert.Contains(t, out.String(), "passed")
}
