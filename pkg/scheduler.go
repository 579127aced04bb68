package pkg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/posops/termpick/pkg/core"
	"github.com/posops/termpick/pkg/logging"
	"golang.org/x/sync/errgroup"
)

// the external runner writes its result artifact under the output dir
const outputFileName = "output.xml"

// Scheduler finalizes the planned tracks and executes them: one track
// blocking in the foreground, two tracks as independent concurrent
// child processes awaited together. Tracks reach it fully composed and
// are consumed exactly once.
type Scheduler struct {
	Logger    logging.Logger
	Porcelain *Porcelain
	Env       []string
	DryRun    bool

	// stdout/stderr sink for concurrent runs; defaults to os.Stdout
	Out io.Writer
}

func NewScheduler(logger logging.Logger, porcelain *Porcelain, env []string) *Scheduler {
	return &Scheduler{
		Logger:    logger,
		Porcelain: porcelain,
		Env:       env,
		Out:       os.Stdout,
	}
}

// Execute finalizes every runnable track and runs them, returning the
// run's exit code. Tracks without a single --test token are dropped
// here and never executed.
func (s *Scheduler) Execute(mode core.VersionMode, tracks []*Track, outputRoot, suitePath string) (int, error) {
	runnable := []*Track{}
	for _, t := range tracks {
		if t.HasTests() {
			runnable = append(runnable, t)
		} else {
			s.Logger.WithField("track", t.Label).Debug("track has no tests, dropped")
		}
	}
	if len(runnable) == 0 {
		// callers abort during selection before this can happen
		return 0, fmt.Errorf("no runnable track: selection resolved to zero test names")
	}

	// cross-reference variables only exist when both siblings run
	if mode.Dual && len(runnable) == 2 {
		v1dir := filepath.Join(outputRoot, core.TrackV1)
		v2dir := filepath.Join(outputRoot, core.TrackV2)
		runnable[0].AddVariable(VarV2OutputFile, filepath.Join(v2dir, outputFileName))
		runnable[1].AddVariable(VarV1OutputFile, filepath.Join(v1dir, outputFileName))
	}

	for _, t := range runnable {
		dir := outputRoot
		if mode.Dual {
			dir = filepath.Join(outputRoot, t.Label)
		}
		t.Finalize(dir, suitePath)
	}

	if s.DryRun {
		for _, t := range runnable {
			s.Porcelain.PrintTrackPlan(t)
		}
		return 0, nil
	}

	for _, t := range runnable {
		if err := os.MkdirAll(t.OutputDir(), os.ModePerm); err != nil {
			return 0, err
		}
	}

	if len(runnable) == 1 {
		return s.runForeground(runnable[0])
	}
	return s.runConcurrent(runnable)
}

// runForeground executes one track blocking in the current working
// context, with stdio passed through.
func (s *Scheduler) runForeground(t *Track) (int, error) {
	argv := t.Argv()
	s.Logger.WithField("argv", t.String()).Debug("launching runner")

	command := exec.Command(argv[0], argv[1:]...)
	command.Env = s.Env
	command.Stdin = os.Stdin
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr

	err := command.Run()
	if code, ok := exitCode(err); ok {
		return code, nil
	}
	return 0, err
}

// runConcurrent launches every track as an independent background
// execution from the same working directory and blocks until all have
// exited. A failing sibling is never canceled; each track's output and
// status are surfaced on their own.
func (s *Scheduler) runConcurrent(tracks []*Track) (int, error) {
	var g errgroup.Group
	var mu sync.Mutex
	codes := make([]int, len(tracks))

	for i, t := range tracks {
		i, t := i, t
		s.Porcelain.PrintTrackStarted(t.Label)
		g.Go(func() error {
			argv := t.Argv()
			s.Logger.WithField("track", t.Label).WithField("argv", t.String()).Debug("launching runner")

			start := time.Now()
			command := exec.Command(argv[0], argv[1:]...)
			command.Env = s.Env

			out, err := command.CombinedOutput()
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			writePrefixed(s.Out, t.Label, out)
			s.Porcelain.PrintTrackResult(t.Label, err, elapsed)

			if code, ok := exitCode(err); ok {
				codes[i] = code
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	for _, code := range codes {
		if code != 0 {
			return code, nil
		}
	}
	return 0, nil
}

// writePrefixed surfaces a child's combined output line by line, tagged
// with its track label.
func writePrefixed(w io.Writer, label string, out []byte) {
	for _, line := range bytes.Split(bytes.TrimRight(out, "\n"), []byte("\n")) {
		if len(line) == 0 && len(out) == 0 {
			continue
		}
		fmt.Fprintf(w, "[%s] %s\n", label, line)
	}
}

// exitCode unpacks a child exit status; ok is false for spawn failures.
func exitCode(err error) (int, bool) {
	if err == nil {
		return 0, true
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode(), true
	}
	return 0, false
}
