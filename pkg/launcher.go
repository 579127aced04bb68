package pkg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/posops/termpick/pkg/core"
	"github.com/posops/termpick/pkg/logging"
	"github.com/samber/lo"
)

// Launcher drives one interactive run: resolve the version mode, let
// the user select test cases, attach the variables the selection needs,
// and hand the composed tracks to the scheduler.
//
// Config and Catalog are read-only once built; the tracks are composed
// incrementally during the run and consumed exactly once.
type Launcher struct {
	Config    *ConfigFile
	SuitePath string
	Porcelain *Porcelain
	Picker    Picker
	Lister    Lister
	Scheduler *Scheduler
	Logger    logging.Logger

	// Now stamps the per-run output directory; overridable in tests.
	Now func() time.Time

	// resolved at the start of Run
	Mode    core.VersionMode
	Catalog *core.Catalog
}

func NewLauncher(cfg *ConfigFile, suitePath string, dryRun bool, logger logging.Logger) (*Launcher, error) {
	env, err := cfg.RunnerEnv()
	if err != nil {
		return nil, err
	}

	porcelain := &Porcelain{Out: os.Stdout}
	scheduler := NewScheduler(logger, porcelain, env)
	scheduler.DryRun = dryRun

	return &Launcher{
		Config:    cfg,
		SuitePath: suitePath,
		Porcelain: porcelain,
		Picker:    NewSurveyPicker(),
		Lister:    NewLister(&cfg.Runner, logger),
		Scheduler: scheduler,
		Logger:    logger,
		Now:       time.Now,
	}, nil
}

// Run performs the whole flow and returns the run's exit code. A
// core.ErrCanceled or DataDefectError return means the run stopped
// cleanly before anything was launched.
func (l *Launcher) Run() (int, error) {
	l.Porcelain.PrintContext(l.Config.Project, l.Config.LoadedFrom)
	l.Porcelain.VSpace(1)

	mode, err := l.resolveMode()
	if err != nil {
		return 0, err
	}
	l.Mode = mode
	l.Catalog = l.Config.Catalog(mode.Version)

	tracks, err := l.Plan()
	if err != nil {
		return 0, err
	}

	outputRoot := filepath.Join(l.Config.OutputRoot, l.Now().Format("20060102-150405"))
	return l.Scheduler.Execute(l.Mode, tracks, outputRoot, l.SuitePath)
}

// Plan builds the fully composed (but not finalized) tracks of the run:
// base tokens, --test tokens, and every attached variable.
func (l *Launcher) Plan() ([]*Track, error) {
	attacher := &Attacher{
		Catalog:   l.Catalog,
		Picker:    l.Picker,
		Blacklist: l.Config.BlacklistPatterns(),
		Logger:    l.Logger,
	}
	prefix := l.Config.Runner.Prefix()

	if l.Mode.Dual {
		names := lo.Keys(l.Config.Mapping)
		sort.Strings(names)

		selection, err := l.Picker.PickMulti("Select test cases", names)
		if err != nil {
			return nil, err
		}
		v1, v2, err := BuildDualTracks(prefix, l.Config.Mapping, selection)
		if err != nil {
			return nil, err
		}
		if err := attacher.AttachDual(v1, v2, selection); err != nil {
			return nil, err
		}
		return []*Track{v1, v2}, nil
	}

	names, err := l.Lister.List(l.SuitePath)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no test cases found under %v", l.SuitePath)
	}

	selection, err := l.Picker.PickMulti("Select test cases", names)
	if err != nil {
		return nil, err
	}
	track := BuildSingleTrack(prefix, selection)
	if err := attacher.AttachSingle(track, selection); err != nil {
		return nil, err
	}
	return []*Track{track}, nil
}

// resolveMode prompts for the protocol version of this session. The
// dual option is only offered when a V1/V2 mapping table is configured.
func (l *Launcher) resolveMode() (core.VersionMode, error) {
	options := append([]string{}, l.Config.Versions.Available...)
	if len(l.Config.Mapping) > 0 {
		options = append(options, l.Config.Versions.DualLabel)
	}

	choice, err := l.Picker.Pick("Select protocol version", options)
	if err != nil {
		return core.VersionMode{}, err
	}
	if choice == l.Config.Versions.DualLabel {
		return core.DualVersion(), nil
	}
	return core.SingleVersion(choice), nil
}

// ListTests prints the discovered test case names of the suite path.
func (l *Launcher) ListTests() error {
	names, err := l.Lister.List(l.SuitePath)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(l.Porcelain.Out, name)
	}
	return nil
}
