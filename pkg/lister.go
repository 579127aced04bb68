package pkg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/posops/termpick/pkg/logging"
)

// Lister enumerates the available test case names of a suite path.
type Lister interface {
	List(path string) ([]string, error)
}

// NewLister picks the configured external lister when one is set, and
// falls back to scanning the suite tree directly.
func NewLister(runner *RunnerConfig, logger logging.Logger) Lister {
	if len(runner.Lister) > 0 {
		return &ExecLister{Argv: runner.Lister, Logger: logger}
	}
	return &SuiteScanLister{Logger: logger}
}

// ExecLister runs an external listing program with the suite path
// appended and reads one test name per stdout line.
type ExecLister struct {
	Argv   []string
	Logger logging.Logger
}

func (l *ExecLister) List(path string) ([]string, error) {
	argv := append(append([]string{}, l.Argv...), path)
	l.Logger.WithField("argv", strings.Join(argv, " ")).Debug("listing test cases")

	out, err := exec.Command(argv[0], argv[1:]...).Output()
	if err != nil {
		return nil, fmt.Errorf("test case lister failed: %v", err)
	}

	names := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	return names, scanner.Err()
}

// SuiteScanLister walks the suite tree and scans suite files for their
// test case tables. Used when no external lister is configured.
type SuiteScanLister struct {
	Logger logging.Logger
}

func (l *SuiteScanLister) List(path string) ([]string, error) {
	names := []string{}
	err := godirwalk.Walk(path, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if !de.IsRegular() || !isSuiteFile(osPathname) {
				return nil
			}
			f, err := os.Open(osPathname)
			if err != nil {
				return err
			}
			defer f.Close()
			names = append(names, scanTestNames(f)...)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func isSuiteFile(path string) bool {
	return strings.HasSuffix(path, ".robot") || strings.HasSuffix(path, ".txt")
}

// scanTestNames extracts test case names from one suite file: the
// unindented lines under a "*** Test Cases ***" table, up to the next
// table header.
func scanTestNames(r io.Reader) []string {
	names := []string{}
	inTable := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "***") {
			header := strings.ToUpper(strings.Trim(line, "* \t"))
			inTable = strings.HasPrefix(header, "TEST CASE")
			continue
		}
		if !inTable || line == "" {
			continue
		}
		// indented lines are the test's steps, not its name
		if line[0] == ' ' || line[0] == '\t' || line[0] == '#' {
			continue
		}
		names = append(names, strings.TrimSpace(line))
	}
	return names
}
