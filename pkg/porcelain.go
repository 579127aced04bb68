package pkg

import (
	"fmt"
	"io"
	"strings"
	"time"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fatih/color"
	"github.com/jftuga/ellipsis"
	"github.com/posops/termpick/pkg/core"
)

// Picker is the interactive selection surface the launcher depends on.
// Every method reports a user abort as core.ErrCanceled.
type Picker interface {
	Pick(message string, options []string) (string, error)
	PickIndex(message string, options []string) (int, error)
	PickMulti(message string, options []string) ([]string, error)
}

// SurveyPicker drives real terminal prompts with fuzzy filtering.
type SurveyPicker struct {
	PageSize int
}

func NewSurveyPicker() *SurveyPicker {
	return &SurveyPicker{PageSize: 10}
}

func (s *SurveyPicker) Pick(message string, options []string) (string, error) {
	choice := ""
	prompt := &survey.Select{Message: message, Options: options, PageSize: s.PageSize}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", pickErr(err)
	}
	return choice, nil
}

func (s *SurveyPicker) PickIndex(message string, options []string) (int, error) {
	idx := 0
	prompt := &survey.Select{Message: message, Options: options, PageSize: s.PageSize}
	if err := survey.AskOne(prompt, &idx); err != nil {
		return 0, pickErr(err)
	}
	return idx, nil
}

func (s *SurveyPicker) PickMulti(message string, options []string) ([]string, error) {
	selected := []string{}
	prompt := &survey.MultiSelect{Message: message, Options: options, PageSize: s.PageSize}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, pickErr(err)
	}
	// confirming an empty selection is an abort, same as an interrupt
	if len(selected) == 0 {
		return nil, core.ErrCanceled
	}
	return selected, nil
}

func pickErr(err error) error {
	if err == terminal.InterruptErr {
		return core.ErrCanceled
	}
	return err
}

// Porcelain is the textual UI around the launcher.
type Porcelain struct {
	Out io.Writer
}

func (p *Porcelain) PrintContext(project, loadedFrom string) {
	green := color.New(color.FgGreen).SprintFunc()
	white := color.New(color.FgWhite).SprintFunc()

	fmt.Fprintf(p.Out, "-*- %s: %s configured from %s -*-\n", white("termpick"), green(project), green(loadedFrom))
}

func (p *Porcelain) VSpace(size int) {
	fmt.Fprint(p.Out, strings.Repeat("\n", size))
}

func (p *Porcelain) PrintTrackPlan(t *Track) {
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	label := t.Label
	if label == "" {
		label = "run"
	}
	fmt.Fprintf(p.Out, "[%s] %s\n", yellow(label), gray(t.String()))
}

func (p *Porcelain) PrintTrackStarted(label string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(p.Out, "[%s] started\n", yellow(label))
}

func (p *Porcelain) PrintTrackResult(label string, err error, elapsed time.Duration) {
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if err != nil {
		fmt.Fprintf(p.Out, "[%s] %s in %v: %v\n", yellow(label), red("failed"), elapsed, err)
		return
	}
	fmt.Fprintf(p.Out, "[%s] %s in %v\n", yellow(label), green("passed"), elapsed)
}

func (p *Porcelain) PrintDataDefect(msg string) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(p.Out, "%s: %s\n", red("configuration problem"), msg)
}

func (p *Porcelain) PrintCanceled() {
	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Fprintf(p.Out, "%s\n", gray("nothing selected, bye"))
}

// CardLabels renders prompt labels for a card list, index-aligned with it.
func CardLabels(cards []core.CardRecord) []string {
	labels := make([]string, 0, len(cards))
	for _, c := range cards {
		if c.Description == "" {
			labels = append(labels, c.PAN)
			continue
		}
		labels = append(labels, fmt.Sprintf("%s (%s)", c.PAN, ellipsis.Shorten(c.Description, 30))) //nolint: gomnd
	}
	return labels
}

// MerchantLabels renders prompt labels for a merchant list, index-aligned.
func MerchantLabels(merchants []core.MerchantRecord) []string {
	labels := make([]string, 0, len(merchants))
	for _, m := range merchants {
		label := m.ID
		if m.Org != "" {
			label = fmt.Sprintf("%s/%s", m.Org, m.ID)
		}
		if m.Description != "" {
			label = fmt.Sprintf("%s (%s)", label, ellipsis.Shorten(m.Description, 30)) //nolint: gomnd
		}
		labels = append(labels, label)
	}
	return labels
}
