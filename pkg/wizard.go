package pkg

import (
	"fmt"
	"os"
	"sort"
	"text/template"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/posops/termpick/pkg/utils"
)

// WizardAnswers collects what the setup wizard needs to render a
// starter configuration file.
type WizardAnswers struct {
	Project  string
	Mode     string
	Networks []string
	Dual     bool
}

// StartWizard asks the setup questions for a new configuration file.
func (p *Porcelain) StartWizard() (*WizardAnswers, error) {
	wd, _ := os.Getwd()
	workingfolder := utils.LastSegment(wd)

	networks := []string{"VISA", "MASTERCARD", "AMEX", "JCB", "UPI"}
	sort.Strings(networks)

	var qs = []*survey.Question{
		{
			Name: "project",
			Prompt: &survey.Input{
				Message: "Project name?",
				Default: workingfolder,
			},
			Validate: survey.Required,
		},
		{
			Name: "mode",
			Prompt: &survey.Select{
				Message: "Runner mode?",
				Options: []string{RunnerModeProduction, RunnerModeDevelopment},
				Default: RunnerModeProduction,
			},
		},
		{
			Name: "networks",
			Prompt: &survey.MultiSelect{
				Message:  "Select your card networks",
				PageSize: 10,
				Options:  networks,
			},
		},
		{
			Name: "dual",
			Prompt: &survey.Confirm{
				Message: "Will you run V1 and V2 protocol versions together?",
			},
		},
	}

	answers := WizardAnswers{}
	if err := survey.Ask(qs, &answers); err != nil {
		return nil, pickErr(err)
	}
	if len(answers.Networks) == 0 {
		return nil, fmt.Errorf("you need to select at least one network")
	}
	return &answers, nil
}

func (p *Porcelain) DidCreateNewFile(fname string) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(p.Out, "Created file: %v\n", green(fname))
}

func (p *Porcelain) AskForConfirmation(msg string) bool {
	yesno := false
	prompt := &survey.Confirm{
		Message: msg,
	}
	_ = survey.AskOne(prompt, &yesno)
	return yesno
}

// SetupNewConfig runs the interactive wizard and renders a starter
// configuration file when completed.
func SetupNewConfig(porcelain *Porcelain, fname string) error {
	answers, err := porcelain.StartWizard()
	if err != nil {
		return err
	}
	if err := renderWizardTemplate(fname, answers); err != nil {
		return err
	}
	porcelain.DidCreateNewFile(fname)
	return nil
}

func renderWizardTemplate(fname string, answers *WizardAnswers) error {
	t, err := template.New("t").Parse(ConfigTemplate)
	if err != nil {
		return err
	}
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Execute(f, answers)
}
