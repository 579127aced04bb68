package pkg

import (
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/posops/termpick/pkg/core"
)

// Variable names injected into the external runner. The QR prompts reuse
// the off-us card set; merchants only apply to single-version runs.
const (
	VarOnUsCard        = "ONUS CARD"
	VarOffUsCardPAN    = "OFFUS CARD PAN"
	VarOffUsCardExpiry = "OFFUS CARD EXPIRY"
	VarOffUsCardCVV1   = "OFFUS CARD CVV1"
	VarOffUsCardCVV2   = "OFFUS CARD CVV2"

	VarMerchantOrg      = "MERCHANT ORG"
	VarMerchantID       = "MERCHANT ID"
	VarMerchantTerminal = "MERCHANT TERMINAL"
	VarMerchantCurrency = "MERCHANT CURRENCY"

	VarCombinedTestName = "V1V2 TEST NAME"
	VarV1OutputFile     = "V1 OUTPUT FILE"
	VarV2OutputFile     = "V2 OUTPUT FILE"
)

// Track is one independently composable runner invocation: base tokens,
// then --test and --variable tokens in append order, then the
// --outputdir and suite path tokens added by Finalize. Append-only and
// consumed exactly once by the scheduler.
type Track struct {
	Label string

	tokens    []string
	testCount int
	outputDir string
	finalized bool
}

func NewTrack(label string, prefix []string) *Track {
	t := &Track{Label: label}
	t.tokens = append(t.tokens, prefix...)
	return t
}

func (t *Track) AddTest(name string) {
	t.tokens = append(t.tokens, "--test", name)
	t.testCount++
}

func (t *Track) AddVariable(name, value string) {
	t.tokens = append(t.tokens, "--variable", fmt.Sprintf("%s:%s", name, value))
}

// HasTests reports whether the track is runnable. A track without a
// single --test token is dropped, never finalized or executed.
func (t *Track) HasTests() bool {
	return t.testCount > 0
}

// Finalize closes the track with the output directory and the suite
// path. Always the last two appends.
func (t *Track) Finalize(outputDir, suitePath string) {
	t.tokens = append(t.tokens, "--outputdir", outputDir, suitePath)
	t.outputDir = outputDir
	t.finalized = true
}

func (t *Track) Finalized() bool {
	return t.finalized
}

// OutputDir returns the directory passed to Finalize; empty before that.
func (t *Track) OutputDir() string {
	return t.outputDir
}

// Argv returns a copy of the token list.
func (t *Track) Argv() []string {
	argv := make([]string, len(t.tokens))
	copy(argv, t.tokens)
	return argv
}

// String renders the track as a shell-quoted command line, for display
// only. The scheduler always launches from the token list directly.
func (t *Track) String() string {
	return shellquote.Join(t.tokens...)
}

// BuildSingleTrack builds the lone base track of a single-version run:
// runner prefix plus one --test token per selected name, in selection
// order. Variables are attached afterwards by the attachment engine.
func BuildSingleTrack(prefix []string, selection []string) *Track {
	track := NewTrack("", prefix)
	for _, name := range selection {
		track.AddTest(name)
	}
	return track
}

// BuildDualTracks builds the V1 and V2 base tracks of a dual-version
// run. Each selected combined name resolves via the mapping table to up
// to two underlying names; a --test token goes to whichever sides are
// present, and the combined name itself is attached to both tracks as
// the V1V2 TEST NAME variable regardless.
func BuildDualTracks(prefix []string, mapping map[string]core.CombinedTest, selection []string) (*Track, *Track, error) {
	v1 := NewTrack(core.TrackV1, prefix)
	v2 := NewTrack(core.TrackV2, prefix)

	for _, name := range selection {
		combined, ok := mapping[name]
		if !ok {
			return nil, nil, fmt.Errorf("combined test %q has no V1/V2 mapping", name)
		}
		if combined.V1 != "" {
			v1.AddTest(combined.V1)
		}
		if combined.V2 != "" {
			v2.AddTest(combined.V2)
		}
		v1.AddVariable(VarCombinedTestName, name)
		v2.AddVariable(VarCombinedTestName, name)
	}
	return v1, v2, nil
}
