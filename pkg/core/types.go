package core

import (
	"errors"
	"fmt"
)

// CardRecord is a single card from the catalog. PAN is the identity;
// the rest of the fields are optional depending on how the lab card
// was provisioned.
type CardRecord struct {
	PAN         string
	Expiry      string
	CVV1        string
	CVV2        string
	Description string
}

// HasTrackData reports whether the card carries everything an off-us
// counterpart needs (expiry and both CVVs).
func (c CardRecord) HasTrackData() bool {
	return c.Expiry != "" && c.CVV1 != "" && c.CVV2 != ""
}

// MerchantRecord is a single merchant from the catalog. Identity is (Org, ID).
type MerchantRecord struct {
	Org         string
	ID          string
	Currency    string
	Terminal    string
	Description string
}

// VersionMode is resolved once at session start and never mutated.
// Either a single protocol version runs, or the V1 and V2 versions run
// together as two coordinated tracks.
type VersionMode struct {
	Dual    bool
	Version string
}

func SingleVersion(version string) VersionMode {
	return VersionMode{Version: version}
}

func DualVersion() VersionMode {
	return VersionMode{Dual: true}
}

// Track labels for dual-version runs.
const (
	TrackV1 = "V1"
	TrackV2 = "V2"
)

// CombinedTest maps a user-facing combined test name to its underlying
// version-specific names. Either side may be empty.
type CombinedTest struct {
	V1 string `yaml:"v1,omitempty"`
	V2 string `yaml:"v2,omitempty"`
}

// ErrCanceled marks a deliberate user abort at any prompt. The run
// terminates cleanly with exit code 0.
var ErrCanceled = errors.New("canceled by user")

// NotFoundError is returned when a requested network key is absent from
// the catalog. Fatal to the run; presenting an empty choice set to the
// user would be ambiguous with "no match".
type NotFoundError struct {
	Network string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("network %q not found in card catalog", e.Network)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// DataDefectError marks a configuration-data defect detected mid-flow,
// such as an on-us card missing the fields its off-us counterpart needs.
// It is reported to the user with a corrective instruction and the run
// exits 0; it is not a crash.
type DataDefectError struct {
	Msg string
}

func (e *DataDefectError) Error() string {
	return e.Msg
}

func IsDataDefect(err error) bool {
	var dd *DataDefectError
	return errors.As(err, &dd)
}
