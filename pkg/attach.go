package pkg

import (
	"fmt"

	"github.com/posops/termpick/pkg/core"
	"github.com/posops/termpick/pkg/logging"
	"github.com/posops/termpick/pkg/utils"
	"github.com/samber/lo"
)

// canonical markers inside test case names, matched case-insensitively
const (
	markerOffUs      = "OFFUS"
	markerQRIssuer   = "QR ISS"
	markerQRAcquirer = "QR ACQ"
)

// Classification is the result of scanning the full selection for the
// canonical markers. It decides which card prompts a run needs.
type Classification struct {
	OnUs       bool
	OffUs      bool
	QRIssuer   bool
	QRAcquirer bool
}

func Classify(selection []string) Classification {
	c := Classification{}
	for _, name := range selection {
		if utils.ContainsFold(name, markerOffUs) {
			c.OffUs = true
		} else {
			c.OnUs = true
		}
		if utils.ContainsFold(name, markerQRIssuer) {
			c.QRIssuer = true
		}
		if utils.ContainsFold(name, markerQRAcquirer) {
			c.QRAcquirer = true
		}
	}
	return c
}

func (c Classification) QR() bool {
	return c.QRIssuer || c.QRAcquirer
}

// Attacher resolves which card and merchant variables a selection
// requires and appends them to the right track(s), prompting the user
// for each concrete record.
type Attacher struct {
	Catalog   *core.Catalog
	Picker    Picker
	Blacklist []string
	Logger    logging.Logger
}

// AttachSingle attaches card and merchant variables to the lone track of
// a single-version run. The off-us/on-us prompts and the QR prompt are
// independent, so up to two card prompts can occur in one session.
func (a *Attacher) AttachSingle(track *Track, selection []string) error {
	cls := Classify(selection)
	a.Logger.WithField("classification", fmt.Sprintf("%+v", cls)).Debug("selection classified")

	network, err := a.resolveNetwork(cls)
	if err != nil {
		return err
	}

	if cls.OffUs {
		card, err := a.pickCard(network, true, "Select off-us card")
		if err != nil {
			return err
		}
		attachOffUsSet(track, card)
	}
	if cls.OnUs {
		card, err := a.pickCard(network, false, "Select on-us card")
		if err != nil {
			return err
		}
		track.AddVariable(VarOnUsCard, card.PAN)
	}
	if cls.QR() {
		msg := "Select Consumer PAN"
		if cls.QRIssuer {
			msg = "Select Merchant PAN"
		}
		card, err := a.pickCard(network, true, msg)
		if err != nil {
			return err
		}
		attachOffUsSet(track, card)
	}

	return a.attachMerchant(track, selection)
}

// AttachDual attaches card variables across the V1 and V2 tracks. Only
// the off-us/on-us classifications apply here; the on-us card doubles as
// the V2 off-us counterpart and must carry full track data.
func (a *Attacher) AttachDual(v1, v2 *Track, selection []string) error {
	cls := Classify(selection)
	a.Logger.WithField("classification", fmt.Sprintf("%+v", cls)).Debug("selection classified")

	network, err := a.resolveNetwork(cls)
	if err != nil {
		return err
	}

	if cls.OffUs {
		card, err := a.pickCard(network, true, "Select off-us card")
		if err != nil {
			return err
		}
		attachOffUsSet(v2, card)
	}
	if cls.OnUs {
		card, err := a.pickCard(network, false, "Select on-us card")
		if err != nil {
			return err
		}
		v1.AddVariable(VarOnUsCard, card.PAN)
		if !card.HasTrackData() {
			return &core.DataDefectError{
				Msg: fmt.Sprintf("card %s: set up expiry/CVV1/CVV2 in the configuration", card.PAN),
			}
		}
		attachOffUsSet(v2, card)
	}
	return nil
}

// resolveNetwork narrows the catalog's network keys by the
// classification and prompts for exactly one. Mixing on-us and off-us
// names restricts the choice to networks that support both sets.
func (a *Attacher) resolveNetwork(cls Classification) (string, error) {
	var candidates []string
	switch {
	case cls.OffUs && cls.OnUs:
		candidates = lo.Intersect(a.Catalog.OnUsNetworks(), a.Catalog.OffUsNetworks())
	case cls.OffUs:
		candidates = a.Catalog.OffUsNetworks()
	default:
		candidates = a.Catalog.OnUsNetworks()
	}

	if len(candidates) == 0 {
		return "", &core.DataDefectError{Msg: "no network in the catalog carries the card sets this selection needs"}
	}
	return a.Picker.Pick("Select network", candidates)
}

func (a *Attacher) pickCard(network string, offUs bool, message string) (core.CardRecord, error) {
	cards, err := a.Catalog.Cards(network, offUs)
	if err != nil {
		return core.CardRecord{}, err
	}
	if len(cards) == 0 {
		kind := "on-us"
		if offUs {
			kind = "off-us"
		}
		return core.CardRecord{}, &core.DataDefectError{
			Msg: fmt.Sprintf("network %s has no %s cards configured", network, kind),
		}
	}
	idx, err := a.Picker.PickIndex(message, CardLabels(cards))
	if err != nil {
		return core.CardRecord{}, err
	}
	return cards[idx], nil
}

func attachOffUsSet(track *Track, card core.CardRecord) {
	track.AddVariable(VarOffUsCardPAN, card.PAN)
	track.AddVariable(VarOffUsCardExpiry, card.Expiry)
	track.AddVariable(VarOffUsCardCVV1, card.CVV1)
	track.AddVariable(VarOffUsCardCVV2, card.CVV2)
}

// attachMerchant prompts for a merchant at most once per run: the first
// selected name that matches no blacklist pattern triggers it, the rest
// are ignored.
func (a *Attacher) attachMerchant(track *Track, selection []string) error {
	for _, name := range selection {
		if utils.ContainsAnyFold(name, a.Blacklist) {
			a.Logger.WithField("test", name).Debug("blacklisted for merchant prompt")
			continue
		}

		merchants := a.Catalog.Merchants()
		if len(merchants) == 0 {
			return &core.DataDefectError{Msg: "no merchants configured for this version"}
		}
		idx, err := a.Picker.PickIndex("Select merchant", MerchantLabels(merchants))
		if err != nil {
			return err
		}
		m := merchants[idx]
		track.AddVariable(VarMerchantOrg, m.Org)
		track.AddVariable(VarMerchantID, m.ID)
		track.AddVariable(VarMerchantTerminal, m.Terminal)
		track.AddVariable(VarMerchantCurrency, m.Currency)
		return nil
	}
	return nil
}
