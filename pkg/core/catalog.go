package core

import (
	"sort"
	"strings"
)

// NetworkCards holds both card sets of one payment network.
type NetworkCards struct {
	OnUs  []CardRecord
	OffUs []CardRecord
}

// Catalog is the typed, read-only view over the card and merchant
// records of one session. Network keys are case-insensitive. Built once
// by the config load step and never mutated afterwards.
type Catalog struct {
	networks  map[string]NetworkCards
	merchants []MerchantRecord
}

func NewCatalog(networks map[string]NetworkCards, merchants []MerchantRecord) *Catalog {
	normalized := make(map[string]NetworkCards, len(networks))
	for name, cards := range networks {
		normalized[strings.ToUpper(name)] = cards
	}
	return &Catalog{networks: normalized, merchants: merchants}
}

// Cards returns the ordered card list of a network, off-us or on-us.
// A missing network key is a NotFoundError, never an empty list.
func (c *Catalog) Cards(network string, offUs bool) ([]CardRecord, error) {
	set, ok := c.networks[strings.ToUpper(network)]
	if !ok {
		return nil, &NotFoundError{Network: network}
	}
	if offUs {
		return set.OffUs, nil
	}
	return set.OnUs, nil
}

// Merchants returns the ordered merchant list of the active version.
func (c *Catalog) Merchants() []MerchantRecord {
	return c.merchants
}

// OnUsNetworks lists the networks that carry at least one on-us card,
// sorted for stable prompts.
func (c *Catalog) OnUsNetworks() []string {
	return c.networksWith(false)
}

// OffUsNetworks lists the networks that carry at least one off-us card.
func (c *Catalog) OffUsNetworks() []string {
	return c.networksWith(true)
}

func (c *Catalog) networksWith(offUs bool) []string {
	keys := []string{}
	for name, set := range c.networks {
		cards := set.OnUs
		if offUs {
			cards = set.OffUs
		}
		if len(cards) > 0 {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys
}
