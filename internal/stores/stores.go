// Package stores keeps the registry of retail stores the engine already
// knows about in the Kinshasa market. The registry is advisory: receipts
// from unknown stores are still ingested under their normalized name, but
// known stores get a canonical display name and alias folding so that
// "Shoprite Gombe" and "shoprite" accumulate one history.
package stores

import "github.com/goshopper/price-engine/internal/matching"

// Store is one known retail store.
type Store struct {
	Slug    string   // canonical store key, already normalized
	Name    string   // display name
	Aliases []string // normalized alternative spellings seen on receipts
}

// Known returns the registry of stores the engine recognizes.
func Known() []Store {
	return []Store{
		{Slug: "shoprite", Name: "Shoprite", Aliases: []string{"shoprite gombe", "shoprite kinshasa"}},
		{Slug: "kin marche", Name: "Kin Marché", Aliases: []string{"kin marche gombe", "kinmarche"}},
		{Slug: "kin mart", Name: "Kin Mart", Aliases: []string{"kinmart"}},
		{Slug: "hyper psaro", Name: "Hyper Psaro", Aliases: []string{"psaro", "hyperpsaro"}},
		{Slug: "carrefour market", Name: "Carrefour Market", Aliases: []string{"carrefour"}},
		{Slug: "monishop", Name: "Monishop", Aliases: nil},
		{Slug: "gg mart", Name: "GG Mart", Aliases: []string{"ggmart"}},
		{Slug: "supermarche regal", Name: "Supermarché Régal", Aliases: []string{"regal"}},
	}
}

var bySlug = func() map[string]Store {
	m := make(map[string]Store)
	for _, s := range Known() {
		m[s.Slug] = s
		for _, a := range s.Aliases {
			m[a] = s
		}
	}
	return m
}()

// Canonicalize maps a raw store name to its canonical slug. Unknown
// stores fall back to their normalized form, so the registry never
// blocks ingestion.
func Canonicalize(rawName string) string {
	key := matching.Normalize(rawName)
	if s, ok := bySlug[key]; ok {
		return s.Slug
	}
	return key
}

// IsKnown reports whether the store resolves to a registry entry.
func IsKnown(rawName string) bool {
	_, ok := bySlug[matching.Normalize(rawName)]
	return ok
}

// DisplayName returns the registry display name for a store, or the raw
// name unchanged when the store is unknown.
func DisplayName(rawName string) string {
	if s, ok := bySlug[matching.Normalize(rawName)]; ok {
		return s.Name
	}
	return rawName
}
