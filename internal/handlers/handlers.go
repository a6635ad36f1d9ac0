// Package handlers wires the price engine's HTTP surface. Handlers are
// free functions over package-level dependencies installed once at
// startup via Init, mirroring how the server wires its other singletons.
package handlers

import (
	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/search"
)

var (
	store    ledger.Store
	upserter *ledger.Upserter
	searcher *search.Searcher
)

// Init installs the shared dependencies. Must be called before any
// route is served.
func Init(s ledger.Store, u *ledger.Upserter, se *search.Searcher) {
	store = s
	upserter = u
	searcher = se
}
