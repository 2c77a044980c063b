package ui

import (
	"vitrine/internal/catalog"
	"vitrine/internal/config"
	"vitrine/internal/order"
)

// ConfigReloadedMsg is sent from outside the program when config.json changes
// on disk, so the browser can re-theme without a restart.
type ConfigReloadedMsg struct {
	Config config.Config
}

// initialLoadedMsg carries the catalog page's first load: the product page
// and the category reference data, fetched in parallel.
type initialLoadedMsg struct {
	gen  uint64
	list *catalog.ProductList
	cats []catalog.Category
	err  error
}

// productsLoadedMsg carries one listing response. gen identifies the request
// so superseded responses can be discarded on arrival.
type productsLoadedMsg struct {
	gen  uint64
	list *catalog.ProductList
	err  error
}

// searchDebounceMsg fires after the typing pause. seq identifies the
// keystroke burst; a stale seq means the user kept typing.
type searchDebounceMsg struct {
	seq int
}

// detailLoadedMsg carries a product detail with its description already
// rendered for the terminal.
type detailLoadedMsg struct {
	product  *catalog.Product
	rendered string
	err      error
}

// addedToCartMsg reports an add-to-cart outcome for the status line.
type addedToCartMsg struct {
	name string
	err  error
}

// cartRefreshedMsg reports a cart fetch or mutation outcome.
type cartRefreshedMsg struct {
	err error
}

// ordersLoadedMsg carries the order history.
type ordersLoadedMsg struct {
	orders []order.Order
	err    error
}
