// Package routing holds the bilingual route table and resolves route keys to
// localized site paths.
package routing

import (
	"fmt"
	"slices"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// Key is a language-independent page identifier.
type Key string

const (
	KeyHome         Key = "home"
	KeyAbout        Key = "about"
	KeyCatering     Key = "catering"
	KeyEvents       Key = "events"
	KeyPackages     Key = "packages"
	KeyMenu         Key = "menu"
	KeyLocations    Key = "locations"
	KeyContact      Key = "contact"
	KeyFAQ          Key = "faq"
	KeyCart         Key = "cart"
	KeyCheckout     Key = "checkout"
	KeyOrderSuccess Key = "order_success"
	KeyAccount      Key = "account"
	KeyLogin        Key = "login"
	KeyRegister     Key = "register"
	KeyImprint      Key = "imprint"
	KeyPrivacy      Key = "privacy"
	KeyTerms        Key = "terms"
)

// Route maps a key to its German and English paths.
type Route struct {
	Key Key    `json:"key"`
	DE  string `json:"de"`
	EN  string `json:"en"`
}

// Path returns the route path for lang. Anything other than English yields German.
func (r Route) Path(lang domain.Language) string {
	if lang == domain.LanguageEN {
		return r.EN
	}
	return r.DE
}

var defaultRoutes = []Route{
	{Key: KeyHome, DE: "/", EN: "/en"},
	{Key: KeyAbout, DE: "/ueber-uns", EN: "/en/about"},
	{Key: KeyCatering, DE: "/catering", EN: "/en/catering"},
	{Key: KeyEvents, DE: "/events", EN: "/en/events"},
	{Key: KeyPackages, DE: "/eventpakete", EN: "/en/event-packages"},
	{Key: KeyMenu, DE: "/speisekarte", EN: "/en/menu"},
	{Key: KeyLocations, DE: "/standorte", EN: "/en/locations"},
	{Key: KeyContact, DE: "/kontakt", EN: "/en/contact"},
	{Key: KeyFAQ, DE: "/faq", EN: "/en/faq"},
	{Key: KeyCart, DE: "/warenkorb", EN: "/en/cart"},
	{Key: KeyCheckout, DE: "/kasse", EN: "/en/checkout"},
	{Key: KeyOrderSuccess, DE: "/bestellung-erfolgreich", EN: "/en/order-success"},
	{Key: KeyAccount, DE: "/konto", EN: "/en/account"},
	{Key: KeyLogin, DE: "/anmelden", EN: "/en/login"},
	{Key: KeyRegister, DE: "/registrieren", EN: "/en/register"},
	{Key: KeyImprint, DE: "/impressum", EN: "/en/imprint"},
	{Key: KeyPrivacy, DE: "/datenschutz", EN: "/en/privacy"},
	{Key: KeyTerms, DE: "/agb", EN: "/en/terms"},
}

// Table is an immutable route registry indexed by key and by per-language path.
type Table struct {
	routes []Route
	byKey  map[Key]int
	byDE   map[string]int
	byEN   map[string]int
}

// NewTable validates routes and builds the lookup indexes. Keys and paths must be
// unique within each language, German paths must not carry the /en prefix and
// English paths must.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{
		routes: slices.Clone(routes),
		byKey:  make(map[Key]int, len(routes)),
		byDE:   make(map[string]int, len(routes)),
		byEN:   make(map[string]int, len(routes)),
	}

	for i, r := range t.routes {
		if r.Key == "" || r.DE == "" || r.EN == "" {
			return nil, fmt.Errorf("route %d: key and both paths are required", i)
		}
		if _, dup := t.byKey[r.Key]; dup {
			return nil, fmt.Errorf("route %q: duplicate key", r.Key)
		}
		if _, dup := t.byDE[r.DE]; dup {
			return nil, fmt.Errorf("route %q: duplicate de path %q", r.Key, r.DE)
		}
		if _, dup := t.byEN[r.EN]; dup {
			return nil, fmt.Errorf("route %q: duplicate en path %q", r.Key, r.EN)
		}
		if LanguageFromPath(r.DE) != domain.LanguageDE {
			return nil, fmt.Errorf("route %q: de path %q has the english prefix", r.Key, r.DE)
		}
		if LanguageFromPath(r.EN) != domain.LanguageEN {
			return nil, fmt.Errorf("route %q: en path %q lacks the english prefix", r.Key, r.EN)
		}
		t.byKey[r.Key] = i
		t.byDE[r.DE] = i
		t.byEN[r.EN] = i
	}

	return t, nil
}

// DefaultTable returns the site route table.
func DefaultTable() *Table {
	t, err := NewTable(defaultRoutes)
	if err != nil {
		panic(fmt.Sprintf("routing: default table: %v", err))
	}
	return t
}

// Lookup returns the route for key.
func (t *Table) Lookup(key Key) (Route, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// ByPath returns the route whose lang path equals path exactly.
func (t *Table) ByPath(path string, lang domain.Language) (Route, bool) {
	idx := t.byDE
	if lang == domain.LanguageEN {
		idx = t.byEN
	}
	i, ok := idx[path]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Routes returns a copy of all routes in declaration order.
func (t *Table) Routes() []Route {
	return slices.Clone(t.routes)
}

// Keys returns all route keys sorted.
func (t *Table) Keys() []Key {
	keys := make([]Key, 0, len(t.routes))
	for _, r := range t.routes {
		keys = append(keys, r.Key)
	}
	slices.Sort(keys)
	return keys
}
