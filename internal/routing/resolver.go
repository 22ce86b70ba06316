package routing

import (
	"strings"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

const englishPrefix = "/en"

// Resolver turns route keys into localized paths and computes alternate-language paths.
// All methods are total and never fail.
type Resolver struct {
	table *Table
}

// NewResolver creates a Resolver over table.
func NewResolver(table *Table) *Resolver {
	return &Resolver{table: table}
}

// Table returns the underlying route table.
func (r *Resolver) Table() *Table { return r.table }

// ResolvePath returns the lang path for a route key. A "#fragment" suffix is
// split off before lookup and re-appended verbatim.
//
// Input with a leading slash is treated as a legacy path and returned unchanged,
// fragment included. Such a path is never relocalized, so callers that pass raw
// paths lose the alternate-language guarantee; use route keys instead.
//
// An unknown key resolves to the home page of lang.
func (r *Resolver) ResolvePath(keyOrPath string, lang domain.Language) string {
	if strings.HasPrefix(keyOrPath, "/") {
		return keyOrPath
	}

	key, fragment := splitFragment(keyOrPath)

	route, ok := r.table.Lookup(Key(key))
	if !ok {
		route, _ = r.table.Lookup(KeyHome)
	}
	return route.Path(lang) + fragment
}

// ResolveAlternate finds the route whose currentLang path equals path and returns
// its path in the other language. A trailing slash on path is ignored and a
// fragment is carried over. The boolean is false when no route matches; callers
// should then omit the alternate link.
func (r *Resolver) ResolveAlternate(path string, currentLang domain.Language) (string, bool) {
	p, fragment := splitFragment(path)
	p = trimTrailingSlash(p)

	route, ok := r.table.ByPath(p, currentLang)
	if !ok {
		return "", false
	}
	return route.Path(currentLang.Other()) + fragment, true
}

// LanguageFromPath classifies a path by the /en prefix convention: "/en" or
// anything under "/en/" is English, everything else is German.
func LanguageFromPath(path string) domain.Language {
	if path == englishPrefix || strings.HasPrefix(path, englishPrefix+"/") {
		return domain.LanguageEN
	}
	return domain.LanguageDE
}

func splitFragment(s string) (string, string) {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

func trimTrailingSlash(p string) string {
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}
