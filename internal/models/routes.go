// Package models holds the data types shared by the go-webtoys packages
package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDuplicateRoute = errors.New("duplicate route path")
	ErrInvalidRoute   = errors.New("invalid route")
)

// Route maps one request path to the template rendered for it
type Route struct {
	Path     string `json:"path"`
	Template string `json:"template"`
}

// RouteTable is the static path -> template mapping.
// It is built once and never modified, so it is safe for concurrent reads.
type RouteTable struct {
	routes map[string]Route
}

// DefaultRoutes are the pages served by go-webtoys
var DefaultRoutes = []Route{
	{Path: "/", Template: "index.html"},
	{Path: "/templates/art_museum.html", Template: "art_museum.html"},
	{Path: "/templates/checkers.html", Template: "checkers.html"},
	{Path: "/templates/drawing.html", Template: "drawing.html"},
	{Path: "/templates/flightsim.html", Template: "flightsim.html"},
}

// NewRouteTable validates the entries and returns an immutable table
func NewRouteTable(entries ...Route) (*RouteTable, error) {
	rt := &RouteTable{routes: make(map[string]Route, len(entries))}
	for _, r := range entries {
		if r.Path == "" || !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: path %q must start with /", ErrInvalidRoute, r.Path)
		}
		if r.Template == "" {
			return nil, fmt.Errorf("%w: path %q has no template", ErrInvalidRoute, r.Path)
		}
		if _, exists := rt.routes[r.Path]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoute, r.Path)
		}
		rt.routes[r.Path] = r
	}
	return rt, nil
}

// DefaultRouteTable returns the table built from DefaultRoutes
func DefaultRouteTable() *RouteTable {
	rt, err := NewRouteTable(DefaultRoutes...)
	if err != nil {
		panic("invalid default routes: " + err.Error())
	}
	return rt
}

// Lookup does an exact match on path
func (rt *RouteTable) Lookup(path string) (Route, bool) {
	r, ok := rt.routes[path]
	return r, ok
}

// Routes returns a copy of all entries sorted by path
func (rt *RouteTable) Routes() []Route {
	out := make([]Route, 0, len(rt.routes))
	for _, r := range rt.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Templates returns the distinct template names referenced by the table
func (rt *RouteTable) Templates() []string {
	seen := make(map[string]bool, len(rt.routes))
	var names []string
	for _, r := range rt.Routes() {
		if seen[r.Template] {
			continue
		}
		seen[r.Template] = true
		names = append(names, r.Template)
	}
	return names
}

// Len returns the number of routes in the table
func (rt *RouteTable) Len() int {
	return len(rt.routes)
}
