// Package events implements the outbound event notification side channel:
// a static route-to-stream mapping table and a fire-and-forget dispatcher
// that posts notifications correlated by request ID.
package events

import (
	"regexp"
	"strings"
)

// Stream names an outbound event category.
type Stream string

const (
	StreamAirspaceAllocations Stream = "MANAGER_AIRSPACE_ALLOCATIONS"
	StreamAirspaceFlights     Stream = "MANAGER_AIRSPACE_FLIGHTS"
	StreamAirspaceFlightsList Stream = "MANAGER_AIRSPACE_FLIGHTS_LIST"

	StreamConstraintCreate Stream = "MANAGER_CONSTRAINT_CREATE"
	StreamConstraintDelete Stream = "MANAGER_CONSTRAINT_DELETE"

	StreamFlightStripsCreate Stream = "MANAGER_FLIGHT_STRIPS_CREATE"
	StreamFlightStripsFetch  Stream = "MANAGER_FLIGHT_STRIPS_FETCH"
	StreamFlightStripsUpdate Stream = "MANAGER_FLIGHT_STRIPS_UPDATE"
	StreamFlightStripsDelete Stream = "MANAGER_FLIGHT_STRIPS_DELETE"
	StreamFlightStripsList   Stream = "MANAGER_FLIGHT_STRIPS_LIST"

	StreamHealthCheck Stream = "MANAGER_HEALTH_CHECK"
)

// routePrefix is prepended when an incoming path arrives without it, so the
// table can be expressed in fully-qualified form only.
const routePrefix = "/api"

type routeMapping struct {
	method  string
	pattern string
	stream  Stream
	re      *regexp.Regexp
}

// routeMappings is the static (verb, route pattern) -> stream table. It is
// ordered: when several patterns match, the first entry wins.
var routeMappings = []routeMapping{
	{method: "POST", pattern: "/api/airspace/flights", stream: StreamAirspaceFlights},
	{method: "POST", pattern: "/api/flight-strips/", stream: StreamFlightStripsCreate},
	{method: "GET", pattern: "/api/flight-strips/", stream: StreamFlightStripsList},
	{method: "DELETE", pattern: "/api/flight-strips/{flight_strip_name}", stream: StreamFlightStripsDelete},
}

var placeholderRe = regexp.MustCompile(`\\\{[^}]+\\\}`)

func init() {
	for i := range routeMappings {
		routeMappings[i].re = compilePattern(routeMappings[i].pattern)
	}
}

// compilePattern converts a route pattern into an anchored regexp where each
// {placeholder} segment matches one or more non-separator characters.
func compilePattern(pattern string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(pattern)
	expr := placeholderRe.ReplaceAllString(escaped, `[^/]+`)
	return regexp.MustCompile(`^` + expr + `$`)
}

// ResolveStream maps an HTTP verb and request path to an event stream.
// Resolution order: exact table match, exact match with the route prefix
// prepended, then ordered pattern matching (again with and without the
// prefix). A miss is expected for unmapped routes and returns ok=false.
func ResolveStream(method, path string) (Stream, bool) {
	method = strings.ToUpper(method)
	prefixed := ""
	if !strings.HasPrefix(path, routePrefix+"/") {
		prefixed = routePrefix + path
	}

	for _, m := range routeMappings {
		if m.method == method && m.pattern == path {
			return m.stream, true
		}
	}
	if prefixed != "" {
		for _, m := range routeMappings {
			if m.method == method && m.pattern == prefixed {
				return m.stream, true
			}
		}
	}

	for _, m := range routeMappings {
		if m.method != method {
			continue
		}
		if m.re.MatchString(path) {
			return m.stream, true
		}
		if prefixed != "" && m.re.MatchString(prefixed) {
			return m.stream, true
		}
	}

	return "", false
}
