package rbac

import (
	"labor-mobility-backend/models"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var paramSegment = regexp.MustCompile(`\{[^}/]+\}`)

// routeTable resolves a request to the rule registered for its swagger route.
// Literal paths win over parameterised ones.
type routeTable struct {
	exact    map[string]models.RbacFunc
	patterns map[string][]patternRoute
}

type patternRoute struct {
	pattern *regexp.Regexp
	check   models.RbacFunc
}

func newRouteTable() *routeTable {
	return &routeTable{
		exact:    map[string]models.RbacFunc{},
		patterns: map[string][]patternRoute{},
	}
}

func (t *routeTable) add(routerLine string, check models.RbacFunc) error {
	method, path, err := parseRouterLine(routerLine)
	if err != nil {
		return err
	}
	if !paramSegment.MatchString(path) {
		t.exact[method+" "+path] = check
		return nil
	}
	pattern, err := segmentPattern(path)
	if err != nil {
		return errors.Wrapf(err, "bad route %v", routerLine)
	}
	t.patterns[method] = append(t.patterns[method], patternRoute{pattern: pattern, check: check})
	return nil
}

func (t *routeTable) match(method, path string) (models.RbacFunc, bool) {
	method = strings.ToUpper(method)
	path = cleanPath(path)
	if check, ok := t.exact[method+" "+path]; ok {
		return check, true
	}
	for _, route := range t.patterns[method] {
		if route.pattern.MatchString(path) {
			return route.check, true
		}
	}
	return nil, false
}

// parseRouterLine splits a swaggo router line such as "/api/v1/admin/appeals/list [post]".
func parseRouterLine(line string) (method, path string, err error) {
	line = strings.TrimSpace(line)
	open := strings.LastIndex(line, "[")
	end := strings.LastIndex(line, "]")
	if open == -1 || end < open {
		return "", "", errors.Errorf("method not provided for route (%v)", line)
	}
	method = strings.ToUpper(strings.TrimSpace(line[open+1 : end]))
	if method == "" {
		return "", "", errors.Errorf("method not provided for route (%v)", line)
	}
	return method, cleanPath(line[:open]), nil
}

// each {param} matches exactly one path segment
func segmentPattern(path string) (*regexp.Regexp, error) {
	parts := paramSegment.Split(path, -1)
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.Compile("^" + strings.Join(parts, "[^/]+") + "$")
}

func cleanPath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
