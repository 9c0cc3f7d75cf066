// Package service implements the stateful and stateless decisions of the request guard:
// origin authorization, fixed-window rate limiting and bearer-token verification.
package service

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// WildcardOrigin is returned for requests that carry no Origin header.
const WildcardOrigin = "*"

// CORS response headers emitted for an allowed origin.
const (
	AllowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	AllowedHeaders = "Authorization, Content-Type"
)

var loopbackOriginPattern = regexp.MustCompile(`^https?://(localhost|127\.0\.0\.1|\[::1\])(:\d+)?$`)

// OriginRule is one named heuristic of the permissive policy used when no allow-list is configured.
type OriginRule struct {
	Name  string
	Match func(origin, host string) bool
}

// LoopbackRule matches local development origins on any port.
func LoopbackRule() OriginRule {
	return OriginRule{
		Name: "loopback",
		Match: func(origin, _ string) bool {
			return loopbackOriginPattern.MatchString(origin)
		},
	}
}

// AppOriginRule matches the canonical application origin. A trailing slash is ignored
// on both sides. An empty appOrigin never matches.
func AppOriginRule(appOrigin string) OriginRule {
	canonical := strings.TrimSuffix(strings.TrimSpace(appOrigin), "/")
	return OriginRule{
		Name: "app-origin",
		Match: func(origin, _ string) bool {
			return canonical != "" && strings.TrimSuffix(origin, "/") == canonical
		},
	}
}

// SameHostRule matches an origin whose host (with port) equals the request Host header,
// as seen when the browser and the API sit behind the same proxy. Unparseable origins
// never match.
func SameHostRule() OriginRule {
	return OriginRule{
		Name: "same-host",
		Match: func(origin, host string) bool {
			if host == "" {
				return false
			}
			u, err := url.Parse(origin)
			if err != nil || u.Host == "" {
				return false
			}
			return strings.EqualFold(u.Host, host)
		},
	}
}

// OriginPolicy decides whether a browser origin may receive cross-origin responses.
type OriginPolicy struct {
	allowList []string
	rules     []OriginRule
}

// NewOriginPolicy builds a policy. A non-empty allowList is authoritative; otherwise the
// loopback, app-origin and same-host rules are evaluated in that order.
func NewOriginPolicy(allowList []string, appOrigin string) *OriginPolicy {
	return &OriginPolicy{
		allowList: slices.Clone(allowList),
		rules: []OriginRule{
			LoopbackRule(),
			AppOriginRule(appOrigin),
			SameHostRule(),
		},
	}
}

// Decide returns the value for Access-Control-Allow-Origin and whether the request may proceed.
func (p *OriginPolicy) Decide(origin, host string) (string, bool) {
	if origin == "" {
		return WildcardOrigin, true
	}

	if len(p.allowList) > 0 {
		if slices.Contains(p.allowList, origin) {
			return origin, true
		}
		return "", false
	}

	if _, ok := p.MatchingRule(origin, host); ok {
		return origin, true
	}
	return "", false
}

// MatchingRule returns the name of the first permissive rule that accepts origin.
// It is meaningful only when no allow-list is configured.
func (p *OriginPolicy) MatchingRule(origin, host string) (string, bool) {
	for _, rule := range p.rules {
		if rule.Match(origin, host) {
			return rule.Name, true
		}
	}
	return "", false
}

// Rules returns the rule names in evaluation order.
func (p *OriginPolicy) Rules() []string {
	names := make([]string, 0, len(p.rules))
	for _, rule := range p.rules {
		names = append(names, rule.Name)
	}
	return names
}

// HasAllowList reports whether an explicit allow-list overrides the rules.
func (p *OriginPolicy) HasAllowList() bool {
	return len(p.allowList) > 0
}
