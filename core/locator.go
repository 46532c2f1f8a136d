package core

import (
	"net/url"
	"strings"

	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/schema"
)

// treeSegment separates owner/repo from the branch in a browse URL.
const treeSegment = "tree"

// ParseLocator turns a repository URL into a locator.
// Accepted shapes are https://<host>/<owner>/<repo> and
// https://<host>/<owner>/<repo>/tree/<branch>/<path...>. The host comparison
// ignores case. Anything else yields an *contract.InvalidLocatorError and a
// zero locator.
func ParseLocator(input, host string) (schema.RepositoryLocator, error) {
	fail := func(reason string) (schema.RepositoryLocator, error) {
		return schema.RepositoryLocator{}, &contract.InvalidLocatorError{Input: input, Reason: reason}
	}

	raw := strings.TrimSpace(input)
	if raw == "" {
		return fail("empty input")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fail("malformed URL")
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fail("URL must use http or https")
	}
	if u.Host == "" {
		return fail("missing host")
	}
	if host == "" {
		host = schema.DefaultHost
	}
	if !strings.EqualFold(u.Hostname(), host) {
		return fail("host must be " + host)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return fail("expected /<owner>/<repo>")
	}
	for _, seg := range segments {
		if seg == "." || seg == ".." {
			return fail("relative path segment " + seg)
		}
	}

	loc := schema.RepositoryLocator{Owner: segments[0], Repo: segments[1]}
	rest := segments[2:]
	switch {
	case len(rest) == 0:
		return loc, nil
	case rest[0] != treeSegment:
		return fail("unsupported path shape")
	case len(rest) < 2 || rest[1] == "":
		return fail("missing branch after /tree")
	}

	loc.Branch = rest[1]
	parts := make([]string, 0, len(rest)-2)
	for _, seg := range rest[2:] {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	loc.Path = strings.Join(parts, "/")
	return loc, nil
}
