// mutate.go — the mutation pipeline: ordered, composable rewrites of
// request/response bodies and headers, built on a compiled-pattern-table
// engine applying each step in declaration order.
package mutate

import (
	"regexp"
	"strings"

	"github.com/dev-console/servirtium-go/internal/interaction"
)

// HeaderMutation rewrites a header map in place.
type HeaderMutation interface {
	MutateHeaders(headers interaction.Headers)
}

// BodyMutation rewrites a body and returns the rewritten text.
type BodyMutation interface {
	MutateBody(body string) string
}

// Chain applies a sequence of mutations, each either a HeaderMutation or a
// BodyMutation, in declaration order. A mutation satisfying neither
// interface is ignored; Chain is built from concrete types below which all
// satisfy one or the other.
type Chain []any

// ApplyRequest runs the chain over a request in place.
func (c Chain) ApplyRequest(req *interaction.RequestData) {
	for _, m := range c {
		if hm, ok := m.(HeaderMutation); ok {
			hm.MutateHeaders(req.Headers)
		}
		if bm, ok := m.(BodyMutation); ok {
			req.Body = bm.MutateBody(req.Body)
		}
	}
}

// ApplyResponse runs the chain over a response in place.
func (c Chain) ApplyResponse(resp *interaction.ResponseData) {
	for _, m := range c {
		if hm, ok := m.(HeaderMutation); ok {
			hm.MutateHeaders(resp.Headers)
		}
		if bm, ok := m.(BodyMutation); ok {
			resp.Body = bm.MutateBody(resp.Body)
		}
	}
}

// RemoveHeaders deletes a fixed set of header names, case-insensitively.
type RemoveHeaders struct {
	Names []string
}

// MutateHeaders implements HeaderMutation.
func (m RemoveHeaders) MutateHeaders(headers interaction.Headers) {
	for _, name := range m.Names {
		headers.Delete(name)
	}
}

// RemoveHeadersRegex deletes any header whose name matches any of Patterns.
type RemoveHeadersRegex struct {
	Patterns []*regexp.Regexp
}

// MutateHeaders implements HeaderMutation.
func (m RemoveHeadersRegex) MutateHeaders(headers interaction.Headers) {
	for name := range headers {
		for _, p := range m.Patterns {
			if p.MatchString(name) {
				delete(headers, name)
				break
			}
		}
	}
}

// AddHeader inserts or overwrites a single header.
type AddHeader struct {
	Name  string
	Value string
}

// MutateHeaders implements HeaderMutation.
func (m AddHeader) MutateHeaders(headers interaction.Headers) {
	headers.Set(m.Name, m.Value)
}

// BodyReplace performs a literal substring replace of all occurrences.
type BodyReplace struct {
	Text        string
	Replacement string
}

// MutateBody implements BodyMutation.
func (m BodyReplace) MutateBody(body string) string {
	return strings.ReplaceAll(body, m.Text, m.Replacement)
}

// BodyReplaceRegex performs a regex replace of all occurrences, reusing
// a precompiled pattern across calls.
type BodyReplaceRegex struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// MutateBody implements BodyMutation.
func (m BodyReplaceRegex) MutateBody(body string) string {
	return m.Pattern.ReplaceAllString(body, m.Replacement)
}
