// codec.go — parse and emit the Markdown conversation format, with
// patterns precompiled once at package init.
package markdown

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dev-console/servirtium-go/internal/interaction"
)

// interactionRegex captures one interaction block. (?s) makes '.' match
// newlines; the lazy quantifiers keep each match scoped to the smallest
// span that satisfies the grammar, tolerating arbitrary interstitial text
// between interactions.
var interactionRegex = regexp.MustCompile(`(?s)## Interaction (?P<num>[0-9]+): (?P<method>[A-Z]+) (?P<uri>\S+).*?` +
	"### Request headers recorded for playback.*?```[ \t]*\r?\n(?P<reqheaders>.*?)```.*?" +
	"### Request body recorded for playback.*?```[ \t]*\r?\n(?P<reqbody>.*?)```.*?" +
	"### Response headers recorded for playback.*?```[ \t]*\r?\n(?P<respheaders>.*?)```.*?" +
	`### Response body recorded for playback \((?P<status>[0-9]+)[^)]*\).*?` +
	"```[ \t]*\r?\n(?P<respbody>.*?)```")

// headerLineRegex matches a single "Name: Value" header line.
var headerLineRegex = regexp.MustCompile(`^(?P<name>[A-Za-z-]+):\s?(?P<value>.*?)\s*$`)

// Parse decodes a Markdown conversation document into an ordered list of
// interactions. It fails with ErrInvalidFormat if no interaction blocks are
// found, *InvalidInteractionNumberError if an ordinal doesn't parse as a
// u8, or *InvalidStatusCodeError if a status code doesn't parse as a u16.
func Parse(doc []byte) ([]interaction.Data, error) {
	text := string(doc)
	matches := interactionRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, ErrInvalidFormat
	}

	names := interactionRegex.SubexpNames()
	out := make([]interaction.Data, 0, len(matches))
	for _, m := range matches {
		group := func(label string) string {
			for i, n := range names {
				if n == label {
					return m[i]
				}
			}
			return ""
		}

		ordinal, err := strconv.ParseUint(group("num"), 10, 8)
		if err != nil {
			return nil, &InvalidInteractionNumberError{Raw: group("num")}
		}

		status, err := strconv.ParseUint(group("status"), 10, 16)
		if err != nil {
			return nil, &InvalidStatusCodeError{Raw: group("status")}
		}

		out = append(out, interaction.Data{
			Ordinal: uint8(ordinal),
			Request: interaction.RequestData{
				Method:  group("method"),
				URI:     group("uri"),
				Headers: parseHeaders(group("reqheaders")),
				Body:    strings.TrimSpace(group("reqbody")),
			},
			Response: interaction.ResponseData{
				Status:  uint16(status),
				Headers: parseHeaders(group("respheaders")),
				Body:    strings.TrimSpace(group("respbody")),
			},
		})
	}

	return out, nil
}

// parseHeaders reads "Name: Value" lines from a fenced header block.
// Duplicate names collapse to the last value seen.
func parseHeaders(block string) interaction.Headers {
	headers := make(interaction.Headers)
	scanner := bufio.NewScanner(strings.NewReader(block))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		sub := headerLineRegex.FindStringSubmatch(line)
		if sub == nil {
			continue
		}
		headers.Set(strings.TrimSpace(sub[1]), strings.TrimSpace(sub[2]))
	}
	return headers
}

// Emit encodes a list of interactions into the canonical CRLF Markdown
// format: headers sorted ascending by name, a trailing CRLF appended before
// each closing fence. Round-tripping Parse(Emit(xs)) reproduces xs up to
// header ordering and CRLF/LF normalization in bodies.
func Emit(data []interaction.Data) []byte {
	var b strings.Builder
	for _, d := range data {
		fmt.Fprintf(&b, "## Interaction %d: %s %s\r\n\r\n", d.Ordinal, d.Request.Method, d.Request.URI)

		b.WriteString("### Request headers recorded for playback:\r\n\r\n```\r\n")
		writeHeaders(&b, d.Request.Headers)
		b.WriteString("```\r\n\r\n")

		fmt.Fprintf(&b, "### Request body recorded for playback ():\r\n\r\n```\r\n%s\r\n```\r\n\r\n", d.Request.Body)

		b.WriteString("### Response headers recorded for playback:\r\n\r\n```\r\n")
		writeHeaders(&b, d.Response.Headers)
		b.WriteString("```\r\n\r\n")

		contentType, _ := d.Response.Headers.Get("content-type")
		fmt.Fprintf(&b, "### Response body recorded for playback (%d: %s):\r\n\r\n```\r\n%s\r\n```\r\n\r\n",
			d.Response.Status, contentType, d.Response.Body)
	}
	return []byte(b.String())
}

// writeHeaders writes headers sorted ascending by name, one per line, CRLF
// terminated.
func writeHeaders(b *strings.Builder, headers interaction.Headers) {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "%s: %s\r\n", name, headers[name])
	}
}
