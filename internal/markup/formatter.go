// Package markup translates the gateway's platform-neutral rich-text
// markers into Telegram or WhatsApp syntax, or strips them for
// platforms without a known markup dialect.
//
// The source vocabulary is a closed set of paired tags: <b></b>,
// <i></i>, <code></code> and <pre></pre>. Translation walks the input
// once and substitutes each marker independently; it does not validate
// nesting or balance, so malformed input degrades to odd but harmless
// output.
package markup

import (
	"strings"

	"notigate/internal/models"
)

type markerKind int

const (
	markerBold markerKind = iota
	markerItalic
	markerCode
	markerPre
	markerCount
)

var markerTags = []struct {
	kind  markerKind
	open  string
	close string
}{
	{markerBold, "<b>", "</b>"},
	{markerItalic, "<i>", "</i>"},
	{markerCode, "<code>", "</code>"},
	{markerPre, "<pre>", "</pre>"},
}

// Symmetric replacement tokens per platform, indexed by markerKind.
var (
	telegramTokens = [markerCount]string{"**", "*", "`", "```"}
	whatsappTokens = [markerCount]string{"*", "_", "`", "```"}
	plainTokens    = [markerCount]string{"", "", "", ""}
)

// Format renders body for the given platform. Unknown platforms get
// plain text with every recognized marker removed.
func Format(body string, platform models.Platform) string {
	var tokens [markerCount]string
	switch platform {
	case models.PlatformTelegram:
		tokens = telegramTokens
	case models.PlatformWhatsApp:
		tokens = whatsappTokens
	default:
		tokens = plainTokens
	}

	var b strings.Builder
	b.Grow(len(body))

	for i := 0; i < len(body); {
		if body[i] != '<' {
			b.WriteByte(body[i])
			i++
			continue
		}

		kind, width, ok := matchMarker(body[i:])
		if !ok {
			// Not one of ours, copy the '<' verbatim.
			b.WriteByte(body[i])
			i++
			continue
		}

		b.WriteString(tokens[kind])
		i += width
	}

	return b.String()
}

// Strip removes every recognized marker, leaving only the inner text.
func Strip(body string) string {
	return Format(body, models.Platform("plain"))
}

// matchMarker reports whether s starts with a recognized opening or
// closing tag, returning its kind and byte width.
func matchMarker(s string) (markerKind, int, bool) {
	for _, tag := range markerTags {
		if strings.HasPrefix(s, tag.open) {
			return tag.kind, len(tag.open), true
		}
		if strings.HasPrefix(s, tag.close) {
			return tag.kind, len(tag.close), true
		}
	}
	return 0, 0, false
}
