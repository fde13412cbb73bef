// Package normalize converts a raw MIME message into one plain-text
// string, stripping markup and attachments.
//
// Upstream emails are adversarial and inconsistently formatted, so the
// policy is permissive: a malformed part is skipped rather than aborting a
// message that may still carry a usable amount in another part. The worst
// case is an empty string, never an error.
package normalize

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset" // registers charset decoding
)

// htmlTag matches markup for the non-recursive tag-stripping transform.
var htmlTag = regexp.MustCompile(`<[^<]+?>`)

// Body extracts the best-effort concatenation of all text-bearing MIME
// parts of a raw message. HTML parts have their tags replaced with spaces;
// each decoded part is followed by a newline. Returns "" on total decode
// failure.
func Body(raw []byte) string {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return ""
	}

	var b strings.Builder
	collect(entity, &b)
	return b.String()
}

func collect(entity *message.Entity, b *strings.Builder) {
	if mr := entity.MultipartReader(); mr != nil {
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil && !message.IsUnknownCharset(err) {
				// Malformed sibling parts are unreachable past this
				// point; keep whatever was already collected.
				break
			}
			collect(part, b)
		}
		return
	}

	appendPart(entity, b)
}

func appendPart(entity *message.Entity, b *strings.Builder) {
	if disposition, _, err := entity.Header.ContentDisposition(); err == nil && disposition == "attachment" {
		return
	}

	kind, _, err := entity.Header.ContentType()
	if err != nil {
		kind = "text/plain" // unset or malformed content type defaults to text
	}
	if kind != "text/plain" && kind != "text/html" {
		return
	}

	payload, err := io.ReadAll(entity.Body)
	if err != nil {
		return
	}

	text := string(payload)
	if kind == "text/html" {
		text = htmlTag.ReplaceAllString(text, " ")
	}
	if strings.TrimSpace(text) == "" {
		// A part that decoded to nothing contributes nothing; appending
		// its separator would make an unreadable message look non-empty.
		return
	}

	b.WriteString(text)
	b.WriteString("\n")
}
