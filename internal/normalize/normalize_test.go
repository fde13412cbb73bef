package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func crlf(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n"))
}

func TestBody_SinglePartPlain(t *testing.T) {
	raw := crlf(
		"From: noreply@swiggy.in",
		"Subject: Your order",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Order Total : ₹250.00",
		"",
	)

	body := Body(raw)
	assert.Contains(t, body, "Order Total : ₹250.00")
}

func TestBody_SinglePartQuotedPrintable(t *testing.T) {
	raw := crlf(
		"Content-Type: text/plain; charset=utf-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"Order Total : =E2=82=B9250.00",
		"",
	)

	body := Body(raw)
	assert.Contains(t, body, "Order Total : ₹250.00")
}

func TestBody_MultipartStripsHTMLAndAttachments(t *testing.T) {
	raw := crlf(
		"From: auto-confirm@amazon.in",
		"Subject: Your order",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="frontier"`,
		"",
		"--frontier",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Total ₹ 199.00",
		"--frontier",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<html><body><p>Total ₹ 450.50</p></body></html>",
		"--frontier",
		"Content-Type: application/pdf",
		`Content-Disposition: attachment; filename="invoice.pdf"`,
		"Content-Transfer-Encoding: base64",
		"",
		"JVBERi0xLjQ=",
		"--frontier--",
		"",
	)

	body := Body(raw)
	assert.Contains(t, body, "Total ₹ 199.00")
	assert.Contains(t, body, "Total ₹ 450.50")
	assert.NotContains(t, body, "<p>")
	assert.NotContains(t, body, "JVBERi0xLjQ=")
}

func TestBody_NestedMultipart(t *testing.T) {
	raw := crlf(
		`Content-Type: multipart/mixed; boundary="outer"`,
		"",
		"--outer",
		`Content-Type: multipart/alternative; boundary="inner"`,
		"",
		"--inner",
		"Content-Type: text/plain",
		"",
		"plain total",
		"--inner",
		"Content-Type: text/html",
		"",
		"<b>html total</b>",
		"--inner--",
		"--outer--",
		"",
	)

	body := Body(raw)
	assert.Contains(t, body, "plain total")
	assert.Contains(t, body, "html total")
	assert.NotContains(t, body, "<b>")
}

func TestBody_NonTextPartsSkipped(t *testing.T) {
	raw := crlf(
		`Content-Type: multipart/mixed; boundary="b"`,
		"",
		"--b",
		"Content-Type: image/png",
		"",
		"not-really-a-png",
		"--b",
		"Content-Type: text/plain",
		"",
		"usable amount ₹99",
		"--b--",
		"",
	)

	body := Body(raw)
	assert.NotContains(t, body, "not-really-a-png")
	assert.Contains(t, body, "usable amount ₹99")
}

func TestBody_TotalDecodeFailure(t *testing.T) {
	assert.Equal(t, "", Body([]byte("\x00\x01 not a mime message at all")))
	assert.Equal(t, "", Body(nil))
}

func TestBody_EmptyPartsYieldEmptyString(t *testing.T) {
	headersOnly := crlf(
		"From: noreply@swiggy.in",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"",
	)
	assert.Equal(t, "", Body(headersOnly))

	whitespaceOnly := crlf(
		`Content-Type: multipart/mixed; boundary="b"`,
		"",
		"--b",
		"Content-Type: text/plain",
		"",
		"   ",
		"--b--",
		"",
	)
	assert.Equal(t, "", Body(whitespaceOnly))
}
