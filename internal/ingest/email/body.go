package email_ingest

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// bodyText extracts the best plain text from a raw RFC822 message. Plain
// parts win; HTML-only mail is flattened through goquery.
func bodyText(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return string(raw)
	}

	body, _ := io.ReadAll(io.LimitReader(msg.Body, 6<<20))
	plain, html := textParts(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), body)
	if strings.TrimSpace(plain) != "" {
		return plain
	}
	if html != "" {
		return htmlToText(html)
	}
	return string(body)
}

func textParts(ct, cte string, body []byte) (plain, html string) {
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return string(decodeTransferEncoding(body, cte)), ""
	}
	mediaType = strings.ToLower(mediaType)

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return string(decodeTransferEncoding(body, cte)), ""
		}
		mr := multipart.NewReader(bytes.NewReader(body), boundary)
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			b, _ := io.ReadAll(io.LimitReader(p, 6<<20))
			pl, ht := textParts(p.Header.Get("Content-Type"), p.Header.Get("Content-Transfer-Encoding"), b)
			if len(pl) > len(plain) {
				plain = pl
			}
			if len(ht) > len(html) {
				html = ht
			}
		}
		return plain, html
	}

	s := string(decodeTransferEncoding(body, strings.ToLower(strings.TrimSpace(cte))))
	if strings.HasPrefix(mediaType, "text/html") {
		return "", s
	}
	return s, ""
}

func decodeTransferEncoding(b []byte, cte string) []byte {
	switch cte {
	case "base64":
		dec := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, 6<<20))
		return out
	case "quoted-printable":
		dec := quotedprintable.NewReader(bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, 6<<20))
		return out
	default:
		return b
	}
}

// htmlToText flattens markup while keeping rough line structure, so the
// section splitters downstream still see blank-line boundaries.
func htmlToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script,style").Remove()
	doc.Find("br").Each(func(_ int, sel *goquery.Selection) {
		sel.ReplaceWithHtml("\n")
	})
	doc.Find("p,div,li,tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	text := doc.Text()
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	out := strings.Join(lines, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}
