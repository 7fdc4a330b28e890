package lang

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// CleanText prepares markup or e-mail text for detection: HTML is flattened to
// text, and reply headers, quoted lines, signatures and addresses are dropped.
func CleanText(s string) string {
	if s == "" {
		return s
	}
	if LooksLikeHTML(s) {
		s = StripHTML(s)
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = reReplyHeader.ReplaceAllString(s, "\n")
	if loc := reSignature.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	if idx := signatureDelimiter(s); idx >= 0 {
		s = s[:idx]
	}
	s = reOriginalMessage.ReplaceAllString(s, "\n")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" || reQuoteLine.MatchString(ln) || reHeaderLike.MatchString(ln) {
			continue
		}
		kept = append(kept, ln)
	}
	s = strings.Join(kept, "\n")

	s = reEmail.ReplaceAllString(s, " ")
	s = reURL.ReplaceAllString(s, " ")
	s = reWWW.ReplaceAllString(s, " ")
	s = reMultiWS.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// LooksLikeHTML is a cheap sniff for markup.
func LooksLikeHTML(s string) bool {
	l := strings.ToLower(s)
	for _, marker := range []string{"<html", "<body", "<div", "<span", "<p", "<br", "&nbsp;"} {
		if strings.Contains(l, marker) {
			return true
		}
	}
	return false
}

// StripHTML flattens an HTML document to its visible text, one line per block
// element. Script and style contents are skipped.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return reTags.ReplaceAllString(s, " ")
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if txt := strings.TrimSpace(n.Data); txt != "" {
				if last := b.Len(); last > 0 && b.String()[last-1] != '\n' {
					b.WriteByte(' ')
				}
				b.WriteString(txt)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		block := n.Type == html.ElementNode && isBlockElement(n.Data)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block && b.Len() > 0 {
			b.WriteByte('\n')
		}
	}
	walk(doc)
	out := strings.ReplaceAll(b.String(), "\u00a0", " ")
	return reMultiNewlines.ReplaceAllString(out, "\n\n")
}

func signatureDelimiter(s string) int {
	for _, pat := range []string{"\n-- ", "\n--\n", "\n—"} {
		if idx := strings.Index(s, pat); idx != -1 {
			return idx
		}
	}
	if strings.HasSuffix(s, "\n--") {
		return len(s) - 3
	}
	return -1
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "p", "div", "br", "li", "ul", "ol", "table", "tr", "td", "header", "footer", "section", "article", "h1", "h2", "h3", "h4", "blockquote":
		return true
	default:
		return false
	}
}

var (
	reReplyHeader = regexp.MustCompile(`(?mi)^(?:on\s+.+?wrote:?.*$|am\s+.+?schrieb:?.*$|le\s+.+?a écrit\s*:.*$)`)

	reSignature = regexp.MustCompile(`(?mi)^(?:best regards|kind regards|regards|cheers|sincerely|yours truly|с уважением|с наилучшими пожеланиями|mit freundlichen grüßen|viele grüße|beste grüße|cordialement|saludos)[\s,.\-]*$`)

	reHeaderLike = regexp.MustCompile(`(?i)^(?:from|sent|to|subject|date|cc|von|an|betreff|gesendet|de|objet|envoyé):\s+.*$`)

	reOriginalMessage = regexp.MustCompile(`(?mi)^-{3,}\s*(?:original message|forwarded message|ursprüngliche nachricht)\s*-{3,}.*$`)

	reQuoteLine = regexp.MustCompile(`^[>|]`)

	reEmail = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)

	reWWW = regexp.MustCompile(`(?i)\bwww\.\S+`)

	reTags = regexp.MustCompile(`(?s)<[^>]*>`)

	reMultiWS = regexp.MustCompile(`[ \t]{2,}`)

	reMultiNewlines = regexp.MustCompile(`\n{3,}`)
)
