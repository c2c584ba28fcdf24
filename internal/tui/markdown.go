package tui

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Summaries coming back from the backend are markdown-ish: headings,
// emphasis, lists, the occasional code snippet. We render to HTML with
// goldmark, then rewrite the handful of tags that matter into ANSI.
var (
	mdCodeBlockRe  = regexp.MustCompile(`(?s)<pre><code(?: class="language-([a-zA-Z0-9]+)")?>(.*?)</code></pre>`)
	mdInlineCodeRe = regexp.MustCompile(`<code>([^<]+)</code>`)
	mdHeadingRe    = regexp.MustCompile(`<h[1-6][^>]*>(.*?)</h[1-6]>`)
	mdStrongRe     = regexp.MustCompile(`<strong>(.*?)</strong>`)
	mdEmRe         = regexp.MustCompile(`<em>(.*?)</em>`)
	mdLinkRe       = regexp.MustCompile(`<a href="([^"]*)"[^>]*>(.*?)</a>`)
	mdListItemRe   = regexp.MustCompile(`<li>(.*?)</li>`)
	mdTagRe        = regexp.MustCompile(`<[^>]+>`)
	mdBlanksRe     = regexp.MustCompile(`\n{3,}`)
)

type MarkdownRenderer struct {
	md        goldmark.Markdown
	formatter chroma.Formatter
	style     *chroma.Style

	heading lipgloss.Style
	strong  lipgloss.Style
	em      lipgloss.Style
	code    lipgloss.Style
	link    lipgloss.Style
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithXHTML()),
		),
		formatter: formatters.Get("terminal256"),
		style:     styles.Get("friendly"),
		heading:   lipgloss.NewStyle().Bold(true),
		strong:    lipgloss.NewStyle().Bold(true),
		em:        lipgloss.NewStyle().Italic(true),
		code:      lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4b27d"}),
		link:      lipgloss.NewStyle().Underline(true),
	}
}

// Render turns markdown into wrapped terminal text. On any conversion
// failure the raw content comes back unstyled; a summary is still a
// summary without formatting.
func (r *MarkdownRenderer) Render(content string, width int) string {
	if width < 20 {
		width = 20
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return content
	}
	out := r.rewriteHTML(buf.String())
	return lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(out))
}

func (r *MarkdownRenderer) rewriteHTML(in string) string {
	out := mdCodeBlockRe.ReplaceAllStringFunc(in, func(m string) string {
		sub := mdCodeBlockRe.FindStringSubmatch(m)
		if len(sub) < 3 {
			return m
		}
		return "\n" + r.highlight(decodeEntities(sub[2]), sub[1]) + "\n"
	})
	out = mdInlineCodeRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := mdInlineCodeRe.FindStringSubmatch(m)
		return r.code.Render(decodeEntities(sub[1]))
	})
	out = mdHeadingRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := mdHeadingRe.FindStringSubmatch(m)
		return r.heading.Render(sub[1]) + "\n"
	})
	out = mdStrongRe.ReplaceAllStringFunc(out, func(m string) string {
		return r.strong.Render(mdStrongRe.FindStringSubmatch(m)[1])
	})
	out = mdEmRe.ReplaceAllStringFunc(out, func(m string) string {
		return r.em.Render(mdEmRe.FindStringSubmatch(m)[1])
	})
	out = mdLinkRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := mdLinkRe.FindStringSubmatch(m)
		return r.link.Render(sub[2])
	})
	out = mdListItemRe.ReplaceAllString(out, "  • $1\n")
	out = mdTagRe.ReplaceAllString(out, "")
	out = decodeEntities(out)
	return mdBlanksRe.ReplaceAllString(out, "\n\n")
}

func (r *MarkdownRenderer) highlight(code, lang string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, it); err != nil {
		return code
	}
	return buf.String()
}

func decodeEntities(s string) string {
	replacements := [][2]string{
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&amp;", "&"},
		{"&quot;", `"`},
		{"&#34;", `"`},
		{"&#39;", "'"},
	}
	for _, rep := range replacements {
		s = strings.ReplaceAll(s, rep[0], rep[1])
	}
	return s
}
