package parser

import (
	"errors"
	"strings"

	"github.com/advancedlogic/GoOse/pkg/goose"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var ErrNoText = errors.New("no text extracted")

// extractor 는 HTML 에서 본문 텍스트를 뽑는 한 가지 방법이다.
type extractor struct {
	name string
	fn   func(string) (string, error)
}

var extractors = []extractor{
	{"readability", ParseHtmlWithReadability},
	{"trafilatura", ParseHtmlWithTrafilatura},
	{"goose", ParseHtmlWithGoose},
	{"plain", PlainText},
}

// ExtractText returns the article text of htmlStr.
// readability 를 먼저 쓰고, 결과가 비면 trafilatura, GoOse, 단순 텍스트 노드 순으로 시도한다.
func ExtractText(htmlStr string) (string, error) {
	if strings.TrimSpace(htmlStr) == "" {
		return "", ErrNoText
	}
	var errs []error
	for _, ex := range extractors {
		text, err := ex.fn(htmlStr)
		if err != nil {
			errs = append(errs, errors.New(ex.name+": "+err.Error()))
			continue
		}
		if text = normalize(text); text != "" {
			return text, nil
		}
	}
	return "", errors.Join(append([]error{ErrNoText}, errs...)...)
}

// main parser
func ParseHtmlWithReadability(htmlStr string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", err
	}

	article, err := readability.FromDocument(doc, nil)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

func ParseHtmlWithTrafilatura(htmlStr string) (string, error) {
	article, err := trafilatura.Extract(strings.NewReader(htmlStr), trafilatura.Options{})
	if err != nil {
		return "", err
	}
	if article == nil {
		return "", nil
	}
	return article.ContentText, nil
}

func ParseHtmlWithGoose(htmlStr string) (string, error) {
	g := goose.New()
	article, err := g.ExtractFromRawHTML(htmlStr, "")
	if err != nil {
		return "", err
	}
	if article == nil {
		return "", nil
	}
	return article.CleanedText, nil
}

// PlainText joins every non-empty text node, skipping script and style.
func PlainText(htmlStr string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				b.WriteString(text)
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)
	return b.String(), nil
}

// normalize trims each line and collapses blank runs into one empty line.
func normalize(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
