package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-api/parser"
)

var articleHTML = `<!DOCTYPE html>
<html>
<head><title>Concurrency is not parallelism</title><style>body{color:red}</style></head>
<body>
  <nav><a href="/">Home</a> <a href="/about">About</a></nav>
  <article>
    <h1>Concurrency is not parallelism</h1>
    <p>` + strings.Repeat("Concurrency is the composition of independently executing processes, while parallelism is the simultaneous execution of computations. ", 6) + `</p>
    <p>` + strings.Repeat("Go makes it easy to structure programs as communicating goroutines that share memory by communicating over channels. ", 6) + `</p>
  </article>
  <script>console.log("tracking")</script>
</body>
</html>`

func TestExtractTextFromArticle(t *testing.T) {
	text, err := parser.ExtractText(articleHTML)
	require.NoError(t, err)
	assert.Contains(t, text, "independently executing processes")
	assert.NotContains(t, text, "tracking")
}

func TestExtractTextFromFragment(t *testing.T) {
	text, err := parser.ExtractText("<p>Hello world</p>")
	require.NoError(t, err)
	assert.Contains(t, text, "Hello world")
}

func TestExtractTextEmpty(t *testing.T) {
	_, err := parser.ExtractText("   ")
	assert.ErrorIs(t, err, parser.ErrNoText)
}

func TestPlainTextSkipsScripts(t *testing.T) {
	text, err := parser.PlainText(articleHTML)
	require.NoError(t, err)
	assert.Contains(t, text, "Home")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color:red")
}
