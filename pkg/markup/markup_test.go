package markup

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStripsScripts(t *testing.T) {
	r := NewRenderer(0)

	tests := []struct {
		name    string
		src     string
		want    []string
		notWant []string
	}{
		{
			name:    "inline script",
			src:     "Hello <script>alert('x')</script>",
			want:    []string{"Hello"},
			notWant: []string{"script", "alert"},
		},
		{
			name:    "event handler attribute",
			src:     `<a href="https://example.com" onclick="steal()">docs</a>`,
			want:    []string{"docs", `href="https://example.com"`},
			notWant: []string{"onclick", "steal"},
		},
		{
			name:    "javascript url",
			src:     "[click](javascript:alert(1))",
			want:    []string{"click"},
			notWant: []string{"javascript:"},
		},
		{
			name: "structure survives",
			src:  "# Title\n\n- one\n- two\n\n**bold** and `code`",
			want: []string{"<h1", "Title", "<li>one</li>", "<strong>bold</strong>", "<code>code</code>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.src)
			require.NoError(t, err)
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRenderCaches(t *testing.T) {
	r := NewRenderer(4)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Render("same *body*")
			assert.NoError(t, err)
			assert.Equal(t, "<p>same <em>body</em></p>", out)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, r.CacheLen())

	assert.Equal(t, 0, NewRenderer(0).CacheLen())
}

func TestSanitizeExplicitValue(t *testing.T) {
	r := NewRenderer(0)
	assert.Equal(t, "plain <b>text</b>", r.Sanitize("plain <b>text</b><script>x()</script>"))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Title one two", PlainText("<h1>Title</h1>\n<ul>\n<li>one</li>\n<li>two</li>\n</ul>"))
	assert.Equal(t, "", PlainText(""))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("<p>short</p>", 20))
	assert.Equal(t, "alpha beta...", Excerpt("<p>alpha beta gamma</p>", 12))
	assert.Equal(t, "alpha beta gamma", Excerpt("<p>alpha beta gamma</p>", 0))
}
