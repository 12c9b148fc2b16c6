package mdbrief

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// mermaidFencePattern matches ```mermaid fenced blocks, capturing the source.
var mermaidFencePattern = regexp.MustCompile("(?s)```mermaid[ \t]*\n(.*?)```")

// emojiPattern matches emoji and related characters, which break the remote
// renderer and are stripped from diagram sources.
var emojiPattern = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{FE0F}\x{200D}]+`)

// diagramPipeline replaces Mermaid fences with rendered images, consulting a
// content-addressed cache before calling the remote renderer.
type diagramPipeline struct {
	cache    *RenderCache
	renderer diagramRenderer
}

// GetOrRender returns the image bytes for a diagram source. Unless bypass is
// set, a valid cache entry is returned without any external call. On a miss
// the renderer is invoked and, on success, the payload is persisted under
// the derived key before returning. Render failure writes nothing.
func (d *diagramPipeline) GetOrRender(ctx context.Context, source string, bypass bool) ([]byte, error) {
	if !bypass {
		if png, ok := d.cache.Get(source); ok {
			return png, nil
		}
	}

	png, err := d.renderer.Render(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := d.cache.Put(source, png); err != nil {
		return nil, err
	}
	return png, nil
}

// ReplaceBlocks substitutes every ```mermaid fence in the Markdown source.
// Successful renders become embedded PNG images; failed renders degrade to a
// literal code block of the diagram source. Diagrams are processed
// sequentially in document order.
func (d *diagramPipeline) ReplaceBlocks(ctx context.Context, mdContent string, bypass bool) string {
	n := 0
	return mermaidFencePattern.ReplaceAllStringFunc(mdContent, func(m string) string {
		n++
		source := strings.TrimSpace(mermaidFencePattern.FindStringSubmatch(m)[1])
		source = stripEmoji(source)

		png, err := d.GetOrRender(ctx, source, bypass)
		if err != nil {
			return diagramFallbackHTML(source)
		}
		return diagramImageHTML(png, n)
	})
}

// CountBlocks returns the number of Mermaid fences in the source.
func (d *diagramPipeline) CountBlocks(mdContent string) int {
	return len(mermaidFencePattern.FindAllString(mdContent, -1))
}

// stripEmoji removes emoji characters from diagram source.
func stripEmoji(source string) string {
	return emojiPattern.ReplaceAllString(source, "")
}

// diagramImageHTML embeds a rendered PNG as a data URI.
func diagramImageHTML(png []byte, index int) string {
	b64 := base64.StdEncoding.EncodeToString(png)
	return fmt.Sprintf("\n<div class=\"diagram\"><img src=\"data:image/png;base64,%s\" alt=\"Diagram %d\"/></div>\n", b64, index)
}

// diagramFallbackHTML renders the diagram source as a literal code block.
func diagramFallbackHTML(source string) string {
	escaped := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(source)
	return "\n<div class=\"diagram-fallback\"><pre><code>" + escaped + "</code></pre></div>\n"
}
