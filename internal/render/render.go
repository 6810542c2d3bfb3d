// Package render turns generated notes into text for people: Markdown ready
// to paste into a post, or indented JSON for storage and piping.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chris/rednote/internal/agent"
	"github.com/tidwall/pretty"
)

const untitled = "无标题"

// Markdown renders a as a level-two heading, the body, then the hashtags on
// one line. Emojis are already part of the title and body so they are not
// listed separately.
func Markdown(a agent.Artifact) string {
	title := a.Title
	if title == "" {
		title = untitled
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%s\n\n", title, a.Body)
	if len(a.Hashtags) > 0 {
		b.WriteString(strings.Join(a.Hashtags, " "))
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// MarkdownFromJSON renders a stored JSON note. Input that cannot be read as a
// note yields an error section quoting the original text.
func MarkdownFromJSON(s string) string {
	a, err := agent.ParseArtifact(s)
	if err != nil {
		return fmt.Sprintf("错误：无法解析 JSON 字符串 - %v\n原始字符串：\n%s", err, s)
	}
	return Markdown(a)
}

// JSON encodes a as indented JSON. Non-ASCII text is kept as is.
func JSON(a agent.Artifact) []byte {
	if a.Hashtags == nil {
		a.Hashtags = []string{}
	}
	if a.Emojis == nil {
		a.Emojis = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(a) // Artifact has only strings and string slices
	return pretty.PrettyOptions(buf.Bytes(), &pretty.Options{Width: 80, Indent: "  "})
}

// Color adds terminal colors to JSON output.
func Color(b []byte) []byte {
	return pretty.Color(b, nil)
}
