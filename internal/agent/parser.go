package agent

import (
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"
)

// fencedJSON matches a ```json block and captures the widest {...} span in it.
var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*\\})\\s*```")

// ParseArtifact extracts an Artifact from model text. A fenced json block is
// tried first; only when there is no such block is the whole text tried as a
// bare JSON object. Failures wrap ErrNotYetStructured.
func ParseArtifact(text string) (Artifact, error) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		a, ok := decodeArtifact(m[1])
		if !ok {
			return Artifact{}, fmt.Errorf("%w: fenced block is not a JSON object", ErrNotYetStructured)
		}
		return a, nil
	}
	a, ok := decodeArtifact(text)
	if !ok {
		return Artifact{}, fmt.Errorf("%w: no fenced block and text is not a JSON object", ErrNotYetStructured)
	}
	return a, nil
}

// decodeArtifact reads the record permissively: missing title or body become
// empty, and missing or malformed sequences become empty.
func decodeArtifact(payload string) (Artifact, bool) {
	if !gjson.Valid(payload) {
		return Artifact{}, false
	}
	v := gjson.Parse(payload)
	if !v.IsObject() {
		return Artifact{}, false
	}
	return Artifact{
		Title:    textField(v.Get("title")),
		Body:     textField(v.Get("body")),
		Hashtags: listField(v.Get("hashtags")),
		Emojis:   listField(v.Get("emojis")),
	}, true
}

func textField(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.String()
	case gjson.Null:
		return ""
	default:
		return r.Raw
	}
}

func listField(r gjson.Result) []string {
	out := []string{}
	switch {
	case r.IsArray():
		for _, item := range r.Array() {
			if item.Type == gjson.Null {
				continue
			}
			out = append(out, textField(item))
		}
	case r.Type == gjson.String:
		out = append(out, r.String())
	}
	return out
}
