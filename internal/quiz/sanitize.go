package quiz

import (
	"strings"

	"golang.org/x/net/html"
)

// Elements whose entire subtree is discarded rather than unwrapped.
var droppedElements = map[string]struct{}{
	"script": {},
	"style":  {},
	"iframe": {},
	"object": {},
	"embed":  {},
}

// Sanitize neutralizes markup in free text before it reaches the database.
// Script-bearing subtrees are dropped, every other tag is stripped, and the
// surviving text is escaped so stored values are safe to redisplay without
// further treatment. Runs after shape validation so it cannot resurrect
// previously rejected input.
func Sanitize(text string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(text))

	var out strings.Builder
	dropDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// Tokenizing never fails on anything but EOF for string input.
			return strings.TrimSpace(out.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if _, drop := droppedElements[string(name)]; drop {
				dropDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if _, drop := droppedElements[string(name)]; drop && dropDepth > 0 {
				dropDepth--
			}
		case html.TextToken:
			if dropDepth == 0 {
				out.WriteString(html.EscapeString(string(tokenizer.Text())))
			}
		}
	}
}
