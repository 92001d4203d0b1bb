package ai

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// SplitReasoning separates a model's deliberation from its answer.
//
// Everything before the first closing marker, minus the first opening
// marker, is reasoning; the text after it is content. Later markers are kept
// verbatim in the content. Without a closing marker the whole reply is
// content. Blank reasoning is reported as nil.
func SplitReasoning(reply string) (content string, reasoning *string) {
	end := strings.Index(reply, thinkClose)
	if end < 0 {
		return strings.TrimSpace(reply), nil
	}

	head := strings.Replace(reply[:end], thinkOpen, "", 1)
	content = strings.TrimSpace(reply[end+len(thinkClose):])

	if r := strings.TrimSpace(head); r != "" {
		reasoning = &r
	}
	return content, reasoning
}
