package extract

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const noneMarker = "None"

const complaintPromptTemplate = `Extract the customer complaint from this message. Return ONLY the complaint text, or "None" if no complaint is present.

Message: %s
Complaint:`

const phonePromptTemplate = `Find a phone/mobile number written in words in this message (for example "zero five zero one two three"). Return ONLY the digits with no spaces or dashes, or "None" if no number is present.

Message: %s
Phone number:`

const addressPromptTemplate = `Extract the service address from this message. Return ONLY the address, or "None" if no address is present.

Message: %s
Address:`

func buildPrompt(template, message string) string {
	return fmt.Sprintf(template, message)
}

// cleanOutput strips whitespace and wrapping quotes from a model answer.
func cleanOutput(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'`")
}

// isNone reports whether a cleaned model answer is the "nothing found" marker.
func isNone(s string) bool {
	return strings.EqualFold(strings.TrimRight(s, ".!"), noneMarker)
}

// accepted returns the cleaned answer when it is not the marker and longer
// than minLen characters.
func accepted(raw string, minLen int) (string, bool) {
	out := cleanOutput(raw)
	if out == "" || isNone(out) || utf8.RuneCountInString(out) <= minLen {
		return "", false
	}
	return out, true
}

// Digits returns the ASCII digits of s in order.
func Digits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf && unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
