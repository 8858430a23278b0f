package extract

import (
	"slices"
	"strings"
	"unicode"
)

// Decision is the customer's answer to a confirmation prompt.
type Decision int

const (
	Undecided Decision = iota
	Affirm
	Decline
)

var (
	affirmWords  = []string{"yes", "confirm", "correct", "right", "submit"}
	affirmPhrase = []string{"this address"}
	declineWords = []string{"no", "not", "wrong", "incorrect", "cancel"}
	changeWords  = []string{"change"}

	addressChangePhrases = []string{
		"new address",
		"different address",
		"another address",
		"other address",
		"change address",
		"change my address",
		"change the address",
		"update address",
		"update my address",
		"update the address",
		"i moved",
		"i have moved",
		"i've moved",
	}
)

// words splits s into lowercase words. Apostrophes stay inside words.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
}

func normalize(s string) string {
	return strings.Join(words(s), " ")
}

func hasWord(ws []string, set []string) bool {
	for _, w := range ws {
		if slices.Contains(set, w) {
			return true
		}
	}
	return false
}

func hasPhrase(s string, phrases []string) bool {
	padded := " " + normalize(s) + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}

// Classify reads a confirmation answer. Only the listed negative words count
// as a decline; contractions such as "don't" do not. A negative word wins
// over an affirmative one, so "no, that's not right" is a decline.
func Classify(message string) Decision {
	ws := words(message)
	if hasWord(ws, declineWords) {
		return Decline
	}
	if hasWord(ws, affirmWords) || hasPhrase(message, affirmPhrase) {
		return Affirm
	}
	return Undecided
}

// HasDeclineOrChange reports whether the message rejects or asks to change
// what was presented.
func HasDeclineOrChange(message string) bool {
	return Classify(message) == Decline || hasWord(words(message), changeWords)
}

// RequestsAddressChange reports whether the message asks to use another address.
func RequestsAddressChange(message string) bool {
	return hasPhrase(message, addressChangePhrases)
}

// minAddressWords is how many non-keyword words a reply needs before it is
// worth asking the model for an address.
const minAddressWords = 3

// hasAddressRoom reports whether message carries enough text beyond yes/no
// keywords to contain an address.
func hasAddressRoom(message string) bool {
	n := 0
	for _, w := range words(message) {
		if slices.Contains(affirmWords, w) || slices.Contains(declineWords, w) ||
			slices.Contains(changeWords, w) {
			continue
		}
		n++
	}
	return n >= minAddressWords
}
