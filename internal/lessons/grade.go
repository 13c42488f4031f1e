package lessons

import "strings"

// Grade reports whether a selected answer matches the question's correct
// value. The contract is exact value match; as a compatibility measure for
// payloads where the correct value is a leading index label (correct "0"
// against answer "0. Forty-two"), a prefix match also counts. Grading is
// single-shot and purely client-side.
func Grade(selected, correct string) bool {
	if correct == "" {
		return selected == ""
	}
	if selected == correct {
		return true
	}
	return strings.HasPrefix(selected, correct)
}
