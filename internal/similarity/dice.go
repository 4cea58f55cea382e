package similarity

// Score computes the Sorensen-Dice similarity of two strings over their
// character bigram sets, after normalizing both inputs. The result is in
// [0, 1]: 1.0 for identical normalized strings, 0.0 for no shared bigrams.
// The function is symmetric and reflexive.
//
// Strings whose normalized form is shorter than two characters have no
// bigrams; they are scored by exact equality instead. Two empty strings
// therefore score 1.0; callers that must distinguish genuinely absent titles
// have to check for emptiness themselves.
func Score(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	ra := []rune(na)
	rb := []rune(nb)
	if len(ra) < 2 || len(rb) < 2 {
		if na == nb {
			return 1.0
		}
		return 0.0
	}

	ba := bigrams(ra)
	bb := bigrams(rb)

	shared := 0
	for g := range ba {
		if _, ok := bb[g]; ok {
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(ba)+len(bb))
}

// bigrams returns the set of distinct overlapping 2-character substrings.
// Duplicate bigrams within a string are counted once; the same convention is
// used for both operands, keeping numerator and denominator consistent.
func bigrams(r []rune) map[string]struct{} {
	set := make(map[string]struct{}, len(r)-1)
	for i := 0; i < len(r)-1; i++ {
		set[string(r[i:i+2])] = struct{}{}
	}
	return set
}
