package notecards

// WordsPerCard is the transcript length that earns one card.
const WordsPerCard = 200

// SelectCount is clamp(words/200, minCards, maxCards).
// It ignores how many cards the model actually produced.
func SelectCount(words, minCards, maxCards int) int {
	n := words / WordsPerCard
	if n < minCards {
		n = minCards
	}
	if n > maxCards {
		n = maxCards
	}
	return n
}

// Truncate keeps at most n cards. It never pads.
func Truncate(cards []NoteCard, n int) []NoteCard {
	if n <= 0 || len(cards) == 0 {
		return []NoteCard{}
	}
	if n > len(cards) {
		n = len(cards)
	}
	return cards[:n]
}
