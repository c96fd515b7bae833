package deck

import (
	"math/rand/v2"
	"sort"

	"github.com/kpauljoseph/rockdeck/pkg/models"
)

const DefaultDeckSize = 5

// Session is the practice state for one user: the loaded manifest, the
// current deck sample, the shuffled draw pile, and the card on display.
// It is not safe for concurrent use; the HTTP layer serializes access.
//
// Reveal state resets whenever the deck is rebuilt, so changing the class
// filter while a label is showing always comes back face down.
type Session struct {
	rng      *rand.Rand
	manifest models.Manifest
	deckSize int

	deck      []models.Card
	pile      []models.Card
	selection []string

	current  *models.Card
	revealed bool
}

// NewSession creates a ready session over the given manifest. deckSize is
// the per-class sample bound; values < 1 fall back to DefaultDeckSize.
// The initial deck covers every class and a first card is drawn.
func NewSession(manifest models.Manifest, deckSize int) *Session {
	return NewSessionWithSource(manifest, deckSize, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewSessionWithSource is NewSession with an injectable random source.
func NewSessionWithSource(manifest models.Manifest, deckSize int, rng *rand.Rand) *Session {
	if deckSize < 1 {
		deckSize = DefaultDeckSize
	}
	s := &Session{
		rng:      rng,
		manifest: manifest,
		deckSize: deckSize,
	}
	s.SetActiveSelection(nil)
	return s
}

// Ready reports whether deck operations are permitted. Before the manifest
// has loaded the session pointer is nil, and every operation is a no-op.
func (s *Session) Ready() bool {
	return s != nil && s.manifest != nil
}

// Labels returns every manifest class with at least one image, sorted.
func (s *Session) Labels() []string {
	if !s.Ready() {
		return nil
	}
	labels := make([]string, 0, len(s.manifest))
	for label, refs := range s.manifest {
		if len(refs) > 0 {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}

// ClassCounts returns the image count per non-empty class.
func (s *Session) ClassCounts() map[string]int {
	if !s.Ready() {
		return nil
	}
	counts := make(map[string]int, len(s.manifest))
	for label, refs := range s.manifest {
		if len(refs) > 0 {
			counts[label] = len(refs)
		}
	}
	return counts
}

// BuildPracticeDeck samples up to deckSize images per label and replaces the
// deck with the concatenation. The draw pile becomes a full shuffle of the
// new deck. Labels missing from the manifest or without images contribute
// nothing; an empty label list yields an empty deck.
func (s *Session) BuildPracticeDeck(activeLabels []string) {
	if !s.Ready() {
		return
	}

	labels := make([]string, len(activeLabels))
	copy(labels, activeLabels)
	sort.Strings(labels)

	var deck []models.Card
	for i, label := range labels {
		// Repeated labels count once; a class never contributes more
		// than deckSize cards to one generation.
		if i > 0 && label == labels[i-1] {
			continue
		}
		refs := s.manifest[label]
		for _, ref := range SampleUpTo(s.rng, refs, s.deckSize) {
			deck = append(deck, models.Card{Ref: ref, Label: label})
		}
	}

	s.deck = deck
	s.pile = shuffled(s.rng, deck)
	s.revealed = false
}

// NextCard draws one card. An empty draw pile is refilled with a fresh
// shuffle of the current deck first; composition never changes between
// rebuilds, only order. With an empty deck this is a no-op and the current
// card, if any, stays put.
func (s *Session) NextCard() (models.Card, bool) {
	if !s.Ready() || len(s.deck) == 0 {
		return models.Card{}, false
	}

	if len(s.pile) == 0 {
		s.pile = shuffled(s.rng, s.deck)
	}

	last := len(s.pile) - 1
	card := s.pile[last]
	s.pile = s.pile[:last]

	s.current = &card
	s.revealed = false
	return card, true
}

// Reveal shows the current card's label. Idempotent; no-op without a card.
func (s *Session) Reveal() {
	if !s.Ready() || s.current == nil {
		return
	}
	s.revealed = true
}

// SetActiveSelection replaces the class filter and rebuilds the deck over
// the effective label set: the selection when non-empty, otherwise every
// manifest class with at least one image. A new card is drawn immediately.
func (s *Session) SetActiveSelection(labels []string) {
	if !s.Ready() {
		return
	}

	s.selection = s.selection[:0]
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		s.selection = append(s.selection, label)
	}

	effective := s.selection
	if len(effective) == 0 {
		effective = s.Labels()
	}

	s.BuildPracticeDeck(effective)
	s.NextCard()
}

// Selection returns the active class filter (empty means "all classes").
func (s *Session) Selection() []string {
	if !s.Ready() {
		return nil
	}
	out := make([]string, len(s.selection))
	copy(out, s.selection)
	return out
}

// Current returns the card on display and whether its label is revealed.
func (s *Session) Current() (models.Card, bool, bool) {
	if !s.Ready() || s.current == nil {
		return models.Card{}, false, false
	}
	return *s.current, s.revealed, true
}

// Deck returns a copy of the current deck sample.
func (s *Session) Deck() []models.Card {
	if !s.Ready() {
		return nil
	}
	out := make([]models.Card, len(s.deck))
	copy(out, s.deck)
	return out
}

// DeckLen and PileLen expose sizes for the state endpoint.
func (s *Session) DeckLen() int {
	if !s.Ready() {
		return 0
	}
	return len(s.deck)
}

func (s *Session) PileLen() int {
	if !s.Ready() {
		return 0
	}
	return len(s.pile)
}

// shuffled returns an unbiased Fisher-Yates shuffle of a copy of cards.
func shuffled(rng *rand.Rand, cards []models.Card) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
