package deck_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/rockdeck/internal/deck"
	"github.com/kpauljoseph/rockdeck/pkg/models"
)

var _ = Describe("Session", func() {
	var manifest models.Manifest

	BeforeEach(func() {
		manifest = models.Manifest{
			"granite": {"g1", "g2"},
			"basalt":  {"b1"},
			"slate":   {"s1", "s2", "s3", "s4", "s5", "s6", "s7"},
			"marble":  {},
		}
	})

	newSession := func(deckSize int) *deck.Session {
		return deck.NewSessionWithSource(manifest, deckSize, testRand())
	}

	Describe("building the practice deck", func() {
		It("takes min(K, class size) cards per class", func() {
			s := newSession(5)
			// granite 2 + basalt 1 + slate 5, marble has no images
			Expect(s.DeckLen()).To(Equal(8))
		})

		It("excludes classes with zero images", func() {
			s := newSession(5)
			for _, card := range s.Deck() {
				Expect(card.Label).NotTo(Equal("marble"))
			}
		})

		It("ignores labels absent from the manifest", func() {
			s := newSession(5)
			s.BuildPracticeDeck([]string{"granite", "obsidian"})
			Expect(s.DeckLen()).To(Equal(2))
		})

		It("yields an empty deck for an empty label list", func() {
			s := newSession(5)
			s.BuildPracticeDeck(nil)
			Expect(s.DeckLen()).To(BeZero())
		})

		It("samples each label once no matter how often it is listed", func() {
			s := newSession(5)
			s.BuildPracticeDeck([]string{"basalt", "basalt", "granite"})
			Expect(s.DeckLen()).To(Equal(3))
		})

		It("pairs every sampled ref with its own label", func() {
			s := newSession(5)
			for _, card := range s.Deck() {
				Expect(manifest[card.Label]).To(ContainElement(card.Ref))
			}
		})
	})

	Describe("drawing cards", func() {
		It("visits every card exactly once before any repeat", func() {
			s := newSession(5)
			size := s.DeckLen()

			seen := make(map[models.Card]int)
			for i := 0; i < size; i++ {
				card, ok := s.NextCard()
				Expect(ok).To(BeTrue())
				seen[card]++
			}

			Expect(seen).To(HaveLen(size))
			for card, n := range seen {
				Expect(n).To(Equal(1), "card %v drawn %d times in one pass", card, n)
			}
		})

		It("reshuffles the same composition after exhaustion", func() {
			s := newSession(5)
			size := s.DeckLen()

			firstPass := make(map[models.Card]bool)
			for i := 0; i < size; i++ {
				card, _ := s.NextCard()
				firstPass[card] = true
			}

			// Second pass draws from a reshuffle, not a resample.
			for i := 0; i < size; i++ {
				card, ok := s.NextCard()
				Expect(ok).To(BeTrue())
				Expect(firstPass).To(HaveKey(card))
			}
		})

		It("handles a single-card deck", func() {
			s := deck.NewSessionWithSource(models.Manifest{"basalt": {"b1"}}, 5, testRand())
			for i := 0; i < 3; i++ {
				card, ok := s.NextCard()
				Expect(ok).To(BeTrue())
				Expect(card).To(Equal(models.Card{Ref: "b1", Label: "basalt"}))
			}
		})

		It("is a no-op on an empty deck", func() {
			s := deck.NewSessionWithSource(models.Manifest{}, 5, testRand())
			_, ok := s.NextCard()
			Expect(ok).To(BeFalse())
			_, _, hasCard := s.Current()
			Expect(hasCard).To(BeFalse())
		})

		It("resets the reveal flag on every draw", func() {
			s := newSession(5)
			s.Reveal()
			_, revealed, _ := s.Current()
			Expect(revealed).To(BeTrue())

			s.NextCard()
			_, revealed, _ = s.Current()
			Expect(revealed).To(BeFalse())
		})
	})

	Describe("reveal", func() {
		It("is idempotent", func() {
			s := newSession(5)
			s.Reveal()
			card1, revealed1, _ := s.Current()
			s.Reveal()
			card2, revealed2, _ := s.Current()

			Expect(revealed1).To(BeTrue())
			Expect(revealed2).To(BeTrue())
			Expect(card1).To(Equal(card2))
			Expect(s.PileLen()).To(Equal(s.DeckLen() - 1))
		})
	})

	Describe("changing the active selection", func() {
		It("narrows class coverage to exactly the selected subset", func() {
			s := newSession(5)
			s.SetActiveSelection([]string{"granite"})

			Expect(s.DeckLen()).To(Equal(2))
			for _, card := range s.Deck() {
				Expect(card.Label).To(Equal("granite"))
			}
		})

		It("treats an empty selection as all classes", func() {
			s := newSession(5)
			s.SetActiveSelection([]string{"granite"})
			s.SetActiveSelection(nil)
			Expect(s.DeckLen()).To(Equal(8))
		})

		It("draws a fresh card immediately", func() {
			s := newSession(5)
			s.SetActiveSelection([]string{"slate"})
			card, _, hasCard := s.Current()
			Expect(hasCard).To(BeTrue())
			Expect(card.Label).To(Equal("slate"))
		})

		It("resets reveal state on rebuild", func() {
			s := newSession(5)
			s.Reveal()
			s.SetActiveSelection([]string{"slate"})
			_, revealed, _ := s.Current()
			Expect(revealed).To(BeFalse())
		})

		It("counts a repeated label once", func() {
			s := newSession(5)
			s.SetActiveSelection([]string{"granite", "granite", "granite"})

			Expect(s.Selection()).To(Equal([]string{"granite"}))
			Expect(s.DeckLen()).To(Equal(2))

			counts := make(map[models.Card]int)
			for _, card := range s.Deck() {
				counts[card]++
			}
			for card, n := range counts {
				Expect(n).To(Equal(1), "card %v sampled %d times in one deck", card, n)
			}
		})

		It("keeps the per-class bound under duplicated labels", func() {
			s := newSession(5)
			s.SetActiveSelection([]string{"slate", "slate"})
			Expect(s.DeckLen()).To(Equal(5))
		})
	})

	Describe("the two-class example", func() {
		It("exhausts three cards before any reshuffle", func() {
			small := models.Manifest{
				"granite": {"g1", "g2"},
				"basalt":  {"b1"},
			}
			s := deck.NewSessionWithSource(small, 5, testRand())
			Expect(s.DeckLen()).To(Equal(3))

			// The constructor already drew one card.
			drawn := []models.Card{}
			card, _, _ := s.Current()
			drawn = append(drawn, card)
			for i := 0; i < 2; i++ {
				card, ok := s.NextCard()
				Expect(ok).To(BeTrue())
				drawn = append(drawn, card)
			}

			Expect(drawn).To(ConsistOf(
				models.Card{Ref: "g1", Label: "granite"},
				models.Card{Ref: "g2", Label: "granite"},
				models.Card{Ref: "b1", Label: "basalt"},
			))

			// Fourth draw comes from a reshuffle of the same three.
			card4, ok := s.NextCard()
			Expect(ok).To(BeTrue())
			Expect(drawn).To(ContainElement(card4))
		})
	})

	Describe("readiness", func() {
		It("makes every operation a no-op on a nil session", func() {
			var s *deck.Session
			Expect(s.Ready()).To(BeFalse())

			s.BuildPracticeDeck([]string{"granite"})
			s.SetActiveSelection([]string{"granite"})
			s.Reveal()
			_, ok := s.NextCard()
			Expect(ok).To(BeFalse())
			Expect(s.DeckLen()).To(BeZero())
			Expect(s.Labels()).To(BeEmpty())
		})
	})

	Describe("deck size bound", func() {
		It("holds for arbitrary manifests", func() {
			wide := models.Manifest{}
			for i := 0; i < 12; i++ {
				label := fmt.Sprintf("class%02d", i)
				for j := 0; j < i; j++ {
					wide[label] = append(wide[label], fmt.Sprintf("%s/img_%d.png", label, j))
				}
			}

			s := deck.NewSessionWithSource(wide, 5, testRand())
			want := 0
			for _, refs := range wide {
				if n := len(refs); n > 0 {
					want += min(n, 5)
				}
			}
			Expect(s.DeckLen()).To(Equal(want))
		})
	})
})
