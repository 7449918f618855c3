package plo8sim

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrDeckExhausted = errors.New("deck: no cards left to deal")
	ErrInvalidCard   = errors.New("deck: invalid card")
)

// Suit values are ordered club, diamond, spade, heart; Card.ID depends
// on this order and the state encoder's card slots depend on Card.ID.
type Suit int32

const (
	Suit_Club Suit = iota
	Suit_Diamond
	Suit_Spade
	Suit_Heart
)

var suitSymbols = [...]byte{'c', 'd', 's', 'h'}

// Card is an immutable rank/suit value. Rank runs 2..14 with ace high;
// the low evaluator treats the ace as 1 on its own.
type Card struct {
	Rank int32 `json:"rank"`
	Suit Suit  `json:"suit"`
}

const rankSymbols = "  23456789TJQKA"

func NewCard(rank int32, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// ID maps a card onto 0..51, suit-major (c2..cA, d2..dA, s2..sA, h2..hA).
func (c Card) ID() int {
	return int(c.Suit)*13 + int(c.Rank-2)
}

func (c Card) String() string {
	if c.Rank < 2 || c.Rank > 14 || c.Suit < Suit_Club || c.Suit > Suit_Heart {
		return "??"
	}
	return fmt.Sprintf("%c%c", rankSymbols[c.Rank], suitSymbols[c.Suit])
}

// ParseCard parses the two-character form produced by Card.String, e.g. "As", "Td".
func ParseCard(symbol string) (Card, error) {
	if len(symbol) != 2 {
		return Card{}, ErrInvalidCard
	}

	rank := int32(UnsetValue)
	for r := int32(2); r <= 14; r++ {
		if rankSymbols[r] == symbol[0] {
			rank = r
			break
		}
	}

	suit := Suit(UnsetValue)
	for s, sym := range suitSymbols {
		if sym == symbol[1] {
			suit = Suit(s)
			break
		}
	}

	if rank == UnsetValue || suit == Suit(UnsetValue) {
		return Card{}, ErrInvalidCard
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// MustParseCard is ParseCard for fixtures; it panics on malformed input.
func MustParseCard(symbol string) Card {
	card, err := ParseCard(symbol)
	if err != nil {
		panic(fmt.Sprintf("plo8sim: bad card symbol %q", symbol))
	}
	return card
}

// ParseCards parses a space-free list of two-character cards, e.g. "AsKdTh2c".
func ParseCards(symbols string) ([]Card, error) {
	if len(symbols)%2 != 0 {
		return nil, ErrInvalidCard
	}

	cards := make([]Card, 0, len(symbols)/2)
	for i := 0; i < len(symbols); i += 2 {
		card, err := ParseCard(symbols[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Deck is a single-ownership sequence of cards for one hand. All deals
// consume from the front; a deck is never re-shuffled mid-hand.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck returns a freshly shuffled 52-card deck.
func NewDeck(r *rand.Rand) *Deck {
	cards := make([]Card, 0, 52)
	for s := Suit_Club; s <= Suit_Heart; s++ {
		for rank := int32(2); rank <= 14; rank++ {
			cards = append(cards, Card{Rank: rank, Suit: s})
		}
	}

	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &Deck{cards: cards}
}

// NewStackedDeck builds an unshuffled deck from explicit cards, dealt in the
// given order. Intended for deterministic test fixtures.
func NewStackedDeck(cards []Card) *Deck {
	return &Deck{cards: append([]Card{}, cards...)}
}

// Draw deals the next n cards. It fails with ErrDeckExhausted if fewer
// than n cards remain; dealing past 52 indicates a multi-hand reuse bug.
func (d *Deck) Draw(n int) ([]Card, error) {
	if d.next+n > len(d.cards) {
		return nil, ErrDeckExhausted
	}

	dealt := d.cards[d.next : d.next+n]
	d.next += n
	return dealt, nil
}

// Remaining reports how many cards are left undealt.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
