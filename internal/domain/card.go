package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CardType controls how a card is presented. The scheduler treats all types alike.
type CardType string

// Supported card types.
const (
	CardTypeRecognition CardType = "recognition"
	CardTypeProduction  CardType = "production"
	CardTypeSpelling    CardType = "spelling"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card has no prompt text.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardTypeInvalid is returned for an unknown card type.
	ErrCardTypeInvalid = errors.New("card type must be recognition, production or spelling")
)

// Valid reports whether t is a known card type.
func (t CardType) Valid() bool {
	switch t {
	case CardTypeRecognition, CardTypeProduction, CardTypeSpelling:
		return true
	}
	return false
}

// Card is a catalog flashcard. Cards are shared across learners and are
// read-only for this service.
type Card struct {
	ID         uuid.UUID  `json:"id"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Front      string     `json:"front"`
	Back       string     `json:"back"`
	CardType   CardType   `json:"card_type"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if !c.CardType.Valid() {
		return ErrCardTypeInvalid
	}

	return nil
}

// StudyCard is a catalog card together with the learner's memory state.
// State is nil for cards the learner has never reviewed.
type StudyCard struct {
	Card
	State *CardMemoryState `json:"state,omitempty"`
}

// IsNew reports whether the learner has never reviewed this card.
func (c StudyCard) IsNew() bool {
	return c.State == nil
}
