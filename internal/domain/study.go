package domain

import "fmt"

// StudyOrder selects how due and new cards are ordered.
type StudyOrder string

// Supported study orders.
const (
	// OrderRandom shows the least-practised due cards first and draws new
	// cards at random.
	OrderRandom StudyOrder = "random"

	// OrderAdded follows the order in which cards were added to the deck.
	OrderAdded StudyOrder = "added"
)

// ParseStudyOrder validates an order parameter. An empty value means OrderRandom.
func ParseStudyOrder(s string) (StudyOrder, error) {
	switch StudyOrder(s) {
	case "", OrderRandom:
		return OrderRandom, nil
	case OrderAdded:
		return OrderAdded, nil
	default:
		return "", NewInvalidParameterError("order", fmt.Sprintf("must be %q or %q", OrderRandom, OrderAdded))
	}
}
