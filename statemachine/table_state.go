package statemachine

import (
	"errors"
	"gaming-cafe-api/models"
)

// Transition defines a valid status change and who can perform it
type Transition struct {
	From  models.TableStatus
	To    models.TableStatus
	Actor string // "staff", "admin", "system"
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Staff or admin reserve a free table and release a reservation
	{From: models.StatusEmpty, To: models.StatusReserved, Actor: "staff"},
	{From: models.StatusEmpty, To: models.StatusReserved, Actor: "admin"},
	{From: models.StatusReserved, To: models.StatusEmpty, Actor: "staff"},
	{From: models.StatusReserved, To: models.StatusEmpty, Actor: "admin"},
	// Session start occupies the table
	{From: models.StatusEmpty, To: models.StatusOccupied, Actor: "system"},
	{From: models.StatusReserved, To: models.StatusOccupied, Actor: "system"},
	// Closing the bill frees the table, or parks it when it was flagged broken
	{From: models.StatusOccupied, To: models.StatusEmpty, Actor: "system"},
	{From: models.StatusOccupied, To: models.StatusOutOfOrder, Actor: "system"},
	// Admin takes a table out of service, even mid-session
	{From: models.StatusEmpty, To: models.StatusOutOfOrder, Actor: "admin"},
	{From: models.StatusReserved, To: models.StatusOutOfOrder, Actor: "admin"},
	{From: models.StatusOccupied, To: models.StatusOutOfOrder, Actor: "admin"},
	// Admin puts a repaired table back in service
	{From: models.StatusOutOfOrder, To: models.StatusEmpty, Actor: "admin"},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.TableStatus
	To    models.TableStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.TableStatus) []models.TableStatus {
	var nexts []models.TableStatus
	seen := map[models.TableStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.TableStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " → " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.TableStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
