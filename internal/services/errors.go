package services

import "fmt"

// ValidationError marks a user-correctable request problem (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError marks a reference to an entity that does not exist (404).
// For products, Name is the client-supplied item name, matching the message
// the API has always returned; Message overrides the default wording.
type NotFoundError struct {
	Name    string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Product %s not found", e.Name)
}

// InsufficientInventoryError marks a quantity that exceeds current stock (400).
type InsufficientInventoryError struct {
	Name string
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("Insufficient inventory for %s", e.Name)
}
