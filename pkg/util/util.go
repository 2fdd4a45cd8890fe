package util

import (
	"github.com/google/uuid"
)

//NewRandomUUID generates a random UUID, falling back to the zero UUID when
//the platform entropy source misbehaves rather than panicking mid-evaluation
func NewRandomUUID() uuid.UUID {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.UUID{}
	}
	return id
}
