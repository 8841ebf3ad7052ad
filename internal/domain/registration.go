package domain

import "github.com/google/uuid"

// RegistrationForm is the payload submitted by a registrant. It lives for a
// single request and is never mutated.
type RegistrationForm struct {
	FirstName string
	LastName  string
	DOB       string
	Email     string
}

// FullName joins first and last name the way the report prints them.
func (f RegistrationForm) FullName() string {
	return f.FirstName + " " + f.LastName
}

// DerivedInfo holds the values computed from a date of birth.
type DerivedInfo struct {
	Age       int
	DayOfWeek string
}

// Receipt describes a submission that went through every stage.
type Receipt struct {
	ID        uuid.UUID
	Age       int
	DayOfWeek string
}
