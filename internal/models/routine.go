package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RoutineStep is one entry of a submitted morning routine. Clients send
// loosely structured records; they are stored verbatim.
type RoutineStep map[string]any

// RoutineRecord is one identity's routine submission for one calendar day.
// Date is a YYYY-MM-DD string; (email, date) is unique.
type RoutineRecord struct {
	ID             primitive.ObjectID `json:"id"              bson:"_id,omitempty"`
	Email          string             `json:"email"           bson:"email"`
	MorningRoutine []RoutineStep      `json:"morning_routine" bson:"morning_routine"`
	Date           string             `json:"date"            bson:"date"`
}

// RoutineDay is the (date, email) projection for the tracker summary.
type RoutineDay struct {
	Date  string `json:"date"  bson:"date"`
	Email string `json:"email" bson:"email"`
}

// SaveRoutineRequest is the JSON body for POST /api/routine/save-routine.
type SaveRoutineRequest struct {
	Email          string        `json:"email" validate:"required,email"`
	MorningRoutine []RoutineStep `json:"morning_routine" validate:"required"`
}
