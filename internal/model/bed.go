package model

type BedState string

const (
	BedVacant   BedState = "Vacant"
	BedOccupied BedState = "Occupied"
)

type Bed struct {
	ID         int64    `json:"id"`
	RoomNumber string   `json:"room_number"`
	BedNumber  string   `json:"bed_number"`
	IsOccupied bool     `json:"is_occupied"`
	PatientID  *int64   `json:"patient_id"`
	Patient    *Patient `json:"patient,omitempty"`
}

func (b Bed) State() BedState {
	if b.IsOccupied {
		return BedOccupied
	}
	return BedVacant
}

// Consistent reports whether the occupancy flag agrees with the patient
// reference.
func (b Bed) Consistent() bool {
	return b.IsOccupied == (b.PatientID != nil)
}

type BedInput struct {
	RoomNumber string `json:"room_number"`
	BedNumber  string `json:"bed_number"`
}

// BedUpdate is the body of the hospital API's bed update call, used for
// both assignment and discharge. PatientID is sent as null on discharge.
type BedUpdate struct {
	IsOccupied bool   `json:"is_occupied"`
	PatientID  *int64 `json:"patient_id"`
}
