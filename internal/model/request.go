package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AssignBedRequest struct {
	PatientID int64 `json:"patient_id"`
}

type ViewDecision struct {
	View     View   `json:"view"`
	Decision string `json:"decision"`
	Target   View   `json:"target"`
}
