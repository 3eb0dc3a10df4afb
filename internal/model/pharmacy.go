package model

type Medicine struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Manufacturer  string  `json:"manufacturer"`
	StockQuantity int     `json:"stock_quantity"`
	UnitPrice     float64 `json:"unit_price"`
}

type MedicineInput struct {
	Name          string  `json:"name"`
	Manufacturer  string  `json:"manufacturer"`
	StockQuantity int     `json:"stock_quantity"`
	UnitPrice     float64 `json:"unit_price"`
}

type MedicineUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Manufacturer *string  `json:"manufacturer,omitempty"`
	UnitPrice    *float64 `json:"unit_price,omitempty"`
}

type Restock struct {
	QuantityAdded int `json:"quantity_added"`
}

// Dispensation is an immutable record of stock handed out to a patient.
type Dispensation struct {
	ID                int64     `json:"id"`
	PatientID         int64     `json:"patient_id"`
	MedicineID        int64     `json:"medicine_id"`
	QuantityDispensed int       `json:"quantity_dispensed"`
	Notes             *string   `json:"notes"`
	StaffID           int64     `json:"staff_id"`
	DateDispensed     Timestamp `json:"date_dispensed"`
	Patient           *Patient  `json:"patient,omitempty"`
	Medicine          *Medicine `json:"medicine,omitempty"`
	Staff             *Staff    `json:"staff,omitempty"`
}

type DispenseRequest struct {
	PatientID         int64   `json:"patient_id"`
	MedicineID        int64   `json:"medicine_id"`
	QuantityDispensed int     `json:"quantity_dispensed"`
	Notes             *string `json:"notes,omitempty"`
}
