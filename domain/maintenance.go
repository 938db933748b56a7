package domain

type MaintenanceRecord struct {
	ID          string  `json:"id" csv:"id"`
	Date        string  `json:"date" csv:"date" validate:"required"`
	Time        string  `json:"time" csv:"time"`
	ServiceType string  `json:"service_type" csv:"service_type" validate:"required,max=100"`
	Price       float64 `json:"price" csv:"price" validate:"gte=0"`
	Remarks     string  `json:"remarks" csv:"remarks"`
}
