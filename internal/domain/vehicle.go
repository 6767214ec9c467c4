package domain

type Vehicle struct {
	ID           int64  `json:"id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year,omitempty"`
	LicensePlate string `json:"licensePlate"`
	Color        string `json:"color,omitempty"`
	UserID       int64  `json:"userId"`
}

type VehicleRef struct {
	ID           int64  `json:"id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate"`
}
