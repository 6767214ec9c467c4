package vehicle

type VehicleRequest struct {
	Make         string `json:"make" validate:"required,max=50"`
	Model        string `json:"model" validate:"required,max=50"`
	Year         int    `json:"year"`
	LicensePlate string `json:"licensePlate" validate:"required,min=5,max=10"`
	Color        string `json:"color" validate:"max=30"`
}

type ListQuery struct {
	UserID *int64 `form:"userId"`
}
