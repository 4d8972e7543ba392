package requests

type CreateAppointment struct {
	NationalID      string `json:"cpf" validate:"required,cpf"`
	Date            string `json:"date" validate:"required,iso_date"`
	From            string `json:"from" validate:"required_without=Time,omitempty,hhmm"`
	To              string `json:"to" validate:"required_with=From,omitempty,hhmm"`
	Time            string `json:"time" validate:"required_without=From,omitempty,hhmm"`
	DurationMinutes int    `json:"durationMinutes" validate:"required_with=Time,omitempty,gt=0,max=240"`
	SpecialtyID     string `json:"specialtyId"`
	Notes           string `json:"notes" validate:"max=500"`
}

type Availability struct {
	SpecialtyID string `json:"specialtyId"`
	DateInitial string `json:"dateInitial" validate:"required,br_date"`
	DateFinal   string `json:"dateFinal" validate:"required,br_date"`
}

type CreateImmediateRequest struct {
	NationalID  string `json:"cpf" validate:"required,cpf"`
	SpecialtyID string `json:"specialtyId"`
}
