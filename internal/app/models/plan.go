package models

type Plan struct {
	ID              string   `json:"id" bson:"_id"`
	Name            string   `json:"nome" bson:"name"`
	Cycle           string   `json:"periodicidade" bson:"cycle"`
	Price           float64  `json:"preco" bson:"price"`
	Specialties     []string `json:"especialidades" bson:"specialties"`
	MedicalPlanUUID string   `json:"medicalPlanUuid" bson:"medicalPlanUuid"`
	PaymentType     string   `json:"paymentType" bson:"paymentType"`
	ServiceType     string   `json:"serviceType,omitempty" bson:"serviceType,omitempty"`
	TimeModel       `bson:",inline"`
}

// CoversSpecialty reports whether the plan lists specialtyUUID. A plan without
// specialties covers every specialty.
func (p *Plan) CoversSpecialty(specialtyUUID string) bool {
	if len(p.Specialties) == 0 {
		return true
	}
	for _, specialty := range p.Specialties {
		if specialty == specialtyUUID {
			return true
		}
	}
	return false
}
