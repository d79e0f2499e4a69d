package models

// CarRegistry resolves car ids to the car's current state. Engines and
// snapshots both implement it; an unknown id yields false.
type CarRegistry interface {
	GetCar(id uint32) (Car, bool)
}

// GetContactingCar resolves OtherCarID through reg. A zero id, or an id that
// no longer resolves because the car was removed, yields false.
func (c Car) GetContactingCar(reg CarRegistry) (Car, bool) {
	if c.OtherCarID == 0 || reg == nil {
		return Car{}, false
	}
	return reg.GetCar(c.OtherCarID)
}
