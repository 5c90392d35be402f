package model

// AccessPoint is a physical checkpoint guarded by one or more equipment
// units. GeneralExit points are open to everyone and never receive explicit
// grants.
type AccessPoint struct {
	ID            string   `json:"id"`
	TenantID      string   `json:"tenant_id"`
	Name          string   `json:"name"`
	GeneralExit   bool     `json:"general_exit"`
	PersonTypeIDs []string `json:"person_type_ids"`
	EquipmentIDs  []string `json:"equipment_ids"`
	AccessAreaID  string   `json:"access_area_id,omitempty"`
}

// AllowsPersonType reports whether the given person type may receive a grant
// at this access point.
func (p AccessPoint) AllowsPersonType(personTypeID string) bool {
	for _, id := range p.PersonTypeIDs {
		if id == personTypeID {
			return true
		}
	}
	return false
}

// Area groups access points; granting an area grants every point under it.
type Area struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
}
