package domain

// A passenger as stored in a company's roster (rubrica).
//
// Roster rows are loosely shaped: names may be split or only combined in
// FullName, and address fields may be blank. Rows are normalized into a
// PassengerStopEntry once, when the passenger is attached to a service.
type RosterPassenger struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
}
