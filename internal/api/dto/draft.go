package dto

type ServiceSpec struct {
	PickupAddress      string `json:"pickup_address"`
	PickupCity         string `json:"pickup_city"`
	PickupTime         string `json:"pickup_time"`
	DestinationAddress string `json:"destination_address"`
	DestinationCity    string `json:"destination_city"`
}

type CreateDraftRequest struct {
	CompanyID string      `json:"company_id"`
	Service   ServiceSpec `json:"service"`
}

type DraftResponse struct {
	ID         string                    `json:"id"`
	CompanyID  string                    `json:"company_id"`
	Service    ServiceSpec               `json:"service"`
	Passengers []PassengerEntryResponse  `json:"passengers"`
	Errors     []ValidationErrorResponse `json:"errors"`
	Itinerary  ItineraryResponse         `json:"itinerary"`

	// Remap is set by reorder and remove commands.
	Remap []int `json:"remap,omitempty"`
}

type ValidationResponse struct {
	Errors   []ValidationErrorResponse `json:"errors"`
	Blocking bool                      `json:"blocking"`
}

type ValidationErrorResponse struct {
	EntryID string `json:"entry_id"`
	Field   string `json:"field"`
	Kind    string `json:"kind"`
}
