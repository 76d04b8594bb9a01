package dto

// AddPassengerRequest inserts a roster passenger when PassengerID is set,
// otherwise an ad-hoc passenger named DisplayName.
type AddPassengerRequest struct {
	PassengerID              string `json:"passenger_id"`
	DisplayName              string `json:"display_name"`
	PickupMode               string `json:"pickup_mode"`
	PickupCustomAddress      string `json:"pickup_custom_address"`
	PickupCustomCity         string `json:"pickup_custom_city"`
	PickupTime               string `json:"pickup_time"`
	DestinationMode          string `json:"destination_mode"`
	DestinationCustomAddress string `json:"destination_custom_address"`
	DestinationCustomCity    string `json:"destination_custom_city"`
}

// UpdatePassengerRequest edits only the fields present in the body.
type UpdatePassengerRequest struct {
	DisplayName              *string `json:"display_name"`
	PickupMode               *string `json:"pickup_mode"`
	PickupCustomAddress      *string `json:"pickup_custom_address"`
	PickupCustomCity         *string `json:"pickup_custom_city"`
	PickupTime               *string `json:"pickup_time"`
	PickupUsesServiceTime    *bool   `json:"pickup_uses_service_time"`
	DestinationMode          *string `json:"destination_mode"`
	DestinationCustomAddress *string `json:"destination_custom_address"`
	DestinationCustomCity    *string `json:"destination_custom_city"`
}

type PassengerEntryResponse struct {
	ID                       string `json:"id"`
	PassengerID              string `json:"passenger_id,omitempty"`
	DisplayName              string `json:"display_name"`
	RegisteredAddress        string `json:"registered_address,omitempty"`
	RegisteredCity           string `json:"registered_city,omitempty"`
	Order                    int    `json:"order"`
	PickupMode               string `json:"pickup_mode"`
	PickupCustomAddress      string `json:"pickup_custom_address,omitempty"`
	PickupCustomCity         string `json:"pickup_custom_city,omitempty"`
	PickupTime               string `json:"pickup_time,omitempty"`
	PickupUsesServiceTime    bool   `json:"pickup_uses_service_time"`
	DestinationMode          string `json:"destination_mode"`
	DestinationCustomAddress string `json:"destination_custom_address,omitempty"`
	DestinationCustomCity    string `json:"destination_custom_city,omitempty"`
}

type RosterPassengerResponse struct {
	ID          string `json:"passenger_id"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
}

type ListPassengersResponse struct {
	CompanyID  string                    `json:"company_id"`
	Passengers []RosterPassengerResponse `json:"passengers"`
}
