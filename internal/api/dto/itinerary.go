package dto

type PointResponse struct {
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	Time    string `json:"time,omitempty"`
}

type StopResponse struct {
	Kind        string         `json:"kind"`
	Label       string         `json:"label"`
	EntryID     string         `json:"entry_id,omitempty"`
	Order       int            `json:"order,omitempty"`
	Point       *PointResponse `json:"point,omitempty"`
	Pickup      *PointResponse `json:"pickup,omitempty"`
	Destination *PointResponse `json:"destination,omitempty"`
}

type ItineraryResponse struct {
	Stops  []StopResponse            `json:"stops"`
	Errors []ValidationErrorResponse `json:"errors"`
}
