package services

import (
	"passenger-itinerary-service/internal/domain"
	"reflect"
	"testing"
)

func TestResolvePickupModes(t *testing.T) {
	spec := malpensaSpec

	tests := []struct {
		name  string
		entry domain.PassengerStopEntry
		want  domain.ResolvedPoint
	}{
		{
			name:  "service pickup carries service time",
			entry: domain.PassengerStopEntry{Order: 3, PickupMode: domain.AddressModeService, PickupTime: "09:00"},
			want:  domain.ResolvedPoint{Address: "Via Roma 1", City: "Milano", Time: "08:00"},
		},
		{
			name: "registered pickup with explicit time",
			entry: domain.PassengerStopEntry{
				Order: 2, PickupMode: domain.AddressModeRegistered, PickupTime: "08:20",
				RegisteredAddress: "Corso Como 10", RegisteredCity: "Milano",
			},
			want: domain.ResolvedPoint{Address: "Corso Como 10", City: "Milano", Time: "08:20"},
		},
		{
			name: "custom first stop falls back to service time",
			entry: domain.PassengerStopEntry{
				Order: 1, PickupUsesServiceTime: true, PickupMode: domain.AddressModeCustom,
				PickupCustomAddress: "Via Verdi 5", PickupCustomCity: "Milano",
			},
			want: domain.ResolvedPoint{Address: "Via Verdi 5", City: "Milano", Time: "08:00"},
		},
		{
			name: "explicit time wins over service time",
			entry: domain.PassengerStopEntry{
				Order: 1, PickupUsesServiceTime: true, PickupMode: domain.AddressModeCustom,
				PickupCustomAddress: "Via Verdi 5", PickupTime: "07:45",
			},
			want: domain.ResolvedPoint{Address: "Via Verdi 5", Time: "07:45"},
		},
		{
			name: "first stop without service time and no time resolves none",
			entry: domain.PassengerStopEntry{
				Order: 1, PickupMode: domain.AddressModeCustom, PickupCustomAddress: "Via Verdi 5",
			},
			want: domain.ResolvedPoint{Address: "Via Verdi 5"},
		},
		{
			name: "stale flag on later stop is ignored",
			entry: domain.PassengerStopEntry{
				Order: 2, PickupUsesServiceTime: true, PickupMode: domain.AddressModeRegistered,
				RegisteredAddress: "Corso Como 10",
			},
			want: domain.ResolvedPoint{Address: "Corso Como 10"},
		},
		{
			name: "mode is matched case-insensitively",
			entry: domain.PassengerStopEntry{
				Order: 2, PickupMode: "Custom", PickupTime: "08:10",
				PickupCustomAddress: "Via Verdi 5",
			},
			want: domain.ResolvedPoint{Address: "Via Verdi 5", Time: "08:10"},
		},
		{
			name: "unknown mode resolves to nothing",
			entry: domain.PassengerStopEntry{
				Order: 2, PickupMode: "bogus", PickupTime: "08:10",
				PickupCustomAddress: "Via Verdi 5",
			},
			want: domain.ResolvedPoint{},
		},
		{
			name: "whitespace is normalized",
			entry: domain.PassengerStopEntry{
				Order: 2, PickupMode: domain.AddressModeCustom, PickupTime: " 08:10 ",
				PickupCustomAddress: "  Via   Verdi 5 ", PickupCustomCity: " Milano ",
			},
			want: domain.ResolvedPoint{Address: "Via Verdi 5", City: "Milano", Time: "08:10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.entry, spec).Pickup
			if got != tt.want {
				t.Errorf("pickup = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveDestinationNeverCarriesTime(t *testing.T) {
	spec := malpensaSpec

	tests := []struct {
		name  string
		entry domain.PassengerStopEntry
		want  domain.ResolvedPoint
	}{
		{
			name:  "service destination",
			entry: domain.PassengerStopEntry{Order: 1, PickupTime: "08:00", DestinationMode: domain.AddressModeService},
			want:  domain.ResolvedPoint{Address: "Aeroporto Malpensa", City: "Ferno"},
		},
		{
			name: "registered destination",
			entry: domain.PassengerStopEntry{
				Order: 1, PickupTime: "08:00", DestinationMode: domain.AddressModeRegistered,
				RegisteredAddress: "Corso Como 10", RegisteredCity: "Milano",
			},
			want: domain.ResolvedPoint{Address: "Corso Como 10", City: "Milano"},
		},
		{
			name: "custom destination",
			entry: domain.PassengerStopEntry{
				Order: 2, PickupTime: "08:00", DestinationMode: domain.AddressModeCustom,
				DestinationCustomAddress: "Terminal 2", DestinationCustomCity: "Ferno",
			},
			want: domain.ResolvedPoint{Address: "Terminal 2", City: "Ferno"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.entry, spec).Destination
			if got != tt.want {
				t.Errorf("destination = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	entry := domain.PassengerStopEntry{
		ID: "a", Order: 1, PickupUsesServiceTime: true,
		PickupMode: domain.AddressModeCustom, PickupCustomAddress: "  Via Verdi 5 ",
		DestinationMode: domain.AddressModeRegistered, RegisteredAddress: "Corso Como 10",
	}
	spec := malpensaSpec
	entryBefore, specBefore := entry, spec

	first := Resolve(entry, spec)
	second := Resolve(entry, spec)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Resolve not deterministic: %+v vs %+v", first, second)
	}
	if entry != entryBefore {
		t.Errorf("entry mutated: %+v", entry)
	}
	if spec != specBefore {
		t.Errorf("spec mutated: %+v", spec)
	}
}
