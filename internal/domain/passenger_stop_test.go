package domain

import (
	"errors"
	"testing"
)

func TestValidClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"08:00", true},
		{"23:59", true},
		{"00:00", true},
		{" 08:15 ", true},
		{"8:00", false},
		{"24:00", false},
		{"12:60", false},
		{"0800", false},
		{"", false},
		{"ab:cd", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ValidClockTime(tt.in); got != tt.want {
				t.Errorf("ValidClockTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAddressMode(t *testing.T) {
	tests := []struct {
		in      string
		want    AddressMode
		wantErr bool
	}{
		{"", AddressModeService, false},
		{"service", AddressModeService, false},
		{" Registered ", AddressModeRegistered, false},
		{"CUSTOM", AddressModeCustom, false},
		{"home", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAddressMode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidMode) {
				t.Errorf("ParseAddressMode(%q) err = %v, want ErrInvalidMode", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAddressMode(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseAddressMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEntryRequiresExplicitTime(t *testing.T) {
	first := PassengerStopEntry{Order: 1, PickupUsesServiceTime: true}
	if first.RequiresExplicitTime() {
		t.Errorf("first entry using service time should not require an explicit time")
	}

	first.PickupUsesServiceTime = false
	if !first.RequiresExplicitTime() {
		t.Errorf("first entry opted out of service time should require an explicit time")
	}

	// A stale flag on a later entry never waives the requirement.
	second := PassengerStopEntry{Order: 2, PickupUsesServiceTime: true}
	if !second.RequiresExplicitTime() {
		t.Errorf("entry with order 2 should require an explicit time")
	}
}

func TestNormalizeText(t *testing.T) {
	if got := NormalizeText("  Via   Roma\t1 "); got != "Via Roma 1" {
		t.Errorf("NormalizeText = %q, want %q", got, "Via Roma 1")
	}
}

func TestValidationErrorsHelpers(t *testing.T) {
	errs := ValidationErrors{
		{EntryID: "a", Field: FieldPickupTime, Kind: KindRequiresExplicitTime},
		{EntryID: "b", Field: FieldDisplayName, Kind: KindEmptyDisplayName},
	}

	if errs.Fatal() {
		t.Errorf("user errors reported as fatal")
	}
	if got := errs.ForEntry("a"); len(got) != 1 || got[0].Kind != KindRequiresExplicitTime {
		t.Errorf("ForEntry(a) = %v", got)
	}
	if got := errs.Kinds(); len(got) != 2 || got[1] != KindEmptyDisplayName {
		t.Errorf("Kinds() = %v", got)
	}
	if !errs.Has("b", KindEmptyDisplayName) {
		t.Errorf("Has(b, empty_display_name) = false")
	}

	errs = append(errs, ValidationError{Field: FieldOrder, Kind: KindOrderIntegrity})
	if !errs.Fatal() {
		t.Errorf("order integrity error not reported as fatal")
	}
}

func TestUsesDefaultsMatchesModesCaseInsensitively(t *testing.T) {
	tests := []struct {
		pickup, dest AddressMode
		want         bool
	}{
		{"", "", true},
		{"Service", " SERVICE ", true},
		{"Custom", AddressModeService, false},
		{AddressModeService, "bogus", false},
	}

	for _, tt := range tests {
		e := PassengerStopEntry{PickupMode: tt.pickup, DestinationMode: tt.dest}
		if got := e.UsesDefaults(); got != tt.want {
			t.Errorf("UsesDefaults(%q, %q) = %v, want %v", tt.pickup, tt.dest, got, tt.want)
		}
	}
}
