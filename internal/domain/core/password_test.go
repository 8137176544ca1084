package core

import (
	"errors"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     error
	}{
		{"valid", "Sunny2024", nil},
		{"too short", "Ab1", ErrPasswordTooShort},
		{"no uppercase", "sunny2024", ErrPasswordWeak},
		{"no lowercase", "SUNNY2024", ErrPasswordWeak},
		{"no digit", "SunnyDaysAhead", ErrPasswordWeak},
		{"exactly eight", "Abcdefg1", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidatePassword(tc.password); !errors.Is(err, tc.want) {
				t.Fatalf("ValidatePassword(%q) = %v, want %v", tc.password, err, tc.want)
			}
		})
	}
}

func TestValidateEmployeeID(t *testing.T) {
	for _, id := range []string{"1001", "0", "99999999"} {
		if err := ValidateEmployeeID(id); err != nil {
			t.Fatalf("ValidateEmployeeID(%q) = %v, want nil", id, err)
		}
	}
	for _, id := range []string{"", "10a1", "１００１", "-12", "12 3"} {
		if err := ValidateEmployeeID(id); !errors.Is(err, ErrEmployeeIDFormat) {
			t.Fatalf("ValidateEmployeeID(%q) = %v, want ErrEmployeeIDFormat", id, err)
		}
	}
}
