package validator

import (
	"errors"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
		"123e4567-e89b-12d3-a456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"not-a-uuid",
		"",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2024-02-29"); !ok {
		t.Errorf("IsValidDate(2024-02-29) = false, want true")
	}
	if _, ok := IsValidDate("2023-02-29"); ok {
		t.Errorf("IsValidDate(2023-02-29) = true, want false")
	}
	if _, ok := IsValidDate("29/02/2024"); ok {
		t.Errorf("IsValidDate(29/02/2024) = true, want false")
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00+07:00", "2024-01-15T10:30:00.123456Z"}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	if _, ok := IsValidDateTime("2024-01-15 10:30"); ok {
		t.Errorf("IsValidDateTime(space separated) = true, want false")
	}
}

func TestIsValidMonth(t *testing.T) {
	for _, m := range []int{1, 6, 12} {
		if !IsValidMonth(m) {
			t.Errorf("IsValidMonth(%d) = false, want true", m)
		}
	}
	for _, m := range []int{0, 13, -1} {
		if IsValidMonth(m) {
			t.Errorf("IsValidMonth(%d) = true, want false", m)
		}
	}
}

type sampleRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required,uuid"`
	Method     string  `json:"method" validate:"required,oneof=facial manual"`
	Latitude   float64 `json:"latitude" validate:"latitude"`
	Hidden     string  `json:"-"`
}

func TestStruct(t *testing.T) {
	errs := Struct(sampleRequest{
		EmployeeID: "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		Method:     "facial",
		Latitude:   10,
	})
	if errs != nil {
		t.Fatalf("Struct(valid) = %v, want nil", errs)
	}

	errs = Struct(sampleRequest{Method: "retina", Latitude: 100})
	m := errs.ToMap()
	if m["employee_id"] != "employee_id is required" {
		t.Errorf("employee_id message = %q", m["employee_id"])
	}
	if m["method"] != "method must be one of: facial manual" {
		t.Errorf("method message = %q", m["method"])
	}
	if m["latitude"] != "latitude must be between -90 and 90" {
		t.Errorf("latitude message = %q", m["latitude"])
	}
}

func TestValidationErrors_Err(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Errorf("empty ValidationErrors.Err() should be nil")
	}

	errs.Add("reason", "reason is required")
	err := errs.Err()

	var target ValidationErrors
	if !errors.As(err, &target) {
		t.Fatalf("errors.As should find ValidationErrors")
	}
	if target.Error() != "reason: reason is required" {
		t.Errorf("Error() = %q", target.Error())
	}
}
