package domain

import (
	"errors"
	"testing"

	uuid "github.com/google/uuid"
)

func TestParseUserIDAcceptsV4(t *testing.T) {
	raw := uuid.NewString()

	id, err := ParseUserID("  " + raw + "  ")
	if err != nil {
		t.Fatalf("ParseUserID returned error: %v", err)
	}
	if id.String() != raw {
		t.Errorf("expected %q, got %q", raw, id.String())
	}
}

func TestParseUserIDRejectsInvalid(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not a uuid", "not-a-uuid"},
		{"v1 uuid", "c232ab00-9414-11ec-b3c8-9f68deced846"},
		{"nil uuid", "00000000-0000-0000-0000-000000000000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseUserID(tc.input)
			if err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if validationErr.Field != "userId" {
				t.Errorf("expected field 'userId', got %q", validationErr.Field)
			}
		})
	}
}

func TestGeneratedIdentifiersAreDistinct(t *testing.T) {
	if NewUserID().Equals(NewUserID()) {
		t.Error("expected distinct user ids")
	}
	if NewRoleID().Equals(NewRoleID()) {
		t.Error("expected distinct role ids")
	}
	if NewPermissionID().Equals(NewPermissionID()) {
		t.Error("expected distinct permission ids")
	}
}

func TestParseRoleAndPermissionIDFieldNames(t *testing.T) {
	var validationErr *ValidationError

	_, err := ParseRoleID("bogus")
	if !errors.As(err, &validationErr) || validationErr.Field != "roleId" {
		t.Errorf("expected roleId validation error, got %v", err)
	}

	_, err = ParsePermissionID("bogus")
	if !errors.As(err, &validationErr) || validationErr.Field != "permissionId" {
		t.Errorf("expected permissionId validation error, got %v", err)
	}
}
