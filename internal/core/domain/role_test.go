package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewRoleNormalizesName(t *testing.T) {
	role, err := NewRole("  support_agent ", "Handles tickets", nil)
	if err != nil {
		t.Fatalf("NewRole returned error: %v", err)
	}

	if role.Name() != "SUPPORT_AGENT" {
		t.Errorf("expected uppercased name, got %q", role.Name())
	}
	if role.IsSystem() {
		t.Error("expected newly created roles to be non-system")
	}
	if len(role.PermissionIDs()) != 0 {
		t.Error("expected empty permission set")
	}
}

func TestNewRoleRejectsInvalidNames(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"spaces inside", "SUPPORT AGENT"},
		{"hyphen", "SUPPORT-AGENT"},
		{"too long", strings.Repeat("A", 51)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRole(tc.input, "", nil)
			if err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestNewRoleDeduplicatesPermissionIDs(t *testing.T) {
	id := NewPermissionID()
	role, err := NewRole("EDITOR", "", []PermissionID{id, id})
	if err != nil {
		t.Fatalf("NewRole returned error: %v", err)
	}

	if got := len(role.PermissionIDs()); got != 1 {
		t.Errorf("expected duplicates collapsed to 1 entry, got %d", got)
	}
}

func TestRoleAssignPermission(t *testing.T) {
	role, err := NewRole("EDITOR", "", nil)
	if err != nil {
		t.Fatalf("NewRole returned error: %v", err)
	}

	id := NewPermissionID()
	if err := role.AssignPermission(id); err != nil {
		t.Fatalf("AssignPermission returned error: %v", err)
	}
	if !role.HasPermission(id) {
		t.Error("expected permission to be assigned")
	}

	if err := role.AssignPermission(id); err == nil {
		t.Error("expected duplicate assignment to be rejected")
	}
}

func TestRoleRemovePermission(t *testing.T) {
	id := NewPermissionID()
	role, err := NewRole("EDITOR", "", []PermissionID{id})
	if err != nil {
		t.Fatalf("NewRole returned error: %v", err)
	}

	if err := role.RemovePermission(id); err != nil {
		t.Fatalf("RemovePermission returned error: %v", err)
	}
	if role.HasPermission(id) {
		t.Error("expected permission to be removed")
	}

	if err := role.RemovePermission(id); err == nil {
		t.Error("expected removing an absent permission to be rejected")
	}
}

func TestRoleReplacePermissions(t *testing.T) {
	role, err := NewRole("EDITOR", "", []PermissionID{NewPermissionID()})
	if err != nil {
		t.Fatalf("NewRole returned error: %v", err)
	}

	first := NewPermissionID()
	second := NewPermissionID()
	if err := role.ReplacePermissions([]PermissionID{first, second, first}); err != nil {
		t.Fatalf("ReplacePermissions returned error: %v", err)
	}

	ids := role.PermissionIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 permissions after replace, got %d", len(ids))
	}
	if !role.HasPermission(first) || !role.HasPermission(second) {
		t.Error("expected replacement set to be present")
	}
}

func TestRoleRename(t *testing.T) {
	role, err := NewRole("EDITOR", "", nil)
	if err != nil {
		t.Fatalf("NewRole returned error: %v", err)
	}

	if err := role.Rename("chief_editor"); err != nil {
		t.Fatalf("Rename returned error: %v", err)
	}
	if role.Name() != "CHIEF_EDITOR" {
		t.Errorf("expected normalized new name, got %q", role.Name())
	}

	if err := role.Rename("bad name"); err == nil {
		t.Error("expected invalid rename to be rejected")
	}
}

func TestReconstituteRoleCopiesPermissionSlice(t *testing.T) {
	ids := []PermissionID{NewPermissionID(), NewPermissionID()}
	role := ReconstituteRole(RoleProps{
		ID:            NewRoleID(),
		Name:          "ADMIN",
		IsSystem:      true,
		PermissionIDs: ids,
	})

	ids[0] = NewPermissionID()

	if !role.HasPermission(ids[1]) {
		t.Error("expected original second id to be retained")
	}
	if role.HasPermission(ids[0]) {
		t.Error("expected mutation of the input slice to not reach the entity")
	}
	if !role.IsSystem() {
		t.Error("expected system flag to be hydrated")
	}
}
