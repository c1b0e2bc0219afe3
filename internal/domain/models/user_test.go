package models

import "testing"

func TestRole_Validate(t *testing.T) {
	for _, role := range []Role{RoleViewer, RoleEditor, RoleModerator, RoleAdmin} {
		if err := role.Validate(); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", role, err)
		}
	}
	if err := Role("superuser").Validate(); err == nil {
		t.Error("unknown role must fail validation")
	}
}

func TestDefaultCapabilities(t *testing.T) {
	admin := DefaultCapabilities(RoleAdmin)
	if !admin.ManageUsers || !admin.DeleteArticles {
		t.Errorf("admin capabilities too narrow: %+v", admin)
	}

	moderator := DefaultCapabilities(RoleModerator)
	if moderator.ManageUsers {
		t.Error("moderator must not manage users")
	}
	if !moderator.DeleteArticles {
		t.Error("moderator should delete articles")
	}

	editor := DefaultCapabilities(RoleEditor)
	if editor.DeleteArticles || editor.ManageUsers {
		t.Errorf("editor capabilities too broad: %+v", editor)
	}
	if !editor.CreateArticles || !editor.EditArticles {
		t.Errorf("editor capabilities too narrow: %+v", editor)
	}

	viewer := DefaultCapabilities(RoleViewer)
	if viewer.CreateArticles || viewer.EditArticles || viewer.DeleteArticles || viewer.ManageUsers {
		t.Errorf("viewer must only view: %+v", viewer)
	}
}

func TestLabelKind_Validate(t *testing.T) {
	if err := LabelPlatform.Validate(); err != nil {
		t.Errorf("platform kind should validate: %v", err)
	}
	if err := LabelProduct.Validate(); err != nil {
		t.Errorf("product kind should validate: %v", err)
	}
	if err := LabelKind("category").Validate(); err == nil {
		t.Error("unknown kind must fail validation")
	}
}

func TestFieldType_Validate(t *testing.T) {
	if err := FieldTypeSelect.Validate(); err != nil {
		t.Errorf("select type should validate: %v", err)
	}
	if err := FieldType("slider").Validate(); err == nil {
		t.Error("unknown field type must fail validation")
	}

	if !FieldTypeSelect.HasOptions() || !FieldTypeMultiselect.HasOptions() {
		t.Error("select types must carry options")
	}
	if FieldTypeText.HasOptions() {
		t.Error("text fields must not carry options")
	}
}
