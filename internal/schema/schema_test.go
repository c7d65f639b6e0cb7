package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/fimbra/internal/apperr"
	"github.com/starford/fimbra/internal/models"
)

func TestValidate_Current(t *testing.T) {
	doc := &models.BoardDocument{SchemaVersion: CurrentVersion}
	if err := Validate(doc); err != nil {
		t.Fatalf("current version should pass: %v", err)
	}
}

func TestValidate_ZeroVersion(t *testing.T) {
	doc := &models.BoardDocument{SchemaVersion: 0}
	err := Validate(doc)
	if !errors.Is(err, apperr.ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
	if !strings.Contains(err.Error(), "missing or invalid") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidate_NewerVersion(t *testing.T) {
	doc := &models.BoardDocument{SchemaVersion: CurrentVersion + 1}
	err := Validate(doc)
	if !errors.Is(err, apperr.ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
	if !strings.Contains(err.Error(), "update the application") {
		t.Errorf("message should tell the user to update: %v", err)
	}
}
