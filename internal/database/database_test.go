package database

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 migrations, got %d", len(entries))
	}

	for _, e := range entries {
		body, err := fs.ReadFile(migrations, "migrations/"+e.Name())
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		if !strings.Contains(string(body), "-- +goose Up") || !strings.Contains(string(body), "-- +goose Down") {
			t.Fatalf("%s is missing goose annotations", e.Name())
		}
	}
}

func TestItemsCascadeWithList(t *testing.T) {
	body, err := fs.ReadFile(migrations, "migrations/00003_create_todo_items.sql")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "REFERENCES todo_lists (id) ON DELETE CASCADE") {
		t.Fatal("todo_items must cascade when its list is deleted")
	}
}
