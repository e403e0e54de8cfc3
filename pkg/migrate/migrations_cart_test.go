package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spoxpro/spoxpro-backend/pkg/migrate"
)

func TestCartMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_items_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no cart migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS cart_items",
		"CONSTRAINT chk_cart_items_single_owner",
		"CONSTRAINT chk_cart_items_quantity CHECK (quantity > 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_user_line",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_guest_line",
		"DROP TABLE IF EXISTS cart_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations directory invalid: %v", err)
	}
}
