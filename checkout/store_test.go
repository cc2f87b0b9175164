package checkout

import (
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInitSchemaIdempotent(t *testing.T) {
	s := tempStore(t)

	userID, err := s.AddUser("Alice", "alice@test.example")
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	itemID, err := s.AddItem("Projector", "AV")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := s.InitSchema(); err != nil {
			t.Fatalf("re-init %d: %v", i, err)
		}
	}

	if _, err := s.GetUser(userID); err != nil {
		t.Fatalf("user lost after re-init: %v", err)
	}
	if _, err := s.GetItem(itemID); err != nil {
		t.Fatalf("item lost after re-init: %v", err)
	}
}

func TestSeedRerun(t *testing.T) {
	s := tempStore(t)

	if err := s.Seed(); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := s.Seed(); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	users, err := s.ListUsers()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("want 3 users after re-seed, got %d", len(users))
	}

	// Items carry no unique key, so re-seeding appends a second batch.
	items, err := s.ListItems(false)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 8 {
		t.Fatalf("want 8 items after re-seed, got %d", len(items))
	}
}

func TestSeedOnlySwallowsUniqueViolations(t *testing.T) {
	s := tempStore(t)

	if _, err := s.db.Exec(`DROP TABLE items`); err != nil {
		t.Fatalf("drop items: %v", err)
	}
	if err := s.Seed(); err == nil {
		t.Fatalf("expected seed to surface the missing-table error")
	}
}

func TestForeignKeyRestrictsDeletes(t *testing.T) {
	s := tempStore(t)

	userID, _ := s.AddUser("Alice", "alice@test.example")
	itemID, _ := s.AddItem("Laptop", "Computers")

	loanID, err := s.CheckoutItem(userID, itemID, 7)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if err := s.ReturnLoan(loanID); err != nil {
		t.Fatalf("return: %v", err)
	}

	// No active loan, so the business checks pass, but the returned loan
	// still references both rows and the RESTRICT keys reject the deletes.
	err = s.DeleteUser(userID)
	if err == nil || !IsConstraint(err) {
		t.Fatalf("want constraint violation deleting referenced user, got %v", err)
	}
	err = s.DeleteItem(itemID)
	if err == nil || !IsConstraint(err) {
		t.Fatalf("want constraint violation deleting referenced item, got %v", err)
	}

	// Once the loan row is gone both deletes go through.
	if err := s.DeleteLoan(loanID); err != nil {
		t.Fatalf("delete loan: %v", err)
	}
	if err := s.DeleteUser(userID); err != nil {
		t.Fatalf("delete user after loan removed: %v", err)
	}
	if err := s.DeleteItem(itemID); err != nil {
		t.Fatalf("delete item after loan removed: %v", err)
	}
}
