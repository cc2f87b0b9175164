package checkout

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// DefaultLoanDays is the grace period used when a caller does not ask for a
// specific one.
const DefaultLoanDays = 7

const dateLayout = "2006-01-02"

// Today returns the current calendar date in the stored ISO form.
func Today() string { return time.Now().Format(dateLayout) }

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// ListUsers returns every registered user, ordered by name.
func (s *Store) ListUsers() ([]User, error) {
	query, args, err := sq.Select("user_id", "name", "email").
		From("users").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	var users []User
	if err := s.db.Select(&users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListItems returns all items, or only the available ones, ordered by
// category then name.
func (s *Store) ListItems(onlyAvailable bool) ([]Item, error) {
	q := sq.Select("item_id", "name", "category", "status").
		From("items").
		OrderBy("category", "name")
	if onlyAvailable {
		q = q.Where(sq.Eq{"status": StatusAvailable})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var items []Item
	if err := s.db.Select(&items, query, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// SearchItems returns items whose name or category contains term,
// case-insensitively, ordered by category then name. An empty term matches
// everything.
func (s *Store) SearchItems(term string) ([]Item, error) {
	pattern := "%" + term + "%"
	query, args, err := sq.Select("item_id", "name", "category", "status").
		From("items").
		Where(sq.Or{sq.Like{"name": pattern}, sq.Like{"category": pattern}}).
		OrderBy("category", "name").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []Item
	if err := s.db.Select(&items, query, args...); err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}

// ListActiveLoans returns every open loan joined to the borrower and item
// names, soonest due first.
func (s *Store) ListActiveLoans() ([]ActiveLoan, error) {
	return s.selectActiveLoans(sq.Expr("l.returned_date IS NULL"))
}

// ListOverdueLoans returns the open loans whose due date has passed as of the
// given calendar date, soonest due first.
func (s *Store) ListOverdueLoans(asOf string) ([]ActiveLoan, error) {
	return s.selectActiveLoans(sq.And{
		sq.Expr("l.returned_date IS NULL"),
		sq.Lt{"l.due_date": asOf},
	})
}

func (s *Store) selectActiveLoans(cond sq.Sqlizer) ([]ActiveLoan, error) {
	query, args, err := sq.Select(
		"l.loan_id",
		"u.name AS user_name",
		"i.name AS item_name",
		"l.checkout_date",
		"l.due_date",
	).
		From("loans l").
		Join("users u ON u.user_id = l.user_id").
		Join("items i ON i.item_id = l.item_id").
		Where(cond).
		OrderBy("l.due_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	var loans []ActiveLoan
	if err := s.db.Select(&loans, query, args...); err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// LoanHistory returns every loan ever recorded for an item, most recent
// checkout first.
func (s *Store) LoanHistory(itemID int64) ([]Loan, error) {
	query, args, err := sq.Select("loan_id", "user_id", "item_id", "checkout_date", "due_date", "returned_date").
		From("loans").
		Where(sq.Eq{"item_id": itemID}).
		OrderBy("checkout_date DESC", "loan_id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	var loans []Loan
	if err := s.db.Select(&loans, query, args...); err != nil {
		return nil, fmt.Errorf("loan history: %w", err)
	}
	return loans, nil
}

// GetUser fetches a single user.
func (s *Store) GetUser(userID int64) (*User, error) {
	var u User
	err := s.db.Get(&u, `SELECT user_id, name, email FROM users WHERE user_id=?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetItem fetches a single item.
func (s *Store) GetItem(itemID int64) (*Item, error) {
	var it Item
	err := s.db.Get(&it, `SELECT item_id, name, category, status FROM items WHERE item_id=?`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// AddUser registers a new user and returns its id. A duplicate email
// surfaces as a constraint violation from the store (see IsConstraint).
func (s *Store) AddUser(name, email string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO users(name,email) VALUES (?,?)`, name, email)
	if err != nil {
		return 0, fmt.Errorf("add user: %w", err)
	}
	return res.LastInsertId()
}

// AddItem adds a new item, always starting out available.
func (s *Store) AddItem(name, category string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO items(name,category,status) VALUES (?,?,?)`, name, category, StatusAvailable)
	if err != nil {
		return 0, fmt.Errorf("add item: %w", err)
	}
	return res.LastInsertId()
}

// CheckoutItem lends an item to a user for the given number of days and
// returns the new loan's id. The loan insert and the item's flip to
// checked_out commit together or not at all.
func (s *Store) CheckoutItem(userID, itemID int64, days int) (int64, error) {
	if days < 0 {
		return 0, ErrInvalidDays
	}

	var loanID int64
	err := s.withTx(func(tx *sqlx.Tx) error {
		var status ItemStatus
		err := tx.Get(&status, `SELECT status FROM items WHERE item_id=?`, itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}
		if status != StatusAvailable {
			return ErrItemUnavailable
		}

		var exists bool
		if err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE user_id=?)`, userID); err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		now := time.Now()
		res, err := tx.Exec(`
            INSERT INTO loans(user_id,item_id,checkout_date,due_date,returned_date)
            VALUES (?,?,?,?,NULL)`,
			userID, itemID, now.Format(dateLayout), now.AddDate(0, 0, days).Format(dateLayout))
		if err != nil {
			return err
		}
		if loanID, err = res.LastInsertId(); err != nil {
			return err
		}

		_, err = tx.Exec(`UPDATE items SET status=? WHERE item_id=?`, StatusCheckedOut, itemID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return loanID, nil
}

// ReturnLoan closes an open loan: stamps today's date on it and makes the
// item available again, atomically. Returning a loan twice is rejected.
func (s *Store) ReturnLoan(loanID int64) error {
	return s.withTx(func(tx *sqlx.Tx) error {
		var loan Loan
		err := tx.Get(&loan, `SELECT loan_id, user_id, item_id, checkout_date, due_date, returned_date FROM loans WHERE loan_id=?`, loanID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLoanNotFound
		}
		if err != nil {
			return err
		}
		if !loan.Active() {
			return ErrLoanReturned
		}

		if _, err := tx.Exec(`UPDATE loans SET returned_date=? WHERE loan_id=?`, Today(), loanID); err != nil {
			return err
		}
		_, err = tx.Exec(`UPDATE items SET status=? WHERE item_id=?`, StatusAvailable, loan.ItemID)
		return err
	})
}

// UpdateItemName renames an item.
func (s *Store) UpdateItemName(itemID int64, newName string) error {
	res, err := s.db.Exec(`UPDATE items SET name=? WHERE item_id=?`, newName, itemID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteLoan hard-deletes a loan row by id, active or not. Deleting an
// active loan does NOT touch the item, which stays checked_out with no open
// loan against it until an operator intervenes.
func (s *Store) DeleteLoan(loanID int64) error {
	res, err := s.db.Exec(`DELETE FROM loans WHERE loan_id=?`, loanID)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLoanNotFound
	}
	return nil
}

// DeleteItem removes an item that is not currently checked out. Items with
// recorded loan history are additionally protected by the store's RESTRICT
// foreign key, which surfaces as a constraint violation.
func (s *Store) DeleteItem(itemID int64) error {
	var status ItemStatus
	err := s.db.Get(&status, `SELECT status FROM items WHERE item_id=?`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrItemNotFound
	}
	if err != nil {
		return err
	}
	if status != StatusAvailable {
		return ErrItemCheckedOut
	}

	res, err := s.db.Exec(`DELETE FROM items WHERE item_id=?`, itemID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteUser removes a user with no active loan. Users with recorded loan
// history are protected by the RESTRICT foreign key, as with items.
func (s *Store) DeleteUser(userID int64) error {
	var active bool
	if err := s.db.Get(&active, `SELECT EXISTS(SELECT 1 FROM loans WHERE user_id=? AND returned_date IS NULL)`, userID); err != nil {
		return err
	}
	if active {
		return ErrUserHasLoan
	}

	res, err := s.db.Exec(`DELETE FROM users WHERE user_id=?`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
