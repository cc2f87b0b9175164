package checkout

// ItemStatus is the availability state stored on an item. It is derived from
// the item's loans but persisted so listings never need a join: an item is
// checked_out exactly while one active loan references it.
type ItemStatus string

const (
	StatusAvailable  ItemStatus = "available"
	StatusCheckedOut ItemStatus = "checked_out"
)

// User represents a registered borrower. Fields map 1-to-1 with columns.
type User struct {
	UserID int64  `db:"user_id"`
	Name   string `db:"name"`
	Email  string `db:"email"`
}

// Item is a loanable piece of equipment.
type Item struct {
	ItemID   int64      `db:"item_id"`
	Name     string     `db:"name"`
	Category string     `db:"category"`
	Status   ItemStatus `db:"status"`
}

// Loan links a user to an item for a date range. Dates are calendar dates in
// ISO form (YYYY-MM-DD). A nil ReturnedDate means the loan is still open.
type Loan struct {
	LoanID       int64   `db:"loan_id"`
	UserID       int64   `db:"user_id"`
	ItemID       int64   `db:"item_id"`
	CheckoutDate string  `db:"checkout_date"`
	DueDate      string  `db:"due_date"`
	ReturnedDate *string `db:"returned_date"`
}

// Active reports whether the loan has not been returned yet.
func (l Loan) Active() bool { return l.ReturnedDate == nil }

// ActiveLoan is the joined row shape produced by the active-loan listing:
// the loan plus the names it would otherwise take two lookups to display.
type ActiveLoan struct {
	LoanID       int64  `db:"loan_id"`
	UserName     string `db:"user_name"`
	ItemName     string `db:"item_name"`
	CheckoutDate string `db:"checkout_date"`
	DueDate      string `db:"due_date"`
}
