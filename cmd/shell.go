package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Allena9/Campus-Equipment-Checkout-Database-Application/checkout"
)

const menu = `
===== Equipment Checkout =====
 1) Initialize DB
 2) Seed sample data
 3) List items
 4) List available items
 5) Search items
 6) List active loans
 7) List overdue loans
 8) Item loan history
 9) Add user
10) Add item
11) Checkout item
12) Return loan
13) Update item name
14) Delete loan
15) Delete item
16) Delete user
 0) Exit

`

// runShell drives the blocking read-evaluate loop. All parsing of raw input
// happens here; the store only ever sees typed values.
func runShell(store *checkout.Store) {
	sc := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(menu)
		fmt.Print("Choose: ")
		if !sc.Scan() {
			return
		}

		switch strings.TrimSpace(sc.Text()) {
		case "1":
			report(store.InitSchema(), "DB initialized (tables created).")
		case "2":
			report(store.Seed(), "Seeded.")
		case "3":
			handleListItems(store, false)
		case "4":
			handleListItems(store, true)
		case "5":
			handleSearchItems(sc, store)
		case "6":
			handleActiveLoans(store)
		case "7":
			handleOverdueLoans(store)
		case "8":
			handleLoanHistory(sc, store)
		case "9":
			handleAddUser(sc, store)
		case "10":
			handleAddItem(sc, store)
		case "11":
			handleCheckout(sc, store)
		case "12":
			handleReturn(sc, store)
		case "13":
			handleRename(sc, store)
		case "14":
			handleDeleteLoan(sc, store)
		case "15":
			handleDeleteItem(sc, store)
		case "16":
			handleDeleteUser(sc, store)
		case "0":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Invalid option.")
		}
	}
}

// report prints ok on success, or a non-fatal error line. Constraint
// violations from the store get a distinct prefix so they read as database
// complaints rather than business rejections.
func report(err error, ok string) {
	switch {
	case err == nil:
		fmt.Println(ok)
	case checkout.IsConstraint(err):
		fmt.Printf("Database constraint error: %v\n", err)
	default:
		fmt.Println(err)
	}
}

// ------------------ prompts ------------------

func promptLine(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func promptID(sc *bufio.Scanner, label string) (int64, bool) {
	raw, ok := promptLine(sc, label)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println("Invalid input (expected a number).")
		return 0, false
	}
	return id, true
}

// promptDays reads a loan period, defaulting when left blank.
func promptDays(sc *bufio.Scanner) (int, bool) {
	raw, ok := promptLine(sc, fmt.Sprintf("Days until due (default %d): ", checkout.DefaultLoanDays))
	if !ok {
		return 0, false
	}
	if raw == "" {
		return checkout.DefaultLoanDays, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		fmt.Println("Invalid input (expected a non-negative number).")
		return 0, false
	}
	return days, true
}

// ------------------ rendering ------------------

func printUsers(users []checkout.User) {
	fmt.Println("\nUsers:")
	for _, u := range users {
		fmt.Printf("  %3d | %-18s | %s\n", u.UserID, u.Name, u.Email)
	}
	if len(users) == 0 {
		fmt.Println("  (none)")
	}
}

func printItems(header string, items []checkout.Item) {
	fmt.Printf("\n%s:\n", header)
	for _, it := range items {
		fmt.Printf("  %3d | %-20s | %-12s | %s\n", it.ItemID, it.Name, it.Category, it.Status)
	}
	if len(items) == 0 {
		fmt.Println("  (none)")
	}
}

func printLoans(header string, loans []checkout.ActiveLoan) {
	fmt.Printf("\n%s:\n", header)
	for _, l := range loans {
		fmt.Printf("  Loan %3d | %-15s | %-20s | due %s\n", l.LoanID, l.UserName, l.ItemName, l.DueDate)
	}
	if len(loans) == 0 {
		fmt.Println("  (none)")
	}
}

// ------------------ handlers ------------------

func handleListItems(store *checkout.Store, onlyAvailable bool) {
	items, err := store.ListItems(onlyAvailable)
	if err != nil {
		report(err, "")
		return
	}
	printItems("Items", items)
}

func handleSearchItems(sc *bufio.Scanner, store *checkout.Store) {
	term, ok := promptLine(sc, "Search term: ")
	if !ok {
		return
	}
	items, err := store.SearchItems(term)
	if err != nil {
		report(err, "")
		return
	}
	printItems("Search results", items)
}

func handleActiveLoans(store *checkout.Store) {
	loans, err := store.ListActiveLoans()
	if err != nil {
		report(err, "")
		return
	}
	printLoans("Active loans", loans)
}

func handleOverdueLoans(store *checkout.Store) {
	loans, err := store.ListOverdueLoans(checkout.Today())
	if err != nil {
		report(err, "")
		return
	}
	printLoans("Overdue loans", loans)
}

func handleLoanHistory(sc *bufio.Scanner, store *checkout.Store) {
	handleListItems(store, false)
	itemID, ok := promptID(sc, "Item ID: ")
	if !ok {
		return
	}
	loans, err := store.LoanHistory(itemID)
	if err != nil {
		report(err, "")
		return
	}
	fmt.Println("\nLoan history:")
	for _, l := range loans {
		returned := "(open)"
		if l.ReturnedDate != nil {
			returned = *l.ReturnedDate
		}
		fmt.Printf("  Loan %3d | user %3d | out %s | due %s | returned %s\n",
			l.LoanID, l.UserID, l.CheckoutDate, l.DueDate, returned)
	}
	if len(loans) == 0 {
		fmt.Println("  (none)")
	}
}

func handleAddUser(sc *bufio.Scanner, store *checkout.Store) {
	name, ok := promptLine(sc, "Name: ")
	if !ok {
		return
	}
	email, ok := promptLine(sc, "Email: ")
	if !ok {
		return
	}
	_, err := store.AddUser(name, email)
	report(err, "User added.")
}

func handleAddItem(sc *bufio.Scanner, store *checkout.Store) {
	name, ok := promptLine(sc, "Item name: ")
	if !ok {
		return
	}
	category, ok := promptLine(sc, "Category: ")
	if !ok {
		return
	}
	_, err := store.AddItem(name, category)
	report(err, "Item added.")
}

func handleCheckout(sc *bufio.Scanner, store *checkout.Store) {
	if users, err := store.ListUsers(); err == nil {
		printUsers(users)
	}
	handleListItems(store, true)

	userID, ok := promptID(sc, "User ID: ")
	if !ok {
		return
	}
	itemID, ok := promptID(sc, "Item ID: ")
	if !ok {
		return
	}
	days, ok := promptDays(sc)
	if !ok {
		return
	}
	_, err := store.CheckoutItem(userID, itemID, days)
	report(err, "Checkout created.")
}

func handleReturn(sc *bufio.Scanner, store *checkout.Store) {
	handleActiveLoans(store)
	loanID, ok := promptID(sc, "Loan ID to return: ")
	if !ok {
		return
	}
	report(store.ReturnLoan(loanID), "Loan returned.")
}

func handleRename(sc *bufio.Scanner, store *checkout.Store) {
	handleListItems(store, false)
	itemID, ok := promptID(sc, "Item ID to rename: ")
	if !ok {
		return
	}
	newName, ok := promptLine(sc, "New name: ")
	if !ok {
		return
	}
	report(store.UpdateItemName(itemID, newName), "Item updated.")
}

func handleDeleteLoan(sc *bufio.Scanner, store *checkout.Store) {
	loanID, ok := promptID(sc, "Loan ID to delete: ")
	if !ok {
		return
	}
	report(store.DeleteLoan(loanID), "Loan deleted.")
}

func handleDeleteItem(sc *bufio.Scanner, store *checkout.Store) {
	handleListItems(store, false)
	itemID, ok := promptID(sc, "Item ID to delete: ")
	if !ok {
		return
	}
	report(store.DeleteItem(itemID), "Item deleted.")
}

func handleDeleteUser(sc *bufio.Scanner, store *checkout.Store) {
	if users, err := store.ListUsers(); err == nil {
		printUsers(users)
	}
	userID, ok := promptID(sc, "User ID to delete: ")
	if !ok {
		return
	}
	report(store.DeleteUser(userID), "User deleted.")
}
