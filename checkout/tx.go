package checkout

import "github.com/jmoiron/sqlx"

// withTx runs fn inside a transaction. Commit happens only when fn returns
// nil; any error (including a business rejection discovered mid-pair) rolls
// everything back, so the loan-insert/status-update pairs are all-or-nothing.
func (s *Store) withTx(fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
