package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mobile-bio-lab/lab-service/internal/repositories"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// slotInsertError translates the unique violation raised by the partial
// index on confirmed (date, time_slot) cells into the conflict sentinel.
// Two transactions can both read an empty cell (a locking SELECT matching
// zero rows locks nothing), so the index is what decides the race and the
// loser's insert failure must surface as a slot conflict, not a 500.
func slotInsertError(err error) error {
	if isUniqueViolation(err) {
		return repositories.ErrSlotTaken
	}
	return fmt.Errorf("failed to create reservation: %w", err)
}

// userInsertError translates the email/student_id unique violations into the
// duplicate sentinel so a racing registration fails the same way the
// sequential existence check does.
func userInsertError(err error) error {
	if isUniqueViolation(err) {
		return repositories.ErrDuplicateUser
	}
	return fmt.Errorf("failed to create user: %w", err)
}
