package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okanele/peoplebook/internal/models"
	"github.com/okanele/peoplebook/internal/storage"
)

const personColumns = "id, name, age, place, photo_url, created_by, updated_by, updated_at"

// ListPeople returns entries in insertion order, optionally filtered by age.
func (s *Store) ListPeople(ctx context.Context, filter storage.PersonFilter) ([]models.Person, error) {
	query := "SELECT " + personColumns + " FROM people"
	args := []any{}
	if filter.Age != nil {
		query += " WHERE age = ?"
		args = append(args, *filter.Age)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	people := []models.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	return people, nil
}

// GetPerson returns the entry with the given ID.
func (s *Store) GetPerson(ctx context.Context, id int64) (*models.Person, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM people WHERE id = ?", id)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return &p, nil
}

// CreatePerson persists a new entry and populates ID and UpdatedAt.
func (s *Store) CreatePerson(ctx context.Context, person *models.Person) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO people (name, age, place, photo_url, created_by, updated_by) VALUES (?, ?, ?, ?, ?, ?)",
		person.Name, person.Age, person.Place, person.PhotoURL, person.CreatedBy, person.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	if person.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read inserted person id: %w", err)
	}
	// updated_at is assigned by the database default.
	if err := s.db.QueryRowContext(ctx,
		"SELECT updated_at FROM people WHERE id = ?", person.ID,
	).Scan(&person.UpdatedAt); err != nil {
		return fmt.Errorf("failed to read inserted person timestamp: %w", err)
	}
	return nil
}

// UpdatePerson overwrites the mutable fields and refreshes updated_at.
func (s *Store) UpdatePerson(ctx context.Context, person *models.Person) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE people SET name = ?, age = ?, place = ?, photo_url = ?, updated_by = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		person.Name, person.Age, person.Place, person.PhotoURL, person.UpdatedBy, person.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeletePerson removes the entry unconditionally.
func (s *Store) DeletePerson(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM people WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}

// scanPerson reads one person row from either *sql.Row or *sql.Rows.
func scanPerson(row interface{ Scan(...any) error }) (models.Person, error) {
	var p models.Person
	var photo, updatedBy sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Place, &photo, &p.CreatedBy, &updatedBy, &p.UpdatedAt); err != nil {
		return p, err
	}
	if photo.Valid {
		p.PhotoURL = &photo.String
	}
	p.UpdatedBy = updatedBy.String
	return p, nil
}
