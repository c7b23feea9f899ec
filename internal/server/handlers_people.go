package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/okanele/peoplebook/internal/models"
	"github.com/okanele/peoplebook/internal/storage"
)

// listPeople returns all entries in insertion order, optionally filtered by
// exact age.
func (h *handler) listPeople(c echo.Context) error {
	filter := storage.PersonFilter{}
	if raw := c.QueryParam("age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "age must be an integer"})
		}
		filter.Age = &age
	}

	people, err := h.store.ListPeople(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, people)
}

// createPerson inserts an entry from a multipart form, storing the optional
// photo on disk, and appends an ADD audit entry.
func (h *handler) createPerson(c echo.Context) error {
	name := c.FormValue("name")
	age, err := strconv.Atoi(c.FormValue("age"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "age must be an integer"})
	}

	photoURL, err := h.savePhoto(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	username := principal(c).Username
	person := &models.Person{
		Name:      name,
		Age:       age,
		Place:     c.FormValue("place"),
		PhotoURL:  photoURL,
		CreatedBy: username,
		UpdatedBy: username,
	}
	if err := h.store.CreatePerson(ctx, person); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	h.audit.Record(ctx, models.ActionAdd, fmt.Sprintf("Added person: %s", name), username)
	return c.JSON(http.StatusOK, person)
}

// updatePerson edits an entry. Without a new photo the prior photo reference
// is preserved. A missing entry yields 404 and no audit entry.
func (h *handler) updatePerson(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	existing, err := h.store.GetPerson(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Record not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	age, err := strconv.Atoi(c.FormValue("age"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "age must be an integer"})
	}

	photoURL, err := h.savePhoto(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if photoURL == nil {
		photoURL = existing.PhotoURL
	}

	username := principal(c).Username
	person := &models.Person{
		ID:        id,
		Name:      c.FormValue("name"),
		Age:       age,
		Place:     c.FormValue("place"),
		PhotoURL:  photoURL,
		UpdatedBy: username,
	}
	if err := h.store.UpdatePerson(ctx, person); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	h.audit.Record(ctx, models.ActionEdit, fmt.Sprintf("Edited person ID %d: %s", id, person.Name), username)
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated successfully"})
}

// deletePerson removes an entry unconditionally, logging its name (or
// "Unknown" when the record was already gone).
func (h *handler) deletePerson(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	name := "Unknown"
	if p, err := h.store.GetPerson(ctx, id); err == nil {
		name = p.Name
	}

	if err := h.store.DeletePerson(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	username := principal(c).Username
	h.audit.Record(ctx, models.ActionDelete, fmt.Sprintf("Deleted person ID %d: %s", id, name), username)
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted successfully"})
}

// listLogs returns the audit log, newest first.
func (h *handler) listLogs(c echo.Context) error {
	entries, err := h.store.ListLogs(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, entries)
}
