package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Jegadheeswaran/Rentify-backend/internal/models"
)

const propertyColumns = "id, street, area, city, state, no_of_bed_rooms, no_of_bath_rooms, nearby_hospital, near_by_college, user_id, created_at"

// PropertyInput is the payload accepted by POST /property. There is no owner
// field: the owner always comes from the authenticated caller.
type PropertyInput struct {
	Street         string `json:"street" validate:"required"`
	Area           string `json:"area" validate:"required"`
	City           string `json:"city" validate:"required"`
	State          string `json:"state" validate:"required"`
	NoOfBedRooms   *int   `json:"noOfBedRooms" validate:"required,min=0"`
	NoOfBathRooms  *int   `json:"noOfBathRooms" validate:"required,min=0"`
	NearbyHospital *bool  `json:"nearbyHospital" validate:"required"`
	NearByCollege  *bool  `json:"nearByCollege" validate:"required"`
}

// PropertyPatch is the payload accepted by PUT /properties/{id}. Nil fields are left unchanged.
type PropertyPatch struct {
	Street         *string `json:"street"`
	Area           *string `json:"area"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	NoOfBedRooms   *int    `json:"noOfBedRooms" validate:"omitempty,min=0"`
	NoOfBathRooms  *int    `json:"noOfBathRooms" validate:"omitempty,min=0"`
	NearbyHospital *bool   `json:"nearbyHospital"`
	NearByCollege  *bool   `json:"nearByCollege"`
}

// PropertyServiceProvider defines the interface for property services.
type PropertyServiceProvider interface {
	CreateProperty(ctx context.Context, ownerID int64, input PropertyInput) (models.Property, error)
	UpdateProperty(ctx context.Context, ownerID, id int64, patch PropertyPatch) (models.Property, error)
	DeleteProperty(ctx context.Context, ownerID, id int64) error
	GetPropertiesByOwner(ctx context.Context, ownerID int64) ([]models.Property, error)
	GetPropertyOwner(ctx context.Context, id int64) (models.User, error)
	SearchProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error)
}

// PropertyService provides business logic for property listings.
type PropertyService struct {
	db     *sqlx.DB
	events EventServiceProvider
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(db *sqlx.DB, events EventServiceProvider) *PropertyService {
	return &PropertyService{db: db, events: events}
}

// CreateProperty stores a new listing owned by ownerID.
func (s *PropertyService) CreateProperty(ctx context.Context, ownerID int64, input PropertyInput) (models.Property, error) {
	if err := validateInput(input); err != nil {
		return models.Property{}, err
	}

	property := models.Property{
		Street:         input.Street,
		Area:           input.Area,
		City:           input.City,
		State:          input.State,
		NoOfBedRooms:   *input.NoOfBedRooms,
		NoOfBathRooms:  *input.NoOfBathRooms,
		NearbyHospital: *input.NearbyHospital,
		NearByCollege:  *input.NearByCollege,
		UserID:         ownerID,
	}

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO properties (street, area, city, state, no_of_bed_rooms, no_of_bath_rooms, nearby_hospital, near_by_college, user_id)
		VALUES (:street, :area, :city, :state, :no_of_bed_rooms, :no_of_bath_rooms, :nearby_hospital, :near_by_college, :user_id)`, property)
	if err != nil {
		return models.Property{}, fmt.Errorf("insert property: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Property{}, fmt.Errorf("insert property: %w", err)
	}

	var created models.Property
	if err := s.db.GetContext(ctx, &created, "SELECT "+propertyColumns+" FROM properties WHERE id = ?", id); err != nil {
		return models.Property{}, fmt.Errorf("reload property %d: %w", id, err)
	}

	recordEvent(ctx, s.events, EventPropertyCreate, fmt.Sprintf("Property listed at %s, %s.", created.Street, created.City), ownerID, &created.ID)
	return created, nil
}

// UpdateProperty applies patch to a property owned by ownerID. A property that
// does not exist and one owned by someone else both yield ErrNotFound.
func (s *PropertyService) UpdateProperty(ctx context.Context, ownerID, id int64, patch PropertyPatch) (models.Property, error) {
	if err := validateInput(patch); err != nil {
		return models.Property{}, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Property{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	if _, err := findOwned(ctx, tx, ownerID, id); err != nil {
		return models.Property{}, err
	}

	sets, args := patch.assignments()
	if len(sets) > 0 {
		args = append(args, id)
		query := "UPDATE properties SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return models.Property{}, fmt.Errorf("update property %d: %w", id, err)
		}
	}

	var updated models.Property
	if err := tx.GetContext(ctx, &updated, "SELECT "+propertyColumns+" FROM properties WHERE id = ?", id); err != nil {
		return models.Property{}, fmt.Errorf("reload property %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Property{}, fmt.Errorf("commit update: %w", err)
	}

	recordEvent(ctx, s.events, EventPropertyUpdate, fmt.Sprintf("Property %d updated.", id), ownerID, &id)
	return updated, nil
}

// DeleteProperty removes a property owned by ownerID, with the same
// not-found semantics as UpdateProperty.
func (s *PropertyService) DeleteProperty(ctx context.Context, ownerID, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := findOwned(ctx, tx, ownerID, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete property %d: %w", id, err)
	}
	// A concurrent delete by the same owner can win between the check and here.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("property %d: %w", id, ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	recordEvent(ctx, s.events, EventPropertyDelete, fmt.Sprintf("Property %d deleted.", id), ownerID, &id)
	return nil
}

// GetPropertiesByOwner lists every property owned by ownerID.
func (s *PropertyService) GetPropertiesByOwner(ctx context.Context, ownerID int64) ([]models.Property, error) {
	properties := []models.Property{}
	err := s.db.SelectContext(ctx, &properties, "SELECT "+propertyColumns+" FROM properties WHERE user_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, fmt.Errorf("list properties for user %d: %w", ownerID, err)
	}
	return properties, nil
}

// GetPropertyOwner returns the user who owns property id.
func (s *PropertyService) GetPropertyOwner(ctx context.Context, id int64) (models.User, error) {
	var owner models.User
	err := s.db.GetContext(ctx, &owner, `
		SELECT u.id, u.email, u.number, u.password_hash, u.first_name, u.last_name, u.created_at
		FROM properties p JOIN users u ON u.id = p.user_id
		WHERE p.id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("property %d: %w", id, ErrNotFound)
		}
		return models.User{}, fmt.Errorf("get owner of property %d: %w", id, err)
	}
	return owner, nil
}

// SearchProperties returns every property matching filter. Unset filter fields
// do not constrain the result.
func (s *PropertyService) SearchProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	query := "SELECT " + propertyColumns + " FROM properties WHERE 1 = 1"
	args := []any{}

	if filter.City != nil {
		query += " AND city = ?"
		args = append(args, *filter.City)
	}
	if filter.State != nil {
		query += " AND state = ?"
		args = append(args, *filter.State)
	}
	if filter.MinBedrooms != nil {
		query += " AND no_of_bed_rooms >= ?"
		args = append(args, *filter.MinBedrooms)
	}
	if filter.MaxBedrooms != nil {
		query += " AND no_of_bed_rooms <= ?"
		args = append(args, *filter.MaxBedrooms)
	}
	if filter.MinBathrooms != nil {
		query += " AND no_of_bath_rooms >= ?"
		args = append(args, *filter.MinBathrooms)
	}
	if filter.MaxBathrooms != nil {
		query += " AND no_of_bath_rooms <= ?"
		args = append(args, *filter.MaxBathrooms)
	}
	query += " ORDER BY id"

	properties := []models.Property{}
	if err := s.db.SelectContext(ctx, &properties, query, args...); err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	return properties, nil
}

// findOwned loads property id only if ownerID owns it.
func findOwned(ctx context.Context, tx *sqlx.Tx, ownerID, id int64) (models.Property, error) {
	var property models.Property
	err := tx.GetContext(ctx, &property, "SELECT "+propertyColumns+" FROM properties WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Property{}, fmt.Errorf("property %d: %w", id, ErrNotFound)
		}
		return models.Property{}, fmt.Errorf("find property %d: %w", id, err)
	}
	return property, nil
}

func (p PropertyPatch) assignments() ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if p.Street != nil {
		add("street", *p.Street)
	}
	if p.Area != nil {
		add("area", *p.Area)
	}
	if p.City != nil {
		add("city", *p.City)
	}
	if p.State != nil {
		add("state", *p.State)
	}
	if p.NoOfBedRooms != nil {
		add("no_of_bed_rooms", *p.NoOfBedRooms)
	}
	if p.NoOfBathRooms != nil {
		add("no_of_bath_rooms", *p.NoOfBathRooms)
	}
	if p.NearbyHospital != nil {
		add("nearby_hospital", *p.NearbyHospital)
	}
	if p.NearByCollege != nil {
		add("near_by_college", *p.NearByCollege)
	}
	return sets, args
}
