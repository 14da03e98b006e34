package services_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Jegadheeswaran/Rentify-backend/internal/database"
	"github.com/Jegadheeswaran/Rentify-backend/internal/models"
	"github.com/Jegadheeswaran/Rentify-backend/internal/services"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "rentify.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db         *sqlx.DB
	events     *services.EventService
	users      *services.UserService
	properties *services.PropertyService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	events := services.NewEventService(db)
	return &fixture{
		db:         db,
		events:     events,
		users:      services.NewUserService(db, events),
		properties: services.NewPropertyService(db, events),
	}
}

func signupInput(n int) services.SignupInput {
	return services.SignupInput{
		Email:     fmt.Sprintf("user%d@example.com", n),
		Password:  "hunter2",
		Number:    fmt.Sprintf("98765%05d", n),
		FirstName: "First",
		LastName:  fmt.Sprintf("Last%d", n),
	}
}

func (f *fixture) signup(t *testing.T, n int) models.User {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), signupInput(n))
	require.NoError(t, err)
	return user
}

func intPtr(v int) *int { return &v }
func boolPtr(v bool) *bool { return &v }
func strPtr(v string) *string { return &v }

func propertyInput(city, state string, bedrooms, bathrooms int) services.PropertyInput {
	return services.PropertyInput{
		Street:         "12 Park Road",
		Area:           "Koregaon",
		City:           city,
		State:          state,
		NoOfBedRooms:   intPtr(bedrooms),
		NoOfBathRooms:  intPtr(bathrooms),
		NearbyHospital: boolPtr(true),
		NearByCollege:  boolPtr(false),
	}
}

func (f *fixture) createProperty(t *testing.T, ownerID int64, input services.PropertyInput) models.Property {
	t.Helper()
	property, err := f.properties.CreateProperty(context.Background(), ownerID, input)
	require.NoError(t, err)
	return property
}
