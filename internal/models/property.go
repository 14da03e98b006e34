package models

import "time"

// Property represents a rental listing owned by exactly one user.
type Property struct {
	ID             int64     `db:"id" json:"id"`
	Street         string    `db:"street" json:"street"`
	Area           string    `db:"area" json:"area"`
	City           string    `db:"city" json:"city"`
	State          string    `db:"state" json:"state"`
	NoOfBedRooms   int       `db:"no_of_bed_rooms" json:"noOfBedRooms"`
	NoOfBathRooms  int       `db:"no_of_bath_rooms" json:"noOfBathRooms"`
	NearbyHospital bool      `db:"nearby_hospital" json:"nearbyHospital"`
	NearByCollege  bool      `db:"near_by_college" json:"nearByCollege"`
	UserID         int64     `db:"user_id" json:"userId"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// PropertyFilter narrows a property search. Nil fields do not constrain the result.
type PropertyFilter struct {
	City         *string
	State        *string
	MinBedrooms  *int
	MaxBedrooms  *int
	MinBathrooms *int
	MaxBathrooms *int
}
