package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Manufacturer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name        string `bson:"name" json:"name"`
	Country     string `bson:"country" json:"country"`
	ContactName string `bson:"contact_name" json:"contact_name"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
	Position    string `bson:"position,omitempty" json:"position,omitempty"`
	Mobile      string `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Telephone   string `bson:"telephone,omitempty" json:"telephone,omitempty"`
	Website     string `bson:"website,omitempty" json:"website,omitempty"`
	Address     string `bson:"address,omitempty" json:"address,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	Distributors []primitive.ObjectID `bson:"distributors" json:"distributors"`
	HasAgent     bool                 `bson:"has_agent" json:"has_agent"`
	Image        *Image               `bson:"image,omitempty" json:"image,omitempty"`
}

// ManufacturerView expands the distributor references; deleted
// distributors are omitted from the details while their ids stay in the
// stored list.
type ManufacturerView struct {
	Manufacturer       `bson:",inline"`
	DistributorDetails []Distributor `json:"distributor_details"`
}

type ManufacturerPatch struct {
	Name         *string
	Country      *string
	ContactName  *string
	Email        *string
	Position     *string
	Mobile       *string
	Telephone    *string
	Website      *string
	Address      *string
	Description  *string
	Distributors *[]string
	HasAgent     *bool
}

type ManufacturerFilter struct {
	Country string
	Search  string
}
