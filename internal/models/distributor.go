package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Distributor struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Name        string `bson:"name" json:"name"`
	ContactName string `bson:"contact_name,omitempty" json:"contact_name,omitempty"`
	Country     string `bson:"country,omitempty" json:"country,omitempty"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
	Telephone   string `bson:"telephone,omitempty" json:"telephone,omitempty"`
	Address     string `bson:"address,omitempty" json:"address,omitempty"`
	Position    string `bson:"position,omitempty" json:"position,omitempty"`
	Website     string `bson:"website,omitempty" json:"website,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	HasAgreement bool   `bson:"has_agreement" json:"has_agreement"`
	Image        *Image `bson:"image,omitempty" json:"image,omitempty"`
}

type DistributorPatch struct {
	Name         *string
	ContactName  *string
	Country      *string
	Email        *string
	Phone        *string
	Telephone    *string
	Address      *string
	Position     *string
	Website      *string
	Description  *string
	HasAgreement *bool
}

type DistributorFilter struct {
	Country string
	Search  string
}
