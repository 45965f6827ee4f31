package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Device struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Name           string   `bson:"name" json:"name"`
	Model          string   `bson:"model" json:"model"`
	Price          *float64 `bson:"price,omitempty" json:"price,omitempty"`
	WholesalePrice *float64 `bson:"wholesale_price,omitempty" json:"wholesale_price,omitempty"`
	Description    string   `bson:"description,omitempty" json:"description,omitempty"`
	Category       string   `bson:"category" json:"category"`
	Subcategory    string   `bson:"subcategory,omitempty" json:"subcategory,omitempty"`

	// Manufacturer is required; Distributors may be empty. Both are stored
	// as raw references and expanded on reads.
	Manufacturer primitive.ObjectID   `bson:"manufacturer" json:"manufacturer"`
	Distributors []primitive.ObjectID `bson:"distributors" json:"distributors"`

	IsRegulatorRegistered bool   `bson:"is_regulator_registered" json:"is_regulator_registered"`
	Image                 *Image `bson:"image,omitempty" json:"image,omitempty"`
}

// DeviceView is the read shape: the stored document plus expanded
// cross-references. A dangling reference leaves the detail absent rather
// than failing the read.
type DeviceView struct {
	Device             `bson:",inline"`
	ManufacturerDetail *Manufacturer `json:"manufacturer_detail,omitempty"`
	DistributorDetails []Distributor `json:"distributor_details"`
}

// DevicePatch enumerates every updatable field. Nil means "leave
// unchanged"; only non-nil fields are merged into the stored document.
type DevicePatch struct {
	Name                  *string
	Model                 *string
	Price                 *float64
	WholesalePrice        *float64
	Description           *string
	Category              *string
	Subcategory           *string
	Manufacturer          *string
	Distributors          *[]string
	IsRegulatorRegistered *bool
}

// DeviceFilter is the allow-list of list predicates: category and
// subcategory equality plus case-insensitive substring match on name.
type DeviceFilter struct {
	Category    string
	Subcategory string
	Search      string
}
