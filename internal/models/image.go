package models

// Image is the locator for one externally stored image blob. The URL and
// the provider's public ID are persisted together so deletion never has
// to reconstruct the ID from the URL.
type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"public_id"`
}
