package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
)

var validate = validator.New()

// checkRequired runs struct-tag validation on a create input and folds
// the result into a single ValidationError naming every missing field.
func checkRequired(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return apperr.Validation("missing required fields: %s", strings.Join(fields, ", "))
	}
	return apperr.Validation("invalid input")
}

// parseObjectIDs validates that every element of a reference list is a
// well-formed id. Target existence is deliberately not checked.
func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, hex := range hexes {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
		if err != nil {
			return nil, apperr.Validation("%q is not a valid distributor id", hex)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
