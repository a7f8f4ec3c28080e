package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
)

// FoodID is the opaque, store-generated identifier of a food record.
// Its textual form depends on the backing store (UUID or ObjectID hex).
type FoodID string

// String returns the textual form of the identifier.
func (id FoodID) String() string {
	return string(id)
}

// Wire keys of the known record fields. They match the documents written by
// the existing web client, including the historical "foodDonarEmail" spelling.
const (
	FieldID              = "_id"
	FieldName            = "foodName"
	FieldImage           = "foodImage"
	FieldQuantity        = "foodQuantity"
	FieldPickupLocation  = "pickupLocation"
	FieldExpiredDate     = "expiredDate"
	FieldAdditionalNotes = "additionalNotes"
	FieldStatus          = "foodStatus"
	FieldDonorName       = "donorName"
	FieldDonorImage      = "donorImage"
	FieldDonorEmail      = "foodDonarEmail"
	FieldRequestedBy     = "requestedBy"
	FieldRequestDate     = "requestDate"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonTagName)
	return v
}

// Food is a single food listing. Known fields are typed; any other
// attribute supplied by a client is kept in Extra under its wire key.
// Known fields that were supplied are rendered even when they hold their
// zero value, so a submitted 0 or "" reads back as given.
type Food struct {
	ID              FoodID    `json:"_id"`
	Name            string    `json:"foodName"`
	Image           string    `json:"foodImage"`
	Quantity        int       `json:"foodQuantity" validate:"gte=0"`
	PickupLocation  string    `json:"pickupLocation"`
	ExpiredDate     time.Time `json:"expiredDate" validate:"required"`
	AdditionalNotes string    `json:"additionalNotes"`
	Status          string    `json:"foodStatus"`
	DonorName       string    `json:"donorName"`
	DonorImage      string    `json:"donorImage"`
	DonorEmail      string    `json:"foodDonarEmail"`
	RequestedBy     string    `json:"requestedBy"`
	RequestDate     time.Time `json:"requestDate"`

	Extra map[string]any `json:"-"`

	// present holds the known fields that were supplied. It is filled while
	// decoding and never modified afterwards.
	present map[string]struct{}
}

// Validate checks the typed fields of the record.
func (f *Food) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return NewFieldError(verrs[0].Field(), validationMessage(verrs[0].Tag()))
	}
	return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
}

// Document returns the record as a flat wire-keyed map without the
// identifier. A known field is included when it was supplied or holds a
// non-zero value.
func (f *Food) Document() map[string]any {
	doc := make(map[string]any, len(f.Extra)+12)
	for key, value := range f.Extra {
		doc[key] = value
	}

	putString := func(key, value string) {
		if value != "" || f.has(key) {
			doc[key] = value
		}
	}
	putString(FieldName, f.Name)
	putString(FieldImage, f.Image)
	putString(FieldPickupLocation, f.PickupLocation)
	putString(FieldAdditionalNotes, f.AdditionalNotes)
	putString(FieldStatus, f.Status)
	putString(FieldDonorName, f.DonorName)
	putString(FieldDonorImage, f.DonorImage)
	putString(FieldDonorEmail, f.DonorEmail)
	putString(FieldRequestedBy, f.RequestedBy)

	if f.Quantity != 0 || f.has(FieldQuantity) {
		doc[FieldQuantity] = f.Quantity
	}
	if !f.ExpiredDate.IsZero() {
		doc[FieldExpiredDate] = f.ExpiredDate.UTC()
	}
	if !f.RequestDate.IsZero() {
		doc[FieldRequestDate] = f.RequestDate.UTC()
	}

	return doc
}

func (f *Food) has(key string) bool {
	_, ok := f.present[key]
	return ok
}

func (f *Food) markPresent(key string) {
	if f.present == nil {
		f.present = make(map[string]struct{})
	}
	f.present[key] = struct{}{}
}

// MarshalJSON renders the record in the flat shape clients expect, with
// extra attributes alongside the known fields.
func (f Food) MarshalJSON() ([]byte, error) {
	doc := f.Document()
	doc[FieldID] = f.ID
	return json.Marshal(doc)
}

// Apply merges the patch into a copy of the record and returns it. The
// receiver is not modified.
func (f *Food) Apply(patch FoodPatch) (*Food, error) {
	doc := f.Document()
	for key, value := range patch.fields {
		if value == nil {
			delete(doc, key)
			continue
		}
		doc[key] = value
	}
	return FoodFromDocument(f.ID, doc)
}

// FoodPatch is a validated set of field updates. Only keys present in the
// request body are carried; a key mapped to nil removes the field.
type FoodPatch struct {
	fields map[string]any
}

// Fields returns a copy of the wire-keyed updates.
func (p FoodPatch) Fields() map[string]any {
	out := make(map[string]any, len(p.fields))
	for key, value := range p.fields {
		out[key] = value
	}
	return out
}

// Len returns the number of fields the patch updates.
func (p FoodPatch) Len() int {
	return len(p.fields)
}

// ExpiredDate returns the new expiry if the patch sets one.
func (p FoodPatch) ExpiredDate() (time.Time, bool) {
	t, ok := p.fields[FieldExpiredDate].(time.Time)
	return t, ok
}

// Changes splits the patch into values to store and fields to remove.
// Only an explicit null removes a field; zero values are stored as given.
func (p FoodPatch) Changes() (set map[string]any, unset []string) {
	set = make(map[string]any, len(p.fields))
	for _, key := range slices.Sorted(maps.Keys(p.fields)) {
		value := p.fields[key]
		if value == nil {
			unset = append(unset, key)
			continue
		}
		set[key] = value
	}
	return set, unset
}

// InsertResult acknowledges a created record.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   FoodID `json:"insertedId"`
}

// UpdateResult reports how many records matched and changed.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult reports how many records were removed.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func validationMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "gte":
		return "must not be negative"
	default:
		return "is invalid"
	}
}
