package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewPayload struct {
	OrganizerProfileID string `json:"organizerProfileId" validate:"required"`
	Rating             int    `json:"rating" validate:"required,rating"`
	Email              string `json:"email" validate:"omitempty,email"`
	Password           string `json:"password" validate:"omitempty,pwd"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestToDetails_UsesJSONNamesAndAliases(t *testing.T) {
	err := newValidator().Struct(reviewPayload{Rating: 9, Email: "nope", Password: "abc"})
	require.Error(t, err)

	d := ToDetails(err)
	assert.Equal(t, "is required", d["organizerProfileId"])
	assert.Equal(t, "must be between 1 and 5", d["rating"])
	assert.Equal(t, "must be a valid email", d["email"])
	assert.Equal(t, "must be at least 6 characters long", d["password"])
}

func TestToDetails_ValidPayload(t *testing.T) {
	err := newValidator().Struct(reviewPayload{OrganizerProfileID: "p1", Rating: 5})
	assert.NoError(t, err)
	assert.Nil(t, ToDetails(nil))
}

func TestToDetails_JSONErrors(t *testing.T) {
	var dst reviewPayload
	err := json.Unmarshal([]byte(`{"rating":`), &dst)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{"rating":"five"}`), &dst)
	require.Error(t, err)
	assert.Equal(t, "must be a int", ToDetails(err)["rating"])
}
