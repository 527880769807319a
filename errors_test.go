package selcdn_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sagarc03/selcdn"
)

func TestUnexpectedStatusError(t *testing.T) {
	err := &selcdn.UnexpectedStatusError{Op: "delete file a", StatusCode: http.StatusNotFound, Body: "gone"}

	assert.Equal(t, "delete file a: unexpected status 404 - gone", err.Error())
	assert.True(t, err.IsNotFound())
	assert.ErrorIs(t, err, selcdn.ErrNotFound)
	assert.NotErrorIs(t, err, selcdn.ErrForbidden)

	wrapped := fmt.Errorf("outer: %w", &selcdn.UnexpectedStatusError{StatusCode: http.StatusUnauthorized})
	assert.ErrorIs(t, wrapped, selcdn.ErrUnauthorized)
	assert.Equal(t, "unexpected status 401", errors.Unwrap(wrapped).Error())
}
