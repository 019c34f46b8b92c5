package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusByKind(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("missing").HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, Validation("bad input").HTTPStatus())
	assert.Equal(t, http.StatusConflict, Conflict("duplicate").HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Internal("boom").HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, New(KindUnknown, "unspecified").HTTPStatus())
}

// Upstream auth and validation failures relay their status so the client
// can fix its request; everything else collapses to 502.
func TestHTTPStatusUpstreamRelay(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, Upstream("bad token", http.StatusUnauthorized).HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, Upstream("slot taken", http.StatusUnprocessableEntity).HTTPStatus())
	assert.Equal(t, http.StatusBadGateway, Upstream("server error", http.StatusInternalServerError).HTTPStatus())
	assert.Equal(t, http.StatusBadGateway, Upstream("unreachable", 0).HTTPStatus())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindUpstream, "calendar provider unreachable", cause)

	require.True(t, errors.Is(err, cause))
	assert.True(t, Is(err, KindUpstream))
	assert.Equal(t, "calendar provider unreachable", err.Error())
}

func TestErrorIncludesOp(t *testing.T) {
	err := NotFound("lead not found").WithOp("leads.GetByID")
	assert.Equal(t, "leads.GetByID: lead not found", err.Error())
}

func TestGetKindForeignError(t *testing.T) {
	assert.Equal(t, KindUnknown, GetKind(fmt.Errorf("plain error")))
	assert.False(t, Is(nil, KindNotFound))
}
