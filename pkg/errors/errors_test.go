package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormat(t *testing.T) {
	err := New(ErrCodeStateConflict, "illegal transition")
	assert.Equal(t, "[REQ_002] illegal transition", err.Error())

	withDetail := err.WithDetail("closed -> filed")
	assert.Equal(t, "[REQ_002] illegal transition: closed -> filed", withDetail.Error())

	// WithDetail must not mutate the original.
	assert.Empty(t, err.Detail)
}

func TestWrapPreservesChain(t *testing.T) {
	root := stderrors.New("connection refused")
	wrapped := Wrap(root, ErrCodeDatabaseError, "query failed")

	require.NotNil(t, wrapped)
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, ErrCodeDatabaseError, GetCode(wrapped))
}

func TestWrapNilReturnsNil(t *testing.T) {
	var err *AppError = Wrap(nil, ErrCodeInternal, "ignored")
	assert.Nil(t, err)
}

func TestWrapUnknownKeepsOriginalCode(t *testing.T) {
	inner := New(ErrCodeRequestNotFound, "no such request")
	outer := Wrap(fmt.Errorf("handler: %w", inner), CodeUnknown, "lookup failed")
	assert.Equal(t, ErrCodeRequestNotFound, outer.Code)
}

func TestIsCodeTraversesChain(t *testing.T) {
	inner := New(ErrCodeAppealExists, "appeal already filed")
	outer := Wrap(inner, ErrCodeInternal, "sweep step failed")

	assert.True(t, IsCode(outer, ErrCodeAppealExists))
	assert.True(t, IsCode(outer, ErrCodeInternal))
	assert.False(t, IsCode(outer, ErrCodeGatewayFailed))
}

func TestCategoryPredicates(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeRequestNotFound, "x")))
	assert.True(t, IsValidation(New(ErrCodeStructuralValidation, "x")))
	assert.True(t, IsConflict(New(ErrCodeStateConflict, "x")))
	assert.False(t, IsConflict(New(ErrCodeValidation, "x")))
	assert.False(t, IsNotFound(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeGatewayTimeout, GetCode(New(ErrCodeGatewayTimeout, "x")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeValidation:           http.StatusBadRequest,
		ErrCodeStructuralValidation: http.StatusBadRequest,
		ErrCodeRequestNotFound:      http.StatusNotFound,
		ErrCodeStateConflict:        http.StatusConflict,
		ErrCodeGatewayTimeout:       http.StatusGatewayTimeout,
		ErrCodeGatewayFailed:        http.StatusBadGateway,
		ErrCodeInternal:             http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), "code %s", code)
	}
}
