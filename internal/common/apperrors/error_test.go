package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("TestError", func(t *testing.T) {
		ErrBaseErr := New("base error")
		assert.Equal(t, "base error", ErrBaseErr.Error())
		assert.Equal(t, "msg", ErrBaseErr.New("msg").Error())
		assert.ErrorIs(t, ErrBaseErr, ErrBaseErr)

		ErrFirstLevel := ErrBaseErr.New("first level")
		assert.Equal(t, "first level", ErrFirstLevel.Error())
		assert.ErrorIs(t, ErrFirstLevel, ErrBaseErr)

		ErrAnotherErr := New("another error")
		ErrAnotherErrMsg := ErrAnotherErr.Msg("another error msg")
		ErrWrappedErr := ErrFirstLevel.Err(ErrAnotherErrMsg)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, ErrFirstLevel)
		assert.ErrorIs(t, ErrWrappedErr, ErrAnotherErr)
		assert.ErrorIs(t, ErrWrappedErr, ErrAnotherErrMsg)

		err := errors.New("error")
		ErrWrappedErr = ErrFirstLevel.Err(err)
		assert.Equal(t, "first level", ErrWrappedErr.Error())
		assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedErr, err)

		ErrAnotherGoErr := fmt.Errorf("another error")
		ErrWrappedGoErr := ErrFirstLevel.Err(ErrAnotherGoErr)
		assert.Equal(t, "first level", ErrWrappedGoErr.Error())
		assert.ErrorIs(t, ErrWrappedGoErr, ErrBaseErr)
		assert.ErrorIs(t, ErrWrappedGoErr, ErrAnotherGoErr)
	})

	t.Run("TestStatusCode", func(t *testing.T) {
		ErrNotFound := New("not found").SetStatusCode(http.StatusNotFound)
		assert.Equal(t, http.StatusNotFound, ErrNotFound.StatusCode())
		// derived errors inherit the status code
		assert.Equal(t, http.StatusNotFound, ErrNotFound.New("level 9 (en)").StatusCode())
		assert.Equal(t, http.StatusNotFound, ErrNotFound.Msg("wrapped").StatusCode())
	})

	t.Run("TestErrorAll", func(t *testing.T) {
		base := New("content store failure")
		wrapped := base.Err(errors.New("open texts.json: no such file"))
		assert.Equal(t, "content store failure; content store failure; open texts.json: no such file", wrapped.ErrorAll())
		assert.Equal(t, "content store failure", base.ErrorAll())
	})
}
