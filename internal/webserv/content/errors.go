package content

import (
	"net/http"

	"github.com/hedyserv/hedyserv/internal/common/apperrors"
)

var (
	// ErrContentStore is the base error for content store failures.
	ErrContentStore apperrors.Error = apperrors.New("content store failure").SetStatusCode(http.StatusInternalServerError)

	// ErrContentNotFound indicates no record matches the requested level and language.
	ErrContentNotFound apperrors.Error = ErrContentStore.New("no matching content").SetStatusCode(http.StatusNotFound)

	// ErrContentStoreCorrupt indicates the fallback language bundle is missing.
	// The store is not usable without it.
	ErrContentStoreCorrupt apperrors.Error = ErrContentStore.New("default language bundle missing")

	// ErrTemplateArgMissing indicates a template referenced an argument that
	// was not supplied.
	ErrTemplateArgMissing apperrors.Error = apperrors.New("missing template argument").SetStatusCode(http.StatusInternalServerError)

	// ErrInvalidLevel indicates the level parameter could not be parsed.
	ErrInvalidLevel apperrors.Error = apperrors.New("invalid level").SetStatusCode(http.StatusBadRequest)
)
