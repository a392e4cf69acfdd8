package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/fulldump/box"

	"github.com/fulldump/diffbelt/collection"
	"github.com/fulldump/diffbelt/database"
)

var ErrUnavailable = errors.New("temporary unavailable")

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, errors.Wrap(ErrUnavailable, "opening"))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, errors.Wrap(ErrUnavailable, "closing"))
				return
			}
			next(ctx)
		}
	}
}

type errorStatus struct {
	err         error
	status      int
	description string
}

var errorStatuses = []errorStatus{
	{ErrUnavailable, http.StatusServiceUnavailable, "database is not operating"},
	{database.ErrNoSuchCollection, http.StatusNotFound, "collection does not exist"},
	{collection.ErrCollectionClosed, http.StatusNotFound, "collection has been deleted"},
	{collection.ErrNoSuchReader, http.StatusNotFound, "reader does not exist"},
	{collection.ErrNoSuchCursor, http.StatusNotFound, "cursor does not exist or was already read"},
	{collection.ErrNoSuchPhantom, http.StatusNotFound, "phantom does not exist"},
	{database.ErrCollectionAlreadyExists, http.StatusConflict, "collection already exists"},
	{collection.ErrReaderAlreadyExists, http.StatusConflict, "reader already exists"},
	{collection.ErrOutdatedGeneration, http.StatusConflict, "generation is outdated"},
	{collection.ErrReaderBehindWatermark, http.StatusConflict, "a reader still needs the history"},
	{collection.ErrUnsupportedActionOnNonManual, http.StatusBadRequest, "action requires a manual collection"},
	{collection.ErrCannotPutInManualCollection, http.StatusBadRequest, "puts in manual collections need a generation"},
	{collection.ErrNextGenerationIsNotStarted, http.StatusBadRequest, "no generation is started"},
	{collection.ErrInvalidGenerationID, http.StatusBadRequest, "malformed generation id"},
	{collection.ErrInvalidGenerationRange, http.StatusBadRequest, "invalid generation range"},
	{collection.ErrInvalidLimit, http.StatusBadRequest, "invalid limit"},
}

func writePrettyError(w http.ResponseWriter, status int, message, description string) {
	w.WriteHeader(status)
	PrettyError{Message: message, Description: description}.MarshalTo(w)
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		if err == box.ErrResourceNotFound {
			writePrettyError(w, http.StatusNotFound, err.Error(),
				fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String()))
			return
		}

		if err == box.ErrMethodNotAllowed {
			writePrettyError(w, http.StatusMethodNotAllowed, err.Error(),
				fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method))
			return
		}

		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		if errors.As(err, &syntaxError) || errors.As(err, &typeError) ||
			errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			writePrettyError(w, http.StatusBadRequest, err.Error(), "Malformed JSON")
			return
		}

		for _, e := range errorStatuses {
			if errors.Is(err, e.err) {
				writePrettyError(w, e.status, err.Error(), e.description)
				return
			}
		}

		writePrettyError(w, http.StatusInternalServerError, err.Error(), "Unexpected error")
	}
}
