package api

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/greekmarket/marketplace-backend/errors"
)

// isObjectNameRgx is a regular expression to match object names.
var isObjectNameRgx = regexp.MustCompile(`^([a-zA-Z0-9]+)\.(jpg|jpeg|png)`)

// uploadImageHandler uploads images through a multipart form. It expects the
// request to contain a "file" field with one or more files and returns the
// URLs of the stored images.
func (a *API) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	party, ok := partyFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}

	// 32 MB is the default used by FormFile() function
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		errors.ErrStorageInvalidObject.Withf("could not parse form: %v", err).Write(w)
		return
	}

	filesFound := false
	var returnURLs []string
	for _, fileHeaders := range r.MultipartForm.File {
		for _, fileHeader := range fileHeaders {
			file, err := fileHeader.Open()
			if err != nil {
				errors.ErrStorageInvalidObject.Withf("cannot open file %s: %v", fileHeader.Filename, err).Write(w)
				return
			}
			filesFound = true
			storedFileID, err := a.objectStorage.Put(file, fileHeader.Size, party.Email)
			if closeErr := file.Close(); closeErr != nil {
				errors.ErrStorageInvalidObject.Withf("cannot close file %s: %v", fileHeader.Filename, closeErr).Write(w)
				return
			}
			if err != nil {
				errors.ErrInternalStorageError.Withf("%s: %v", fileHeader.Filename, err).Write(w)
				return
			}
			returnURLs = append(returnURLs, objectURL(a.serverURL, storedFileID))
		}
	}
	if !filesFound {
		errors.ErrStorageInvalidObject.With("no files found").Write(w)
		return
	}
	httpWriteJSON(w, map[string][]string{"urls": returnURLs})
}

// downloadImageHandler serves a stored image inline.
func (a *API) downloadImageHandler(w http.ResponseWriter, r *http.Request) {
	objectName := chi.URLParam(r, "objectID")
	if objectName == "" {
		errors.ErrMalformedURLParam.With("objectID is required").Write(w)
		return
	}
	objectID, ok := objectIDfromName(objectName)
	if !ok {
		errors.ErrStorageInvalidObject.With("invalid object name").Write(w)
		return
	}
	object, err := a.objectStorage.Get(objectID)
	if err != nil {
		errors.ErrStorageInvalidObject.Withf("cannot get object: %v", err).Write(w)
		return
	}
	w.Header().Set("Content-Type", object.ContentType)
	w.Header().Set("Content-Disposition", "inline")
	if _, err := w.Write(object.Data); err != nil {
		errors.ErrInternalStorageError.Withf("cannot write object: %v", err).Write(w)
		return
	}
}

// objectURL returns the public URL for the object with the given objectID.
func objectURL(baseURL, objectID string) string {
	return fmt.Sprintf("%s/storage/%s", baseURL, objectID)
}

// objectIDfromName returns the objectID from the given object name. If the
// name does not match the expected pattern, it returns false.
func objectIDfromName(name string) (string, bool) {
	objectID := isObjectNameRgx.FindStringSubmatch(name)
	if len(objectID) != 3 {
		return "", false
	}
	return objectID[1], true
}
