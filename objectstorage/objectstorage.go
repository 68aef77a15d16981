// Package objectstorage stores product and listing images in MongoDB, keyed
// by a digest of their contents, with an in-memory LRU cache in front.
package objectstorage

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/greekmarket/marketplace-backend/db"
)

var (
	// ErrorObjectNotFound is returned when the requested object is not found in storage.
	ErrorObjectNotFound = fmt.Errorf("object not found")
	// ErrorInvalidObjectID is returned when the provided object ID is invalid or empty.
	ErrorInvalidObjectID = fmt.Errorf("invalid object ID")
	// ErrorFileTypeNotSupported is returned when the file type is not in the supported types list.
	ErrorFileTypeNotSupported = fmt.Errorf("file type not supported")
)

// ObjectFileType represents the MIME type of a stored object file.
type ObjectFileType string

const (
	FileTypeJPEG ObjectFileType = "image/jpeg"
	FileTypePNG  ObjectFileType = "image/png"
	FileTypeJPG  ObjectFileType = "image/jpg"
)

// DefaultSupportedFileTypes is a map of file types that are supported by default.
var DefaultSupportedFileTypes = map[ObjectFileType]bool{
	FileTypeJPEG: true,
	FileTypePNG:  true,
	FileTypeJPG:  true,
}

// Config holds the configuration for the object storage client.
type Config struct {
	DB             *db.MongoStorage
	SupportedTypes []ObjectFileType
	ServerURL      string
}

// Client provides functionality for storing and retrieving objects. It uses
// MongoDB for storage and includes an LRU cache for repeated reads.
type Client struct {
	db             *db.MongoStorage
	supportedTypes map[ObjectFileType]bool
	cache          *lru.Cache[string, db.Object]
	ServerURL      string
}

// New initializes the object storage client with the given configuration.
func New(conf *Config) (*Client, error) {
	if conf == nil || conf.DB == nil {
		return nil, fmt.Errorf("invalid object storage configuration")
	}
	supportedTypes := DefaultSupportedFileTypes
	for _, t := range conf.SupportedTypes {
		supportedTypes[t] = true
	}
	cache, err := lru.New[string, db.Object](256)
	if err != nil {
		return nil, fmt.Errorf("cannot create cache: %w", err)
	}
	return &Client{
		db:             conf.DB,
		supportedTypes: supportedTypes,
		cache:          cache,
		ServerURL:      conf.ServerURL,
	}, nil
}

// Get retrieves an object from storage by its ID. It first checks the cache,
// and if not found, retrieves it from the database.
func (osc *Client) Get(objectID string) (*db.Object, error) {
	if objectID == "" {
		return nil, ErrorInvalidObjectID
	}

	if object, ok := osc.cache.Get(objectID); ok {
		return &object, nil
	}

	object, err := osc.db.Object(objectID)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrorObjectNotFound
		}
		return nil, fmt.Errorf("error retrieving object: %w", err)
	}

	osc.cache.Add(objectID, *object)

	return object, nil
}

// Put uploads an image associated to a party (free-form string). The objectID
// is derived from the data itself, so re-uploading the same image is a no-op.
// It returns the object filename including the detected extension.
func (osc *Client) Put(data io.Reader, size int64, uploadedBy string) (string, error) {
	buff := make([]byte, size)
	if _, err := io.ReadFull(data, buff); err != nil {
		return "", fmt.Errorf("cannot read file: %v", err)
	}
	// only allow image uploads
	filetype := http.DetectContentType(buff)
	fileExtension := strings.Split(filetype, "/")[1]

	if !osc.supportedTypes[ObjectFileType(filetype)] {
		return "", ErrorFileTypeNotSupported
	}

	objectID := calculateObjectID(buff)

	if err := osc.db.SetObject(objectID, uploadedBy, filetype, buff); err != nil {
		return "", fmt.Errorf("cannot set object: %w", err)
	}
	return fmt.Sprintf("%s.%s", objectID, fileExtension), nil
}

// calculateObjectID derives the objectID from the first 12 bytes of the md5
// hash of the data, hex encoded.
func calculateObjectID(data []byte) string {
	md5hash := md5.Sum(data)
	return hex.EncodeToString(md5hash[:12])
}
