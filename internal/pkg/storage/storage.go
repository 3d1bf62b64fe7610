package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrObjectNotFound = errors.New("stored object not found")

// FileStorage keeps archived documents such as saved payroll batches.
type FileStorage interface {
	// Upload stores the object and returns its key
	Upload(ctx context.Context, body io.Reader, key string, contentType string) (string, error)

	// Download returns the object body; callers close it
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)
}

// Options selects and configures a backend.
type Options struct {
	Type      string // local, s3 or none
	BasePath  string
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// New builds the backend named by opts.Type. "none" returns nil storage and
// callers skip archiving.
func New(ctx context.Context, opts Options) (FileStorage, error) {
	switch strings.ToLower(opts.Type) {
	case "", "none":
		return nil, nil
	case "local":
		local, err := NewLocalStorage(opts.BasePath)
		if err != nil {
			return nil, err
		}
		return local, nil
	case "s3":
		remote, err := NewS3Storage(ctx, opts)
		if err != nil {
			return nil, err
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", opts.Type)
	}
}

// PayrollArchiveKey is the object key of a saved payroll batch.
func PayrollArchiveKey(corporateID, period, id string) string {
	return fmt.Sprintf("payroll/%s/%s/%s.json", corporateID, period, id)
}
