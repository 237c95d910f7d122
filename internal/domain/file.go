package domain

import "context"

// File is the metadata row of an attachment. Path is the key of the
// payload in the configured blob backend.
type File struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Path string `json:"-"`
}

func (f File) GetID() int { return f.ID }

func (f File) WithID(id int) File {
	f.ID = id
	return f
}

// FileDto carries an attachment payload in and out of the services.
type FileDto struct {
	Name    string
	Content []byte
}

// Empty reports whether the payload carries no bytes.
func (f FileDto) Empty() bool {
	return len(f.Content) == 0
}

type FileRepository = Repository[File]

// FileStore stores and retrieves attachment payloads by generated id.
type FileStore interface {
	Save(ctx context.Context, file FileDto) (File, error)
	// DeleteByID is idempotent: deleting an unknown id is not an error.
	DeleteByID(ctx context.Context, id int) error
	// GetByID returns nil without error when the id is unknown.
	GetByID(ctx context.Context, id int) (*FileDto, error)
}
