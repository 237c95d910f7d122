package domain

import "context"

// Entity is implemented by every stored record. Ids are assigned by the
// store on Save; WithID returns a copy carrying the given id.
type Entity[T any] interface {
	GetID() int
	WithID(id int) T
}

// Attachable is an entity that references at most one File by id.
// A FileID of 0 means no file is attached.
type Attachable[T any] interface {
	Entity[T]
	GetFileID() int
	WithFileID(fileID int) T
}

// Repository is the storage contract shared by the in-memory and the
// postgres backends.
type Repository[T any] interface {
	// Save assigns a fresh id and stores the entity.
	Save(ctx context.Context, entity T) (T, error)
	// DeleteByID reports whether an entry existed and was removed.
	DeleteByID(ctx context.Context, id int) (bool, error)
	// Update replaces every mutable field of the entry with entity's id.
	// It reports false and changes nothing when the id is unknown.
	Update(ctx context.Context, entity T) (bool, error)
	// FindByID returns nil without error when the id is unknown.
	FindByID(ctx context.Context, id int) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
}

// AttachmentRepository stores entities that own a file. The conditional
// writes apply only while the stored entry still references expectedFileID,
// which lets callers replace or remove the entry without losing track of a
// file attached concurrently.
type AttachmentRepository[T any] interface {
	Repository[T]
	// UpdateIfFile replaces the entry like Update, but reports false when
	// the stored entry is missing or references another file.
	UpdateIfFile(ctx context.Context, entity T, expectedFileID int) (bool, error)
	// DeleteIfFile removes the entry only while it references expectedFileID.
	DeleteIfFile(ctx context.Context, id int, expectedFileID int) (bool, error)
}
