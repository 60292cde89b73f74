package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNoEntities         = errors.New("no entities found in session; process the document first")
	ErrNoApprovedEntities = errors.New("no approved entities to mask")
	ErrUnsupportedFile    = errors.New("only PDF files are accepted")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrEmptyFieldName     = errors.New("field name cannot be empty")
	ErrDuplicateField     = errors.New("field names must be unique")
	ErrNoFields           = errors.New("at least one field definition is required")
	ErrArchiveNotFound    = errors.New("no archived document for session")
	ErrFolderNotFound     = errors.New("folder not found")
	ErrNoBatchInput       = errors.New("no PDF files found in the folder")
)
