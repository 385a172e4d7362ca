package storage

import "io"

type IService interface {
	// StoreFile persists an uploaded video and returns its local path.
	StoreFile(fileName string, r io.Reader) (string, error)
	Remove(path string) error
}
