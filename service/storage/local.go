package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/h2non/filetype/types"
	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/service/config"
	"github.com/khaledhikmat/vs-activity/service/lgr"
)

// Containers accepted for upload, mirroring the form's .mp4,.avi,.mov filter.
var allowedContainers = []types.Type{
	matchers.TypeMp4,
	matchers.TypeAvi,
	matchers.TypeMov,
}

// Enough bytes for every container signature filetype knows about
const headSize = 8192

type localService struct {
	CfgSvc config.IService
}

func NewLocal(cfgsvc config.IService) IService {
	return &localService{
		CfgSvc: cfgsvc,
	}
}

func (svc *localService) StoreFile(fileName string, r io.Reader) (string, error) {
	head := make([]byte, headSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading upload %s: %w", fileName, err)
	}
	head = head[:n]

	kind, ok := container(head)
	if !ok {
		return "", fmt.Errorf("%w: %s is not an mp4, avi or mov video", model.ErrValidation, fileName)
	}

	folder := svc.CfgSvc.GetUploadsFolder()
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", fmt.Errorf("error creating uploads folder: %w", err)
	}

	output := filepath.Join(folder, fmt.Sprintf("%s.%s", uuid.NewString(), kind.Extension))
	file, err := os.Create(output)
	if err != nil {
		return "", fmt.Errorf("error creating %s: %w", output, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, io.MultiReader(bytes.NewReader(head), r)); err != nil {
		_ = os.Remove(output)
		return "", fmt.Errorf("error writing %s: %w", output, err)
	}

	lgr.Logger.Debug("upload stored",
		slog.String("name", fileName),
		slog.String("path", output),
		slog.String("mime", kind.MIME.Value),
	)
	return output, nil
}

func (svc *localService) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func container(head []byte) (types.Type, bool) {
	for _, kind := range allowedContainers {
		if filetype.IsType(head, kind) {
			return kind, true
		}
	}
	return filetype.Unknown, false
}
