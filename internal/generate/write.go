package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/John-Robertt/clashgen-go/internal/model"
)

// WriteError wraps an output IO failure. The generated document held in
// memory is unaffected.
type WriteError struct {
	AppError model.AppError
	Cause    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.AppError.Code, e.AppError.Message, e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }

// FromURLToFile generates and persists the document, creating parent
// directories as needed. Write-then-rename keeps the replacement atomic
// enough for a single-writer desktop tool.
func FromURLToFile(ctx context.Context, rawURL, path string, opt Options) (int, error) {
	res, err := FromURL(ctx, rawURL, opt)
	if err != nil {
		return 0, err
	}
	if err := WriteFile(path, res.YAML); err != nil {
		return 0, err
	}
	return res.Count, nil
}

// WriteFile persists text at path, overwriting any previous content.
func WriteFile(path string, text []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return writeError(path, err)
	}

	tmp, err := os.CreateTemp(dir, ".clashgen-*.yaml")
	if err != nil {
		return writeError(path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return writeError(path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return writeError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return writeError(path, err)
	}
	return nil
}

func writeError(path string, cause error) error {
	return &WriteError{
		AppError: model.AppError{
			Code:    "OUTPUT_WRITE_ERROR",
			Message: fmt.Sprintf("写入输出文件失败：%s", path),
			Stage:   "write_output",
		},
		Cause: cause,
	}
}
