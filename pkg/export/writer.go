package export

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/duynguyendang/llm-playbook/pkg/common/errors"
	"github.com/duynguyendang/llm-playbook/pkg/playbook"
)

// WriteAtomic encodes ds and replaces path with it. The encoding is done
// in memory first; the destination is only replaced by a rename, so a
// failure at any step leaves an existing artifact untouched.
func WriteAtomic(path string, ds *playbook.Dataset) error {
	data, err := playbook.Marshal(ds)
	if err != nil {
		return fmt.Errorf("%w: encode dataset: %v", apperrors.ErrOutputUnwritable, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrOutputUnwritable, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
