package source

import (
	"context"
	"os"

	"github.com/matzehuels/beanchain/pkg/bean"
	"github.com/matzehuels/beanchain/pkg/errors"
)

// File loads records from a JSON array file.
type File struct {
	Path string
}

// Load reads and decodes the file.
func (f *File) Load(ctx context.Context) ([]bean.Record, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeSourceNotFound,
				"cannot find %s, make sure the bean description JSON is available", f.Path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "open %s", f.Path)
	}
	defer fh.Close()

	records, err := Decode(fh)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "read %s", f.Path)
	}
	return records, nil
}

// String returns the file path.
func (f *File) String() string { return f.Path }
