package pdf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrPasswordRequired is returned for encrypted documents opened without a
// working password.
var ErrPasswordRequired = errors.New("pdf is encrypted and needs a password")

// IsPasswordError reports whether err looks like a pdfcpu encryption failure.
func IsPasswordError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"encrypt", "password", "decrypt"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Decrypt returns a path to an unencrypted copy of path. Unencrypted inputs
// are returned unchanged. The cleanup function removes any temporary copy
// and is always safe to call.
func Decrypt(path, password string) (string, func(), error) {
	noop := func() {}
	_, err := api.PageCountFile(path)
	if err == nil {
		return path, noop, nil
	}
	if !IsPasswordError(err) {
		return "", noop, fmt.Errorf("read pdf: %w", err)
	}
	if password == "" {
		return "", noop, ErrPasswordRequired
	}

	tmp, err := os.CreateTemp("", "omr-decrypted-*.pdf")
	if err != nil {
		return "", noop, fmt.Errorf("create temporary file: %w", err)
	}
	_ = tmp.Close()
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	if err := api.DecryptFile(path, tmp.Name(), conf); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("%w: %v", ErrPasswordRequired, err)
	}
	return tmp.Name(), cleanup, nil
}
