package storage

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hazardhub/hazardhub_api/util"
	"github.com/pkg/errors"
)

const MaxUploadSize = 5 << 20 // 5MB

var rgxBase64Image = regexp.MustCompile(`^data:image/(png|jpeg|jpg);base64,(.+)$`)

// LocalStore persists uploaded images to a static-served directory.
type LocalStore struct {
	Dir     string
	BaseURL string // public base, e.g. http://localhost:8080
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload directory")
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// SaveMultipart writes an uploaded image file to disk. Returns the public URL
// and the on-disk path.
func (s *LocalStore) SaveMultipart(file multipart.File, header *multipart.FileHeader) (string, string, error) {
	if header.Size > MaxUploadSize {
		return "", "", errors.New("file exceeds 5MB limit")
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", errors.New("only image files are allowed")
	}

	name := util.UploadFileName(header.Filename, time.Now())
	path := filepath.Join(s.Dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", "", errors.Wrap(err, "creating upload file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", "", errors.Wrap(err, "writing upload file")
	}

	return s.publicURL(name), path, nil
}

// SaveBase64 decodes a data:image payload and writes it to disk.
func (s *LocalStore) SaveBase64(payload string) (string, string, error) {
	matches := rgxBase64Image.FindStringSubmatch(payload)
	if matches == nil {
		return "", "", errors.New("invalid base64 image payload")
	}

	data, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return "", "", errors.Wrap(err, "decoding base64 image")
	}
	if len(data) > MaxUploadSize {
		return "", "", errors.New("image exceeds 5MB limit")
	}

	ext := strings.ToLower(matches[1])
	name := fmt.Sprintf("%d.%s", time.Now().UnixNano(), ext)
	path := filepath.Join(s.Dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", errors.Wrap(err, "writing base64 image")
	}

	return s.publicURL(name), path, nil
}

// ReadBase64 loads a stored image back as raw base64, the form the image
// classifier accepts.
func (s *LocalStore) ReadBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "reading image for classification")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (s *LocalStore) publicURL(name string) string {
	return fmt.Sprintf("%s/uploads/%s", s.BaseURL, name)
}
