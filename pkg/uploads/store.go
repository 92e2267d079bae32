package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// ImageTypes are accepted for profile pictures, logos and post images.
var ImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// AllTypes adds PDF for pitch decks.
var AllTypes = append(append([]string{}, ImageTypes...), "application/pdf")

const sniffLen = 3072

type Upload struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Store writes uploads to a local directory served under /files/.
type Store struct {
	dir     string
	baseURL string
}

func NewStore(dir, publicBaseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save stores any of AllTypes.
func (s *Store) Save(r io.Reader) (Upload, error) {
	return s.SaveAs(r, AllTypes)
}

// SaveAs sniffs the content type, checks it against allowed and stores the file
// under a random name with the extension of the detected type. The client
// supplied name is ignored.
func (s *Store) SaveAs(r io.Reader, allowed []string) (Upload, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Upload{}, err
	}
	if n == 0 {
		return Upload{}, ErrEmptyFile
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	ok := false
	for _, t := range allowed {
		if mtype.Is(t) {
			ok = true
			break
		}
	}
	if !ok {
		return Upload{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}

	name := uuid.NewString() + mtype.Extension()
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Upload{}, fmt.Errorf("create upload: %w", err)
	}
	size, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), r))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return Upload{}, fmt.Errorf("write upload: %w", err)
	}

	return Upload{
		URL:         s.baseURL + "/files/" + name,
		Filename:    name,
		ContentType: mtype.String(),
		Size:        size,
	}, nil
}
