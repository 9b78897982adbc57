package envsh

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Part is a single multipart form field. File parts carry a path whose
// contents are attached when the form is encoded.
type Part struct {
	Name  string
	Value string
	File  string
}

// IsFile reports whether the part is a file attachment
func (p Part) IsFile() bool { return p.File != "" }

// Form is an ordered multipart form
type Form struct {
	Parts []Part
}

// Text appends a text field
func (f *Form) Text(name, value string) *Form {
	f.Parts = append(f.Parts, Part{Name: name, Value: value})
	return f
}

// File appends a file field read from path at encode time
func (f *Form) File(name, path string) *Form {
	f.Parts = append(f.Parts, Part{Name: name, File: path})
	return f
}

// Has reports whether a field with the given name is present
func (f *Form) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

// Get returns the first part with the given name
func (f *Form) Get(name string) (Part, bool) {
	for _, p := range f.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}

// Names lists field names in order
func (f *Form) Names() []string {
	names := make([]string, 0, len(f.Parts))
	for _, p := range f.Parts {
		names = append(names, p.Name)
	}
	return names
}

// Encode writes the form as multipart/form-data and returns the body along
// with its content type. Attached files are read fully and closed before
// Encode returns.
func (f *Form) Encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, p := range f.Parts {
		if p.IsFile() {
			if err := writeFilePart(w, p); err != nil {
				return nil, "", err
			}
			continue
		}
		if err := w.WriteField(p.Name, p.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", p.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}

	return body, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, p Part) error {
	file, err := os.Open(p.File)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", p.File, err)
	}
	defer func() { _ = file.Close() }()

	dst, err := w.CreateFormFile(p.Name, filepath.Base(p.File))
	if err != nil {
		return fmt.Errorf("failed to create form file %s: %w", p.Name, err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		return fmt.Errorf("failed to read file %s: %w", p.File, err)
	}

	return nil
}
