package apiclient

import (
	"bytes"
	"io"
	"mime/multipart"

	"github.com/pkg/errors"
)

type formFile struct {
	field    string
	filename string
	content  []byte
}

type formField struct {
	name  string
	value string
}

// Form is a multipart body. The content type, boundary included, is produced by the multipart writer.
type Form struct {
	fields []formField
	files  []formFile
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

func (f *Form) AddFile(field, filename string, content []byte) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, content: content})
	return f
}

func (f *Form) encode() (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", errors.Wrap(err, "write form field")
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", errors.Wrap(err, "create form file")
		}
		if _, err := part.Write(file.content); err != nil {
			return nil, "", errors.Wrap(err, "write form file")
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close form")
	}
	return buf, w.FormDataContentType(), nil
}
