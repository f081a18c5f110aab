package notion

import (
	"fmt"
	"time"

	sj "github.com/bitly/go-simplejson"

	"github.com/devmaxde/notion-client/pkg/variant"
)

// FileType is the wire tag of a File.
type FileType string

const (
	FileTypeHosted   FileType = "file"
	FileTypeExternal FileType = "external"
)

// File is a reference to a file, either hosted by Notion (with an expiring
// signed URL) or an external link. It is implemented by HostedFile and
// ExternalFile.
type File interface {
	Icon
	Type() FileType
	FileURL() string
	encodeFile() (variant.Fields, error)
}

// HostedFile is a file uploaded to Notion.
type HostedFile struct {
	URL        string
	// ExpiryTime is when URL stops working; UTC once decoded.
	ExpiryTime time.Time
}

func (HostedFile) Type() FileType    { return FileTypeHosted }
func (f HostedFile) FileURL() string { return f.URL }
func (HostedFile) isIcon()           {}

func (f HostedFile) encodeFile() (variant.Fields, error) {
	return variant.Fields{
		"file": variant.Fields{
			"url":         f.URL,
			"expiry_time": formatTimestamp(f.ExpiryTime),
		},
	}, nil
}

// ExternalFile is a link to a file hosted elsewhere.
type ExternalFile struct {
	URL        string
}

func (ExternalFile) Type() FileType    { return FileTypeExternal }
func (f ExternalFile) FileURL() string { return f.URL }
func (ExternalFile) isIcon()           {}

func (f ExternalFile) encodeFile() (variant.Fields, error) {
	return variant.Fields{
		"external": variant.Fields{"url": f.URL},
	}, nil
}

var files = variant.NewTagged[File]("file", "type",
	variant.On(string(FileTypeHosted), func(o variant.Object) (File, error) {
		return variant.Field(o, "file", variant.ObjectOf(func(p variant.Object) (File, error) {
			url, err := variant.Field(p, "url", variant.String)
			if err != nil {
				return nil, err
			}
			expiry, err := variant.Field(p, "expiry_time", decodeTimestamp)
			if err != nil {
				return nil, err
			}
			return HostedFile{URL: url, ExpiryTime: expiry}, nil
		}))
	}),
	variant.On(string(FileTypeExternal), func(o variant.Object) (File, error) {
		return variant.Field(o, "external", variant.ObjectOf(func(p variant.Object) (File, error) {
			url, err := variant.Field(p, "url", variant.String)
			if err != nil {
				return nil, err
			}
			return ExternalFile{URL: url}, nil
		}))
	}),
)

func decodeFile(doc *sj.Json, path variant.Path) (File, error) {
	return files.Decode(doc, path)
}

func encodeFile(f File) (any, error) {
	if f == nil {
		return nil, fmt.Errorf("file is nil")
	}
	payload, err := f.encodeFile()
	if err != nil {
		return nil, err
	}
	return files.Encode(string(f.Type()), payload)
}

// FileValue is one entry of a files property: a display name with the file
// reference flattened into the same object.
type FileValue struct {
	Name string
	File File
}

var decodeFileValue = variant.ObjectOf(func(o variant.Object) (FileValue, error) {
	name, err := variant.Field(o, "name", variant.String)
	if err != nil {
		return FileValue{}, err
	}
	f, err := files.DecodeObject(o)
	if err != nil {
		return FileValue{}, err
	}
	return FileValue{Name: name, File: f}, nil
})

func encodeFileValue(v FileValue) (any, error) {
	enc, err := encodeFile(v.File)
	if err != nil {
		return nil, err
	}
	f := enc.(variant.Fields)
	f["name"] = v.Name
	return f, nil
}
