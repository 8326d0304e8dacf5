// Package datavalue implements the DataValue discriminated union that flows
// through execution context scopes, action parameters, and the expression
// evaluator.
package datavalue

import (
	"encoding/json"
	"fmt"
)

// Kind tags the variant carried by a DataValue.
type Kind string

const (
	KindText     Kind = "text"
	KindURL      Kind = "url"
	KindFileRef  Kind = "file_ref"
	KindMediaRef Kind = "media_ref"
	KindJSON     Kind = "json"
	KindNumber   Kind = "number"
	KindBoolean  Kind = "boolean"
	KindDateTime Kind = "date_time"
	KindList     Kind = "list"
	KindNull     Kind = "null"
)

// MediaKind enumerates the media types a MediaRef may wrap.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

// FileRef always carries a sandbox:// URI, never a host filesystem path.
type FileRef struct {
	URI      string `json:"uri"`
	MimeType string `json:"mime_type,omitempty"`
}

// MediaRef wraps a FileRef with media-specific metadata.
type MediaRef struct {
	File         FileRef   `json:"file"`
	Kind         MediaKind `json:"kind"`
	DurationMs   *int64    `json:"duration_ms,omitempty"`
	WidthPixels  *int      `json:"width_px,omitempty"`
	HeightPixels *int      `json:"height_px,omitempty"`
}

// DataValue is the tagged union carried by execution context scopes.
type DataValue struct {
	kind     Kind
	text     string
	url      string
	fileRef  FileRef
	mediaRef MediaRef
	json     json.RawMessage
	number   float64
	boolean  bool
	dateTime string
	list     []DataValue
}

func Text(v string) DataValue     { return DataValue{kind: KindText, text: v} }
func URL(v string) DataValue      { return DataValue{kind: KindURL, url: v} }
func File(v FileRef) DataValue    { return DataValue{kind: KindFileRef, fileRef: v} }
func Media(v MediaRef) DataValue  { return DataValue{kind: KindMediaRef, mediaRef: v} }
func JSON(v json.RawMessage) DataValue { return DataValue{kind: KindJSON, json: v} }
func Number(v float64) DataValue  { return DataValue{kind: KindNumber, number: v} }
func Boolean(v bool) DataValue    { return DataValue{kind: KindBoolean, boolean: v} }
func DateTime(v string) DataValue { return DataValue{kind: KindDateTime, dateTime: v} }
func List(v []DataValue) DataValue { return DataValue{kind: KindList, list: v} }
func Null() DataValue             { return DataValue{kind: KindNull} }

func (v DataValue) Kind() Kind { return v.kind }

func (v DataValue) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

func (v DataValue) AsFileRef() (FileRef, bool) {
	if v.kind != KindFileRef {
		return FileRef{}, false
	}
	return v.fileRef, true
}

// Equal implements structural equality, the definition the expression
// evaluator's Eq operator relies on. Two Null values are equal; values of
// different kinds are never equal. MediaRef values compare by file and kind
// only; duration and dimensions are not compared.
func (v DataValue) Equal(other DataValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return v.text == other.text
	case KindURL:
		return v.url == other.url
	case KindFileRef:
		return v.fileRef == other.fileRef
	case KindNumber:
		return v.number == other.number
	case KindBoolean:
		return v.boolean == other.boolean
	case KindDateTime:
		return v.dateTime == other.dateTime
	case KindJSON:
		return string(v.json) == string(other.json)
	case KindMediaRef:
		return v.mediaRef.File == other.mediaRef.File && v.mediaRef.Kind == other.mediaRef.Kind
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

type wireForm struct {
	Kind     Kind            `json:"kind"`
	Text     string          `json:"text,omitempty"`
	URL      string          `json:"url,omitempty"`
	FileRef  *FileRef        `json:"file_ref,omitempty"`
	MediaRef *MediaRef       `json:"media_ref,omitempty"`
	JSON     json.RawMessage `json:"json,omitempty"`
	Number   *float64        `json:"number,omitempty"`
	Boolean  *bool           `json:"boolean,omitempty"`
	DateTime string          `json:"date_time,omitempty"`
	List     []DataValue     `json:"list,omitempty"`
}

func (v DataValue) MarshalJSON() ([]byte, error) {
	w := wireForm{Kind: v.kind}
	switch v.kind {
	case KindText:
		w.Text = v.text
	case KindURL:
		w.URL = v.url
	case KindFileRef:
		w.FileRef = &v.fileRef
	case KindMediaRef:
		w.MediaRef = &v.mediaRef
	case KindJSON:
		w.JSON = v.json
	case KindNumber:
		w.Number = &v.number
	case KindBoolean:
		w.Boolean = &v.boolean
	case KindDateTime:
		w.DateTime = v.dateTime
	case KindList:
		w.List = v.list
	case KindNull:
		// no payload
	default:
		return nil, fmt.Errorf("datavalue: unknown kind %q", v.kind)
	}
	return json.Marshal(w)
}

func (v *DataValue) UnmarshalJSON(data []byte) error {
	var w wireForm
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case KindText:
		*v = Text(w.Text)
	case KindURL:
		*v = URL(w.URL)
	case KindFileRef:
		if w.FileRef == nil {
			return fmt.Errorf("datavalue: file_ref kind missing payload")
		}
		*v = File(*w.FileRef)
	case KindMediaRef:
		if w.MediaRef == nil {
			return fmt.Errorf("datavalue: media_ref kind missing payload")
		}
		*v = Media(*w.MediaRef)
	case KindJSON:
		*v = JSON(w.JSON)
	case KindNumber:
		if w.Number == nil {
			return fmt.Errorf("datavalue: number kind missing payload")
		}
		*v = Number(*w.Number)
	case KindBoolean:
		if w.Boolean == nil {
			return fmt.Errorf("datavalue: boolean kind missing payload")
		}
		*v = Boolean(*w.Boolean)
	case KindDateTime:
		*v = DateTime(w.DateTime)
	case KindList:
		*v = List(w.List)
	case KindNull, "":
		*v = Null()
	default:
		return fmt.Errorf("datavalue: unknown kind %q", w.Kind)
	}
	return nil
}
