package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Encode renders doc as indented UTF-8 JSON in the given format.
//
// [FormatMap] is an object of label -> records in document order.
// [FormatManifest] is the shape the viewer loads:
//
//	{"generated": "...", "datasets": [{"folder": label, "files": [...]}]}
//
// generated is omitted when zero. Non-ASCII text and HTML characters are
// written literally. The output ends with a newline.
func Encode(doc *Document, format string, generated time.Time) ([]byte, error) {
	switch format {
	case FormatMap, "":
		return encodeMap(doc)
	case FormatManifest:
		return encodeManifest(doc, generated)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

func encodeMap(doc *Document) ([]byte, error) {
	var compact bytes.Buffer

	compact.WriteByte('{')

	for i, g := range doc.Groups {
		if i > 0 {
			compact.WriteByte(',')
		}

		if err := appendJSON(&compact, g.Label); err != nil {
			return nil, err
		}

		compact.WriteByte(':')

		if err := appendJSON(&compact, g.Records); err != nil {
			return nil, err
		}
	}

	compact.WriteByte('}')

	var out bytes.Buffer

	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}

	out.WriteByte('\n')

	return out.Bytes(), nil
}

type manifest struct {
	Generated string    `json:"generated,omitempty"`
	Datasets  []dataset `json:"datasets"`
}

type dataset struct {
	Folder string   `json:"folder"`
	Files  []Record `json:"files"`
}

func encodeManifest(doc *Document, generated time.Time) ([]byte, error) {
	m := manifest{Datasets: make([]dataset, 0, len(doc.Groups))}
	if !generated.IsZero() {
		m.Generated = generated.UTC().Format(time.RFC3339)
	}

	for _, g := range doc.Groups {
		m.Datasets = append(m.Datasets, dataset{Folder: g.Label, Files: g.Records})
	}

	var out bytes.Buffer

	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}

	return out.Bytes(), nil
}

// appendJSON writes the compact encoding of v without HTML escaping.
func appendJSON(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer

	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}

	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))

	return nil
}

// Names not in the WHATWG label set that users commonly pass.
var encodingAliases = map[string]string{
	"utf8":   "utf-8",
	"cp932":  "windows-31j",
	"ms932":  "windows-31j",
	"euc_jp": "euc-jp",
	"utf_8":  "utf-8",
}

// LookupEncoding resolves an output encoding name.
//
// Names are matched case-insensitively against the WHATWG encoding labels
// (utf-8, shift_jis, euc-jp, windows-1252, ...). "utf-8-sig" selects UTF-8
// with a byte order mark.
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	switch key {
	case "utf-8-sig", "utf_8_sig", "utf8-sig":
		return unicode.UTF8BOM, nil
	}

	if alias, ok := encodingAliases[key]; ok {
		key = alias
	}

	enc, err := htmlindex.Get(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}

	return enc, nil
}

// Transcode converts UTF-8 data to the named encoding.
// Characters the target encoding cannot represent are an error.
func Transcode(data []byte, name string) ([]byte, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}

	out, err := enc.NewEncoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: to %s: %w", ErrEncodeFailed, name, err)
	}

	return out, nil
}
