package agreement

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"github.com/shaymaabd/AMPA/internal/domain"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// fallbackEncodings are tried, in order, after the sniffed encoding.
var fallbackEncodings = []string{"utf-16", "utf-8-sig", "windows-1252", "latin-1"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding guesses the charset of raw by statistical analysis. An empty
// string means no guess.
func DetectEncoding(raw []byte) string {
	result, err := chardet.NewHtmlDetector().DetectBest(raw)
	if err != nil || result == nil {
		return ""
	}
	return result.Charset
}

// Decode returns raw as text and the name of the encoding that succeeded.
// It fails with domain.ErrDecode when neither the sniffed encoding nor any
// fallback decodes cleanly.
func Decode(raw []byte) (string, string, error) {
	candidates := append([]string{DetectEncoding(raw)}, fallbackEncodings...)
	tried := make(map[string]bool, len(candidates))

	for _, name := range candidates {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || tried[key] {
			continue
		}
		tried[key] = true

		text, err := decodeAs(raw, key)
		if err == nil {
			return text, name, nil
		}
	}
	return "", "", fmt.Errorf("%w (tried %d candidates)", domain.ErrDecode, len(tried))
}

func decodeAs(raw []byte, name string) (string, error) {
	switch name {
	case "utf-8", "utf8", "utf-8-sig", "ascii", "us-ascii":
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("invalid utf-8")
		}
		return string(bytes.TrimPrefix(raw, utf8BOM)), nil
	case "utf-16":
		return decodeStrict(raw, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM))
	case "utf-16le":
		return decodeStrict(raw, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM))
	case "utf-16be":
		return decodeStrict(raw, unicode.UTF16(unicode.BigEndian, unicode.UseBOM))
	case "latin-1", "latin1", "iso-8859-1":
		return decodeStrict(raw, charmap.ISO8859_1)
	case "windows-1252", "cp1252":
		return decodeStrict(raw, charmap.Windows1252)
	}

	enc, _ := charset.Lookup(name)
	if enc == nil {
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
	return decodeStrict(raw, enc)
}

// decodeStrict treats any replacement character in the output as a failure,
// since x/text decoders substitute rather than error on bad input.
func decodeStrict(raw []byte, enc encoding.Encoding) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("undecodable bytes")
	}
	return string(out), nil
}
