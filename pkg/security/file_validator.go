package security

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

// Magic byte signatures per lowercase extension
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}}, // GIF87a & GIF89a
	".webp": {{0x52, 0x49, 0x46, 0x46}},                                                   // RIFF
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                                                   // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},                           // OLE
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                                                   // ZIP
	".txt":  {},
}

// MIME types accepted after sniffing. application/octet-stream is deliberately absent.
var strictMIMETypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/zip":    true,
	"text/plain":         true,
}

// ValidateFile checks size, extension whitelist, magic bytes and the sniffed
// MIME type. maxBytes <= 0 disables the size check.
func ValidateFile(filename string, data []byte, maxBytes int64) FileValidationResult {
	detected := http.DetectContentType(data)
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = detected[:i]
	}
	result := FileValidationResult{DetectedMIME: detected}

	if maxBytes > 0 && int64(len(data)) > maxBytes {
		result.Error = fmt.Sprintf("file exceeds the %d byte limit", maxBytes)
		return result
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	signatures, allowed := magicBytes[ext]
	if !allowed {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	if len(signatures) > 0 && !hasSignature(data, signatures) {
		result.Error = "file content does not match extension"
		return result
	}

	switch {
	case detected == "application/octet-stream":
		// Office formats are often not recognised by the sniffer; magic bytes were checked above
		if ext != ".doc" && ext != ".docx" {
			result.Error = "binary files not allowed; file type could not be determined"
			return result
		}
	case !strictMIMETypes[detected]:
		result.Error = "MIME type not allowed: " + detected
		return result
	}

	result.Valid = true
	return result
}

func hasSignature(data []byte, signatures [][]byte) bool {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// GetAllowedExtensions returns the sorted extension whitelist
func GetAllowedExtensions() []string {
	extensions := make([]string, 0, len(magicBytes))
	for ext := range magicBytes {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

// SanitizeFilename strips directories and replaces anything outside
// letters, digits, dot, dash and underscore. Never returns an empty string.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return "file"
	}
	// keep the tail so the extension survives
	if runes := []rune(cleaned); len(runes) > 128 {
		cleaned = string(runes[len(runes)-128:])
	}
	return cleaned
}
