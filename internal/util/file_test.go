package util

import (
	"bytes"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestValidateMimeTypeSniffsContent(t *testing.T) {
	mime, err := ValidateMimeType(bytes.NewReader(pngHeader), []string{MimeImage})
	if err != nil {
		t.Fatalf("png rejected: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("detected %q", mime)
	}
}

func TestValidateMimeTypeRejectsMismatchedContent(t *testing.T) {
	// Plain text dressed up as an image by the caller.
	if _, err := ValidateMimeType(strings.NewReader("just some text"), []string{MimeImage}); err == nil {
		t.Fatal("non-image content accepted")
	}
	if _, err := ValidateMimeType(bytes.NewReader(pngHeader), []string{MimeVideo}); err == nil {
		t.Fatal("image accepted as video")
	}
}

func TestMimePrefixHelpers(t *testing.T) {
	if !IsImage("image/png") || IsImage("video/mp4") {
		t.Fatal("IsImage misclassified")
	}
	if !IsVideo("video/mp4") || IsVideo("image/png") {
		t.Fatal("IsVideo misclassified")
	}
}
