// Copyright (c) 2025-2026 Atelier Sesje
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atelier-sesje/atelier-go/internal/imaging"
	"github.com/atelier-sesje/atelier-go/internal/util"
)

// Upload limits
const (
	MaxUploadSize    = 20 * 1024 * 1024 // 20MB
	DefaultUploadDir = "./uploads"
)

// UploadService stores gallery images on disk and hands back their
// public URLs.
type UploadService struct {
	processor *imaging.Processor
	uploadDir string
}

// NewUploadService creates a new upload service.
func NewUploadService(uploadDir string) *UploadService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &UploadService{
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// UploadError reports which file in a batch failed.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading %s: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// UploadImage stores a single image and returns its public URL.
func (s *UploadService) UploadImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxUploadSize {
		return "", fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	}

	filename := s.storedFilename(header.Filename)
	result, err := s.processor.Process(file, filename)
	if err != nil {
		return "", err
	}

	return PublicURL(filepath.Base(result.FilePath)), nil
}

// UploadImages stores a batch of images one at a time, in order. On
// failure it stops and returns the URLs stored so far together with an
// UploadError naming the file that failed; earlier uploads are kept.
func (s *UploadService) UploadImages(headers []*multipart.FileHeader) ([]string, error) {
	var urls []string
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return urls, &UploadError{Filename: header.Filename, Err: err}
		}

		url, err := s.UploadImage(file, header)
		_ = file.Close()
		if err != nil {
			return urls, &UploadError{Filename: header.Filename, Err: err}
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// DeleteImage removes the stored image a public URL points at.
func (s *UploadService) DeleteImage(url string) error {
	return s.processor.DeleteImage(path.Base(url))
}

// PublicURL maps a stored filename to the URL it is served under.
func PublicURL(filename string) string {
	return "/uploads/" + imaging.SessionsDir + "/" + filename
}

// ThumbnailURL maps a public image URL to its thumbnail URL.
func ThumbnailURL(url string) string {
	return "/uploads/" + imaging.SessionsDir + "/" + imaging.ThumbsDir + "/" + path.Base(url)
}

// storedFilename builds a collision-resistant name from a slug of the
// original name, the upload time and a random token, keeping the
// original extension. The slug keeps stored files recognizable when
// browsing the uploads directory.
func (s *UploadService) storedFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := util.Slugify(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if len(base) > 40 {
		base = base[:40]
	}
	name := strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + randomToken()
	if base != "" {
		name = base + "-" + name
	}
	return name + ext
}

func randomToken() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
