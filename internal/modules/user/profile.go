package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"userhub/internal/domain"
)

const maxImageSize = 5 * 1024 * 1024 // 5 MB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// SaveProfileImage validates and stores an uploaded profile picture on
// disk, then records the filename on the identity. Re-uploading replaces
// the previous file reference; the old file is removed best effort.
func (s *Service) SaveProfileImage(ctx context.Context, actor domain.UserLogged, id string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size == 0 {
		return "", ErrEmptyFile
	}
	if fileHeader.Size > maxImageSize {
		return "", ErrFileTooLarge
	}

	u, err := s.Find(ctx, id)
	if err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// MIME sniffed from content, not trusted from the header
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return "", ErrInvalidMimeType
	}
	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	if err := os.MkdirAll(s.imageDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s%s", id, sanitizeName(fileHeader.Filename), ext)
	absPath := filepath.Join(s.imageDir, filename)

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	previous := u.ProfileImage
	u.ProfileImage = filename
	if err := s.users.Update(ctx, actor, u); err != nil {
		_ = os.Remove(absPath)
		return "", err
	}

	if previous != "" && previous != filename {
		_ = os.Remove(filepath.Join(s.imageDir, previous))
	}

	return filename, nil
}

// ProfileImagePath resolves the on-disk path of an account's profile
// picture. Missing record or missing file both come back as a not-found.
func (s *Service) ProfileImagePath(ctx context.Context, id string) (string, error) {
	u, err := s.Find(ctx, id)
	if err != nil {
		return "", err
	}
	if u.ProfileImage == "" {
		return "", domain.ErrResourceNotFound
	}

	absPath := filepath.Join(s.imageDir, filepath.Base(u.ProfileImage))
	if _, err := os.Stat(absPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrResourceNotFound
		}
		return "", err
	}
	return absPath, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}
