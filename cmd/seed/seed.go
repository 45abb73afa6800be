package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

var imageExts = []string{".jpg", ".jpeg", ".png", ".webp"}

type seeder struct {
	Products  repository.ProductRepository
	Logger    *logrus.Logger
	ImagesDir string
	// Upload stores the image at path and returns its public URL.
	Upload func(ctx context.Context, p *entity.Product, path string) (string, error)
}

// slug turns a product name into the base file name looked up in ImagesDir.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func findImage(dir, base string) string {
	if dir == "" {
		return ""
	}
	for _, ext := range imageExts {
		p := filepath.Join(dir, base+ext)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// seedProducts inserts the samples only into an empty catalog.
func (s *seeder) seedProducts(ctx context.Context, samples []entity.Product) (int, error) {
	existing, err := s.Products.List(ctx, repository.ProductFilter{Limit: 1})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.Logger.Info("catalog not empty; skipping sample products")
		return 0, nil
	}

	created := 0
	for i := range samples {
		p := samples[i]
		if err := s.Products.Create(ctx, &p); err != nil {
			return created, err
		}
		created++

		img := findImage(s.ImagesDir, slug(p.Name))
		if img == "" || s.Upload == nil {
			continue
		}
		url, err := s.Upload(ctx, &p, img)
		if err != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("image upload failed")
			continue
		}
		if url == "" {
			continue
		}
		p.ImageURL = url
		if err := s.Products.Update(ctx, &p); err != nil {
			return created, err
		}
	}
	return created, nil
}
