package menu

import (
	"path/filepath"
	"strings"

	"darmenu/internal/core"
)

var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var (
	ErrImageExtensionMissing = core.NewError(core.ErrInvalid, "file extension missing")
	ErrImageTypeNotAllowed   = core.NewError(core.ErrInvalid, "file type not allowed")
)

// ValidateImageExtension returns the content type for an accepted image.
func ValidateImageExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == "" {
		return "", ErrImageExtensionMissing
	}

	contentType, ok := allowedImageExt[ext]
	if !ok {
		return "", ErrImageTypeNotAllowed
	}

	return contentType, nil
}

// normalize trims the input in place and reports field errors.
func normalize(in *DishInput, defaultCurrency string) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = defaultCurrency
	}

	v := core.NewValidationError()
	if in.Name == "" {
		v.Add("name", "is required")
	}
	if in.Price <= 0 {
		v.Add("price", "must be greater than 0")
	}
	if in.LoyaltyPoints != nil && *in.LoyaltyPoints < 0 {
		v.Add("loyalty_points", "must be at least 0")
	}
	if in.WaitTime != nil && *in.WaitTime < 0 {
		v.Add("wait_time", "must be at least 0")
	}
	return v.OrNil()
}
