// Package listing holds the submission checks and search filters for
// car listings, kept free of HTTP concerns so they can be tested on
// their own.
package listing

import (
	"errors"
	"strings"

	"github.com/rdnpras/mobilku/models"
)

// Image is one photo of a submission, already uploaded, referenced by URL.
type Image struct {
	URL      string `json:"url"`
	Position string `json:"position"`
}

// Words that mark a submission as an actual vehicle. Crude substring
// matching, same behavior the product has always had.
var vehicleKeywords = []string{
	"mobil", "car", "sedan", "suv", "mpv", "hatchback", "truck", "pickup",
}

var (
	ErrNotVehicle = errors.New("ERROR: Barang yang Anda jual bukan kendaraan / mobil. Marketplace ini khusus untuk penjualan mobil.")
	ErrPhotoCount = errors.New("Wajib upload 6 foto: Depan, Samping Kiri, Samping Kanan, Belakang, Dalam, Dashboard")
)

// MissingPositionsError lists the required photo positions a submission
// did not cover, in canonical order.
type MissingPositionsError struct {
	Positions []string
}

func (e *MissingPositionsError) Error() string {
	return "Foto berikut wajib diisi: " + strings.Join(e.Positions, ", ")
}

// ValidateSubmission checks a proposed listing and returns the first
// rejection, in the order the checks are shown to sellers: category,
// photo count, photo position coverage. A nil return means accepted.
func ValidateSubmission(name, brand, model string, images []Image) error {
	if !IsVehicle(name, brand, model) {
		return ErrNotVehicle
	}
	if len(images) != len(models.RequiredPositions) {
		return ErrPhotoCount
	}
	if missing := missingPositions(images); len(missing) > 0 {
		return &MissingPositionsError{Positions: missing}
	}
	return nil
}

// IsVehicle reports whether any of name, brand or model contains a
// vehicle keyword, case-insensitively.
func IsVehicle(name, brand, model string) bool {
	name = strings.ToLower(name)
	brand = strings.ToLower(brand)
	model = strings.ToLower(model)
	for _, kw := range vehicleKeywords {
		if strings.Contains(name, kw) || strings.Contains(brand, kw) || strings.Contains(model, kw) {
			return true
		}
	}
	return false
}

func missingPositions(images []Image) []string {
	covered := make(map[string]bool, len(images))
	for _, img := range images {
		covered[img.Position] = true
	}

	var missing []string
	for _, pos := range models.RequiredPositions {
		if !covered[pos] {
			missing = append(missing, pos)
		}
	}
	return missing
}
