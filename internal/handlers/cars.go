package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rdnpras/mobilku/internal/auth"
	"github.com/rdnpras/mobilku/internal/listing"
	"github.com/rdnpras/mobilku/internal/logger"
	"github.com/rdnpras/mobilku/internal/request"
	"github.com/rdnpras/mobilku/internal/response"
	"github.com/rdnpras/mobilku/models"
)

// CreateCarRequest carries the listing form. Numeric fields arrive as
// strings from the form and are coerced here, optional ones to null.
type CreateCarRequest struct {
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Year         string          `json:"year"`
	Description  string          `json:"description"`
	Condition    string          `json:"condition"`
	Price        string          `json:"price"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	Province     string          `json:"province"`
	Mileage      string          `json:"mileage"`
	Transmission string          `json:"transmission"`
	FuelType     string          `json:"fuelType"`
	Color        string          `json:"color"`
	TaxStatus    string          `json:"taxStatus"`
	TaxYear      string          `json:"taxYear"`
	StnkStatus   string          `json:"stnkStatus"`
	Images       []listing.Image `json:"images"`
}

// carView swaps the owner record for its public subset.
type carView struct {
	models.Car
	User *models.Profile `json:"user"`
}

func newCarView(car models.Car, withNameTag bool) carView {
	var profile *models.Profile
	if car.User != nil {
		p := car.User.Profile(withNameTag)
		profile = &p
	}
	car.User = nil
	return carView{Car: car, User: profile}
}

func CreateCarHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateCarRequest
	if err := request.ReadJSON(w, r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Format data tidak valid")
		return
	}

	if err := listing.ValidateSubmission(req.Name, req.Brand, req.Model, req.Images); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	year, err := strconv.Atoi(req.Year)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Tahun dan harga harus berupa angka")
		return
	}
	price, err := strconv.ParseFloat(req.Price, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Tahun dan harga harus berupa angka")
		return
	}

	car := models.Car{
		UserID:       userID,
		Name:         req.Name,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         year,
		Description:  req.Description,
		Condition:    req.Condition,
		Price:        price,
		Address:      req.Address,
		City:         req.City,
		Province:     req.Province,
		Mileage:      optionalInt(req.Mileage),
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		Color:        req.Color,
		TaxStatus:    req.TaxStatus,
		TaxYear:      optionalInt(req.TaxYear),
		StnkStatus:   req.StnkStatus,
		IsActive:     true,
	}
	for _, img := range req.Images {
		car.Images = append(car.Images, models.CarImage{URL: img.URL, Position: img.Position})
	}

	// Car and its six images go in as one create.
	if err := db.Create(&car).Error; err != nil {
		logger.Error("create car failed", zap.Error(err), zap.String("user_id", userID))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat menambahkan mobil")
		return
	}

	car.User = &models.User{}
	if err := db.First(car.User, "id = ?", userID).Error; err != nil {
		logger.Error("create car: loading owner failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat menambahkan mobil")
		return
	}

	logger.Info("car listed", zap.String("car_id", car.ID), zap.String("user_id", userID))
	response.JSON(w, http.StatusCreated, map[string]any{
		"message": "Mobil berhasil ditambahkan",
		"car":     newCarView(car, false),
	})
}

func GetCarsHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	params := listing.ParamsFromQuery(r.URL.Query())

	var cars []models.Car
	err := listing.Apply(db.Model(&models.Car{}), params).
		Preload("Images").
		Preload("User").
		Find(&cars).Error
	if err != nil {
		logger.Error("list cars failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat mengambil data mobil")
		return
	}

	views := make([]carView, 0, len(cars))
	for _, car := range cars {
		views = append(views, newCarView(car, false))
	}
	response.JSON(w, http.StatusOK, map[string]any{"cars": views})
}

func GetCarHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	id := chi.URLParam(r, "id")

	var car models.Car
	err := db.
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Preload("User").
		First(&car, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(w, http.StatusNotFound, "Mobil tidak ditemukan")
			return
		}
		logger.Error("get car failed", zap.Error(err), zap.String("car_id", id))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat mengambil data mobil")
		return
	}

	// Every successful fetch counts as a view. Single-statement
	// increment, no read-modify-write.
	err = db.Model(&models.Car{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		logger.Error("incrementing views failed", zap.Error(err), zap.String("car_id", id))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat mengambil data mobil")
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{"car": newCarView(car, true)})
}

func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
