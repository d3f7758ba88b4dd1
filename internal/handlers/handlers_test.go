package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"

	"github.com/rdnpras/mobilku/internal/auth"
	"github.com/rdnpras/mobilku/internal/listing"
	"github.com/rdnpras/mobilku/models"
)

func init() {
	auth.Store = sessions.NewCookieStore([]byte("test-secret"))
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Car{}, &models.CarImage{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		Email:      "seller@example.com",
		Password:   "hashed",
		Name:       "Budi Santoso",
		Phone:      "081234567890",
		Role:       models.RoleConsumer,
		IsVerified: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}

// carsRouter wires the car routes the way main does, with the session
// middleware replaced by a stub that injects userID.
func carsRouter(db *gorm.DB, userID string) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/cars", func(w http.ResponseWriter, r *http.Request) {
		GetCarsHandler(w, r, db)
	})
	r.Get("/api/cars/{id}", func(w http.ResponseWriter, r *http.Request) {
		GetCarHandler(w, r, db)
	})
	r.Post("/api/cars", func(w http.ResponseWriter, r *http.Request) {
		if userID != "" {
			r = r.WithContext(auth.WithUserID(r.Context(), userID))
		}
		CreateCarHandler(w, r, db)
	})
	return r
}

func postJSON(t *testing.T, h http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return body
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	msg, _ := decodeBody(t, rec)["error"].(string)
	return msg
}

func validCarPayload() CreateCarRequest {
	images := make([]listing.Image, 0, len(models.RequiredPositions))
	for _, pos := range models.RequiredPositions {
		images = append(images, listing.Image{URL: "https://cdn.example.com/" + pos + ".jpg", Position: pos})
	}
	return CreateCarRequest{
		Name:         "Toyota Avanza Veloz MPV",
		Brand:        "Toyota",
		Model:        "Avanza",
		Year:         "2021",
		Description:  "Tangan pertama, servis rutin",
		Condition:    models.ConditionBekas,
		Price:        "185000000",
		Address:      "Jl. Sudirman No. 1",
		City:         "Jakarta Pusat",
		Province:     "DKI Jakarta",
		Mileage:      "45000",
		Transmission: "AT",
		FuelType:     "Bensin",
		Color:        "Hitam",
		TaxStatus:    "Hidup",
		TaxYear:      "2025",
		StnkStatus:   "Lengkap",
		Images:       images,
	}
}
