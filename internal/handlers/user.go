package handlers

import (
	"errors"
	"net/http"

	"github.com/markbates/goth/gothic"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rdnpras/mobilku/internal/auth"
	"github.com/rdnpras/mobilku/internal/logger"
	"github.com/rdnpras/mobilku/internal/request"
	"github.com/rdnpras/mobilku/internal/response"
	"github.com/rdnpras/mobilku/models"
)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=CONSUMER DEALER_SEMI DEALER_OFFICIAL"`
	DealerBrand string `json:"dealerBrand"`
	NameTagURL  string `json:"nameTagUrl"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// userSummary is the subset returned after registration and login.
type userSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func isDealer(role string) bool {
	return role == models.RoleDealerOfficial || role == models.RoleDealerSemi
}

func RegisterHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	var req RegisterRequest
	if err := request.ReadJSON(w, r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Format data tidak valid")
		return
	}
	if err := request.Validate(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Semua field wajib diisi")
		return
	}

	// Dealers must upload a name tag photo.
	if isDealer(req.Role) && req.NameTagURL == "" {
		response.Error(w, http.StatusBadRequest, "Dealer wajib upload foto name tag")
		return
	}

	// Official dealers must name the brand they represent.
	if req.Role == models.RoleDealerOfficial && req.DealerBrand == "" {
		response.Error(w, http.StatusBadRequest, "Dealer resmi wajib mengisi brand dealer")
		return
	}

	var existing models.User
	err := db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		response.Error(w, http.StatusBadRequest, "Email sudah terdaftar")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("register: email lookup failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat registrasi")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("register: hashing password failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat registrasi")
		return
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashed),
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     req.Role,
		// Official dealers start unverified pending manual review.
		IsVerified: req.Role != models.RoleDealerOfficial,
	}
	if req.Role == models.RoleDealerOfficial {
		user.DealerBrand = &req.DealerBrand
	}
	if isDealer(req.Role) {
		user.NameTagURL = &req.NameTagURL
	}

	if err := db.Create(&user).Error; err != nil {
		logger.Error("register: creating user failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat registrasi")
		return
	}

	logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", user.Role))
	response.JSON(w, http.StatusCreated, map[string]any{
		"message": "Registrasi berhasil",
		"user":    userSummary{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	var req LoginRequest
	if err := request.ReadJSON(w, r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Format data tidak valid")
		return
	}
	if err := request.Validate(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Email dan password wajib diisi")
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(w, http.StatusUnauthorized, "Email atau password salah")
			return
		}
		logger.Error("login: user lookup failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat login")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		response.Error(w, http.StatusUnauthorized, "Email atau password salah")
		return
	}

	session, err := auth.Store.Get(r, auth.SessionName)
	if err != nil {
		logger.Error("login: getting session failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat login")
		return
	}
	session.Values["user_id"] = user.ID
	if err := session.Save(r, w); err != nil {
		logger.Error("login: saving session failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat login")
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"message": "Login berhasil",
		"user":    userSummary{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
	})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, err := auth.Store.Get(r, auth.SessionName)
	if err == nil {
		session.Options.MaxAge = -1
		delete(session.Values, "user_id")
		if err := session.Save(r, w); err != nil {
			logger.Error("logout: saving session failed", zap.Error(err))
			response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat logout")
			return
		}
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Logout berhasil"})
}

// GetUserHandler returns the profile of the logged-in user. The password
// hash never serializes.
func GetUserHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(w, http.StatusNotFound, "User tidak ditemukan")
			return
		}
		logger.Error("get user failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat mengambil data user")
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{"user": user})
}

// OAuthCallbackHandler completes the provider flow and signs the user in,
// creating a consumer account on first login.
func OAuthCallbackHandler(w http.ResponseWriter, r *http.Request, db *gorm.DB) {
	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		logger.Error("oauth: completing auth failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat login")
		return
	}

	var user models.User
	if err := db.Where("email = ?", gothUser.Email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("oauth: user lookup failed", zap.Error(err))
			response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat login")
			return
		}
		user = models.User{
			Email:      gothUser.Email,
			Name:       gothUser.Name,
			Role:       models.RoleConsumer,
			IsVerified: true,
		}
		if err := db.Create(&user).Error; err != nil {
			logger.Error("oauth: creating user failed", zap.Error(err))
			response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat login")
			return
		}
	}

	session, err := auth.Store.Get(r, auth.SessionName)
	if err != nil {
		logger.Error("oauth: getting session failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat login")
		return
	}
	session.Values["user_id"] = user.ID
	if err := session.Save(r, w); err != nil {
		logger.Error("oauth: saving session failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat login")
		return
	}

	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}
