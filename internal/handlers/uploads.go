package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/h2non/bimg"
	"go.uber.org/zap"

	"github.com/rdnpras/mobilku/internal/auth"
	"github.com/rdnpras/mobilku/internal/logger"
	"github.com/rdnpras/mobilku/internal/response"
)

// Listing photos get scaled down to this width before storage.
const photoMaxWidth = 1280

// ObjectPutter is the slice of the S3 client the upload path needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// UploadPhotoHandler takes one multipart photo, resizes it and puts it in
// the bucket. The returned URL is what the client references in the
// listing form (car photos and dealer name tags alike).
func UploadPhotoHandler(w http.ResponseWriter, r *http.Request, client ObjectPutter) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Foto tidak ditemukan di form")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("upload: reading photo failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat upload foto")
		return
	}

	resized, err := bimg.NewImage(data).Process(bimg.Options{
		Width: photoMaxWidth,
		Type:  bimg.JPEG,
	})
	if err != nil {
		response.Error(w, http.StatusBadRequest, "File bukan gambar yang valid")
		return
	}

	key := fmt.Sprintf("cars/%s/%s_%s", userID, uuid.NewString(), header.Filename)
	_, err = client.PutObject(r.Context(), &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("BUCKET_NAME")),
		Key:         aws.String(key),
		Body:        bytes.NewReader(resized),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		logger.Error("upload: putting object failed", zap.Error(err), zap.String("key", key))
		response.Error(w, http.StatusInternalServerError, "Terjadi kesalahan saat upload foto")
		return
	}

	logger.Info("photo uploaded", zap.String("key", key), zap.String("user_id", userID))
	response.JSON(w, http.StatusOK, map[string]string{
		"message": "Foto berhasil diupload",
		"url":     CleanURL(fmt.Sprintf(os.Getenv("PUBLIC_URL"), key)),
	})
}

// CleanURL percent-encodes spaces and normalizes the public URL.
func CleanURL(urlStr string) string {
	urlStr = strings.ReplaceAll(urlStr, " ", "%20")
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}
	return parsedURL.String()
}
