package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"

	"github.com/linesmerrill/gun-locker-api/config"
)

// CloudinaryHandler handles Cloudinary related requests
type CloudinaryHandler struct{}

// thumbTransformation is the crop applied to photo thumbnails in list views
const thumbTransformation = "c_fill,h_200,w_200"

// GenerateSignature generates a signature for Cloudinary uploads
func (c CloudinaryHandler) GenerateSignature(w http.ResponseWriter, r *http.Request) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	uploadPreset := os.Getenv("CLOUDINARY_UPLOAD_PRESET")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	// Create the signature
	h := hmac.New(sha1.New, []byte(apiSecret))
	h.Write([]byte("timestamp=" + timestamp + "&upload_preset=" + uploadPreset))
	signature := hex.EncodeToString(h.Sum(nil))

	// Respond with the timestamp and signature
	response := map[string]string{
		"timestamp": timestamp,
		"signature": signature,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// FileURLHandler resolves a stored photo or document public id to its
// delivery URL. Pass thumb=true for the square thumbnail crop.
func (c CloudinaryHandler) FileURLHandler(w http.ResponseWriter, r *http.Request) {
	publicID := r.URL.Query().Get("public_id")
	if publicID == "" {
		config.ErrorStatus("public_id is required", http.StatusBadRequest, w, fmt.Errorf("missing public_id"))
		return
	}

	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		config.ErrorStatus("failed to init cloudinary", http.StatusInternalServerError, w, err)
		return
	}

	image, err := cld.Image(publicID)
	if err != nil {
		config.ErrorStatus("failed to resolve file", http.StatusBadRequest, w, err)
		return
	}
	if r.URL.Query().Get("thumb") == "true" {
		image.Transformation = thumbTransformation
	}

	url, err := image.String()
	if err != nil {
		config.ErrorStatus("failed to build file URL", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
