package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/gun-locker-api/api"
	"github.com/linesmerrill/gun-locker-api/config"
	"github.com/linesmerrill/gun-locker-api/databases"
	"github.com/linesmerrill/gun-locker-api/models"
	templates "github.com/linesmerrill/gun-locker-api/templates/html"
)

// User exported for testing purposes
type User struct {
	DB  databases.UserDatabase
	RDB databases.PasswordResetDatabase
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserCreateHandler registers a new account
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	errs := map[string]string{}
	if strings.TrimSpace(req.Email) == "" {
		errs["email"] = "cannot be blank"
	}
	if len(req.Password) < 8 {
		errs["password"] = "must be at least 8 characters"
	}
	if len(errs) > 0 {
		config.ValidationErrorStatus("Failed to create record.", w, errs)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// check if the user already exists
	existingUser, _ := u.DB.FindOne(ctx, bson.M{"email": req.Email})
	if existingUser != nil {
		config.ErrorStatus("email already exists", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	id := primitive.NewObjectID()
	now := time.Now().UTC()
	_, err = u.DB.InsertOne(ctx, bson.M{
		"_id":      id,
		"email":    req.Email,
		"name":     req.Name,
		"password": string(hashedPassword),
		"created":  now,
		"updated":  now,
	})
	if err != nil {
		config.ErrorStatus("failed to insert user", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := u.DB.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get created user", http.StatusInternalServerError, w, err)
		return
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UserCheckEmailHandler checks if an email is already registered using POST
func (u User) UserCheckEmailHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req credentialsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	existingUser, _ := u.DB.FindOne(ctx, bson.M{"email": req.Email})
	if existingUser != nil {
		config.ErrorStatus("email already exists", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// UserLoginHandler verifies credentials and issues a signed access token
func (u User) UserLoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req credentialsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	user, err := u.DB.FindOne(ctx, bson.M{"email": req.Email})
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, fmt.Errorf("no matching email found"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, fmt.Errorf("failed to compare password"))
		return
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		config.ErrorStatus("server misconfigured", http.StatusInternalServerError, w, fmt.Errorf("JWT_SECRET not set"))
		return
	}

	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"typ":   "access",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		config.ErrorStatus("token generation failed", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(loginResponse{Token: signed, User: user})
}

// UserHandler returns the caller's own account record
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := actingUser(r)
	if err != nil {
		config.ErrorStatus("failed to resolve acting user", http.StatusUnauthorized, w, err)
		return
	}
	uID, err := pathObjectID(r, "user_id")
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	if uID != user {
		config.ErrorStatus("cannot access another user", http.StatusForbidden, w, fmt.Errorf("user mismatch"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ForgotPasswordHandler sends a password reset email if the account exists.
// Responds identically either way so the endpoint cannot be used to probe for
// registered addresses.
func (u User) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req credentialsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	user, err := u.DB.FindOne(ctx, bson.M{"email": req.Email})
	if err == nil && user != nil {
		token := uuid.New().String()
		now := time.Now().UTC()
		_, err = u.RDB.InsertOne(ctx, bson.M{
			"_id":       primitive.NewObjectID(),
			"userId":    user.ID,
			"tokenHash": hashToken(token),
			"expiresAt": now.Add(time.Hour),
			"createdAt": now,
		})
		if err != nil {
			zap.S().Errorw("failed to store password reset token", "error", err)
		} else if err := sendResetEmail(user.Email, buildResetLink(os.Getenv("BASE_URL"), token)); err != nil {
			zap.S().Errorw("failed to send password reset email", "error", err)
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"response": "if that email is registered, a reset link is on its way"}`))
}

// ResetPasswordHandler consumes a reset token and sets the new password
func (u User) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if len(req.Password) < 8 {
		config.ValidationErrorStatus("Failed to update record.", w, map[string]string{"password": "must be at least 8 characters"})
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	reset, err := u.RDB.FindOne(ctx, bson.M{
		"tokenHash": hashToken(req.Token),
		"usedAt":    nil,
		"expiresAt": bson.M{"$gt": time.Now().UTC()},
	})
	if err != nil {
		config.ErrorStatus("invalid or expired token", http.StatusBadRequest, w, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now().UTC()
	err = u.DB.UpdateOne(ctx, bson.M{"_id": reset.UserID}, bson.M{"$set": bson.M{
		"password": string(hashedPassword),
		"updated":  now,
	}})
	if err != nil {
		config.ErrorStatus("failed to update password", http.StatusInternalServerError, w, err)
		return
	}
	err = u.RDB.UpdateOne(ctx, bson.M{"_id": reset.ID}, bson.M{"$set": bson.M{"usedAt": now}})
	if err != nil {
		zap.S().Errorw("failed to mark reset token used", "error", err)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"response": "password updated"}`))
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func buildResetLink(baseURL, token string) string {
	base := strings.TrimRight(baseURL, "/")
	return base + "/reset-password?token=" + token
}

func sendResetEmail(toEmail, resetLink string) error {
	from := mail.NewEmail("Gun Locker", "no-reply@gunlocker.app")
	subject := "Gun Locker Password Reset"
	to := mail.NewEmail("", toEmail)
	plain := "Reset your password using this link: " + resetLink
	html := templates.RenderGenericEmail(subject, "Reset your password using this link:\n"+resetLink)
	msg := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	_, err := client.Send(msg)
	return err
}
