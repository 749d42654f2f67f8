package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wadjakorntonsri/go-portfolio/pkg/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	sessionTTL  = 24 * time.Hour
	userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// AuthHandler signs the site owner into the admin area with Google.
type AuthHandler struct {
	oauthConfig   *oauth2.Config
	userInfoURL   string
	jwtSecret     []byte
	frontendURL   string
	allowedEmails []string
	isProduction  bool
	logger        *zap.Logger
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewAuthHandler(cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL:   userInfoURL,
		jwtSecret:     []byte(cfg.JWTSecret),
		frontendURL:   cfg.FrontendURL,
		allowedEmails: cfg.AllowedEmails,
		isProduction:  cfg.IsProduction(),
		logger:        logger,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := h.generateStateOauthCookie(w)
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	oauthState, err := r.Cookie("oauthstate")
	if err != nil {
		h.logger.Warn("callback without oauthstate cookie", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}
	if r.FormValue("state") != oauthState.Value {
		h.logger.Warn("invalid oauth state")
		http.Error(w, "invalid oauth google state", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(ctx, r.FormValue("code"))
	if err != nil {
		h.logger.Error("code exchange failed", zap.Error(err))
		http.Error(w, "code exchange failed", http.StatusInternalServerError)
		return
	}

	user, err := h.fetchUser(r, token)
	if err != nil {
		h.logger.Error("failed getting user info", zap.Error(err))
		http.Error(w, "failed getting user info", http.StatusInternalServerError)
		return
	}

	if !h.allowed(user.Email) {
		h.logger.Warn("email not in allowlist", zap.String("email", user.Email))
		http.Error(w, "Access denied: your email is not in the allowlist", http.StatusForbidden)
		return
	}

	tokenString, expires, err := h.issueToken(user.Email, time.Now())
	if err != nil {
		h.logger.Error("failed signing JWT", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.cookie("auth_token", tokenString, expires))
	h.logger.Info("login successful", zap.String("email", user.Email))
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

// allowed checks the email against ALLOWED_EMAILS. An empty list admits any
// account locally and none in production.
func (h *AuthHandler) allowed(email string) bool {
	if len(h.allowedEmails) == 0 {
		return !h.isProduction
	}
	return slices.Contains(h.allowedEmails, email)
}

func (h *AuthHandler) fetchUser(r *http.Request, token *oauth2.Token) (*GoogleUser, error) {
	client := h.oauthConfig.Client(r.Context(), token)
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// issueToken signs a session JWT whose subject is the admin email.
func (h *AuthHandler) issueToken(email string, now time.Time) (string, time.Time, error) {
	expires := now.Add(sessionTTL)
	claims := &jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	return signed, expires, err
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie("auth_token", "", time.Now().Add(-time.Hour)))
	http.Redirect(w, r, h.frontendURL+"/login", http.StatusTemporaryRedirect)
}

// Me reports the signed-in admin.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"email": UserEmail(r.Context())})
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, h.cookie("oauthstate", state, time.Now().Add(20*time.Minute)))
	return state
}
