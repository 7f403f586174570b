package authapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"raggate/cmd/identity"
	"raggate/cmd/internal/auth/credential"
)

// Handler wires HTTP auth endpoints to the identity and credential services.
type Handler struct {
	log *slog.Logger
	cfg Config

	accounts identity.Store
	sessions *credential.Service

	dummyHash string
}

// NewHandler constructs an auth Handler over the given stores.
func NewHandler(log *slog.Logger, cfg Config, accounts identity.Store, sessions *credential.Service) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if accounts == nil {
		return nil, errors.New("auth: nil account store")
	}
	if sessions == nil {
		return nil, errors.New("auth: nil credential service")
	}

	h := &Handler{
		log:      log,
		cfg:      cfg,
		accounts: accounts,
		sessions: sessions,
	}

	// Dummy hash for timing-resistant login checks.
	if hash, err := identity.HashPassword("dummy-password-for-timing-only"); err == nil {
		h.dummyHash = hash
	}

	return h, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/signup", h.handleSignup)
	mux.HandleFunc("/createAdmin", h.handleCreateAdmin)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/logout", h.handleLogout)
	mux.HandleFunc("/getAccessToken", h.handleGetAccessToken)
}

// ---- handlers ----

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req signupRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	if err := identity.ValidateSignup(req.FirstName, req.LastName, req.Email, req.Password); err != nil {
		signupsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	hash, err := identity.HashPassword(req.Password)
	if err != nil {
		h.log.Error("signup: hash password", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	u, err := h.accounts.CreateUser(r.Context(), identity.CreateUserInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        identity.NormalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         identity.RoleUser,
		Now:          time.Now().UTC(),
	})
	if err != nil {
		if identity.IsConflict(err) {
			signupsTotal.WithLabelValues("conflict").Inc()
			writeError(w, http.StatusBadRequest, "email_taken", "an account with this email already exists")
			return
		}
		h.log.Error("signup: create user", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	signupsTotal.WithLabelValues("ok").Inc()
	h.log.Info("user created", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, signupResponse{
		Message: "User created successfully!",
		User:    toUserObj(u),
	})
}

func (h *Handler) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req createAdminRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	if err := identity.ValidateAdminSignup(req.AdminID, req.FirstName, req.LastName, req.Email, req.Password); err != nil {
		signupsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	hash, err := identity.HashPassword(req.Password)
	if err != nil {
		h.log.Error("createAdmin: hash password", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	adminID := req.AdminID
	in := identity.CreateUserInput{
		AdminID:      &adminID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        identity.NormalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         identity.RoleAdmin,
		Now:          time.Now().UTC(),
	}
	if req.Designation != "" {
		designation := req.Designation
		in.Designation = &designation
	}

	u, err := h.accounts.CreateUser(r.Context(), in)
	if err != nil {
		if identity.IsConflict(err) {
			signupsTotal.WithLabelValues("conflict").Inc()
			switch identity.ConflictField(err) {
			case "admin_id":
				writeError(w, http.StatusBadRequest, "admin_id_taken", "this adminId is already registered")
			default:
				writeError(w, http.StatusBadRequest, "email_taken", "an account with this email already exists")
			}
			return
		}
		h.log.Error("createAdmin: create user", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	signupsTotal.WithLabelValues("ok").Inc()
	h.log.Info("admin created", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, signupResponse{
		Message: "Admin created successfully!",
		User:    toUserObj(u),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	u, err := h.verifyLogin(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, credential.ErrInvalidCredentials) {
			loginsTotal.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, "invalid_credentials", "invalid email or password")
			return
		}
		h.log.Error("login: verify credentials", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	issued, err := h.sessions.Login(ctx, now, u.ID, u.Role, req.KeepMeSignedIn)
	if err != nil {
		h.log.Error("login: issue credentials", "err", err, "user_id", u.ID)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	h.setRefreshCookie(w, issued.RefreshToken, issued.RefreshExpiresAt)

	loginsTotal.WithLabelValues("ok").Inc()
	h.log.Info("login", "user_id", u.ID, "remember", req.KeepMeSignedIn)
	writeJSON(w, http.StatusOK, loginResponse{
		Data: toUserObj(u),
		Tokens: tokenPair{
			AccessToken:  issued.AccessToken,
			RefreshToken: issued.RefreshToken,
		},
	})
}

// verifyLogin authenticates an email/password pair. Missing fields, unknown
// email and wrong password all collapse into ErrInvalidCredentials so the
// endpoint does not leak which accounts exist.
func (h *Handler) verifyLogin(ctx context.Context, email, password string) (identity.User, error) {
	if email == "" || password == "" {
		return identity.User{}, credential.ErrInvalidCredentials
	}

	u, err := h.accounts.GetUserAuthByEmail(ctx, email)
	if err != nil {
		if !identity.IsNotFound(err) {
			return identity.User{}, err
		}
		// Burn a comparison against the dummy hash so unknown emails take
		// about as long as wrong passwords.
		if h.dummyHash != "" {
			_, _ = identity.VerifyPassword(password, h.dummyHash)
		}
		return identity.User{}, credential.ErrInvalidCredentials
	}

	ok, err := identity.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return identity.User{}, err
	}
	if !ok {
		return identity.User{}, credential.ErrInvalidCredentials
	}
	return u, nil
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Logout is idempotent: with or without a live credential the cookie is
	// cleared and the client ends up signed out.
	if token, ok := h.refreshTokenFromCookie(r); ok {
		if err := h.sessions.Logout(r.Context(), token); err != nil {
			h.log.Error("logout: revoke credential", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}
	}

	h.clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

func (h *Handler) handleGetAccessToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// An absent body decodes as io.EOF; treat it like an empty request so
	// cookie-only clients still land in the missing-token path.
	var req refreshRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	token := req.RefreshToken
	if token == "" {
		// Fall back to the cookie the login flow set.
		token, _ = h.refreshTokenFromCookie(r)
	}
	if token == "" {
		refreshesTotal.WithLabelValues("missing").Inc()
		writeError(w, http.StatusUnauthorized, "missing_token", "no refresh token provided")
		return
	}

	accessToken, _, err := h.sessions.Refresh(r.Context(), time.Now().UTC(), token)
	if err != nil {
		switch {
		case errors.Is(err, credential.ErrTokenNotFound):
			refreshesTotal.WithLabelValues("unknown").Inc()
			writeError(w, http.StatusForbidden, "unknown_or_revoked_token", "refresh token is not recognized")
		case errors.Is(err, credential.ErrTokenExpired):
			refreshesTotal.WithLabelValues("expired").Inc()
			h.clearRefreshCookie(w)
			writeError(w, http.StatusForbidden, "token_expired", "refresh token has expired, log in again")
		case errors.Is(err, credential.ErrInvalidToken):
			refreshesTotal.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusForbidden, "invalid_token", "refresh token is invalid")
		default:
			h.log.Error("getAccessToken: refresh", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
		}
		return
	}

	refreshesTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: accessToken})
}
