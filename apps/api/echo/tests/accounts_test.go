package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratosedge/portal/apps/api/echo"
	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/profile"
	"github.com/stratosedge/portal/core/session"
	"github.com/stratosedge/portal/storage/database/inmem"
	"github.com/stratosedge/portal/tests"
)

func Test_accountsApi_signup(t *testing.T) {
	app := setup(t)
	testutil.CreateAccount(t, inmemdb.NewAccountRepository(app.db), "taken@example.com", testPassword, "Taken")

	tests := []httpTest{
		{
			name: "terms not accepted", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.SignupRequest{Email: "asha@example.com", Password: testPassword}),
			wantData: marchallObj(t, map[string]string{"acceptTerms": "you must accept the terms and conditions"}),
		},
		{
			name: "display name too long", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.SignupRequest{Email: "asha@example.com", Password: testPassword, DisplayName: strings.Repeat("a", 151), AcceptTerms: true}),
			wantData: marchallObj(t, map[string]string{"displayName": "displayName must be a maximum of 150 characters in length"}),
		},
		{
			name: "invalid email", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.SignupRequest{Email: "asha", Password: testPassword, AcceptTerms: true}),
			wantData: marchallObj(t, authErr{Code: account.CodeInvalidEmail, Error: "Invalid email."}),
		},
		{
			name: "weak password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.SignupRequest{Email: "asha@example.com", Password: "abc", AcceptTerms: true}),
			wantData: marchallObj(t, authErr{Code: account.CodeWeakPassword, Error: "Password should be at least 6 characters."}),
		},
		{
			name: "email in use", wantCode: http.StatusConflict,
			body:     marchallObj(t, echoapi.SignupRequest{Email: "Taken@example.com", Password: testPassword, AcceptTerms: true}),
			wantData: marchallObj(t, authErr{Code: account.CodeEmailInUse, Error: "Email already in use. Try logging in."}),
		},
		{
			name: "signed up", wantCode: http.StatusCreated,
			body: marchallObj(t, echoapi.SignupRequest{Email: " Asha@Example.com ", Password: testPassword, DisplayName: "Asha Rao", AcceptTerms: true}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/accounts/signup"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// nothing was created for the rejected forms
	_, err := app.accounts.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	_, err = app.accounts.GetByEmail(context.Background(), "asha")
	assert.Equal(t, account.ErrNotFound, err)
}

func Test_accountsApi_signupStartsSession(t *testing.T) {
	app := setup(t)

	body := marchallObj(t, echoapi.SignupRequest{Email: "ravi@example.com", Password: testPassword, AcceptTerms: true})
	req, rec := newRequest(http.MethodPost, "/v1/accounts/signup", body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp echoapi.AuthResponse
	unmarshal(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ravi@example.com", resp.Session.Email)
	assert.Equal(t, session.PageProfile, resp.State.View.Page)
	assert.Equal(t, session.ModalNone, resp.State.View.Modal)

	// the profile is seeded in the background
	user := app.waitForUser(t, resp.Session)
	assert.Equal(t, profile.Seed("", "ravi@example.com", nil), *user)

	req, rec = newAuthRequest(http.MethodGet, "/v1/me", resp.Token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var st session.State
	unmarshal(t, rec, &st)
	require.NotNil(t, st.User)
	assert.Equal(t, "ravi", st.User.Name)
}

func Test_accountsApi_login(t *testing.T) {
	app := setup(t)
	testutil.CreateAccount(t, inmemdb.NewAccountRepository(app.db), "asha@example.com", testPassword, "Asha")

	tests := []httpTest{
		{
			name: "invalid email", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.LoginRequest{Email: "lol", Password: testPassword}),
			wantData: marchallObj(t, authErr{Code: account.CodeInvalidEmail, Error: "Invalid email."}),
		},
		{
			name: "unknown account", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.LoginRequest{Email: "ravi@example.com", Password: testPassword}),
			wantData: marchallObj(t, authErr{Code: account.CodeUserNotFound, Error: "No account found. Please create one."}),
		},
		{
			name: "wrong password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.LoginRequest{Email: "asha@example.com", Password: "nope-nope"}),
			wantData: marchallObj(t, authErr{Code: account.CodeWrongPassword, Error: "Incorrect password."}),
		},
		{
			name: "logged in", wantCode: http.StatusOK,
			body: marchallObj(t, echoapi.LoginRequest{Email: "ASHA@example.com", Password: testPassword}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/accounts/login"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_accountsApi_loginTooManyAttempts(t *testing.T) {
	app := setup(t)
	testutil.CreateAccount(t, inmemdb.NewAccountRepository(app.db), "asha@example.com", testPassword, "Asha")
	wrong := marchallObj(t, echoapi.LoginRequest{Email: "asha@example.com", Password: "nope-nope"})

	for i := 0; i < app.conf.Auth.MaxFailedAttempts; i++ {
		req, rec := newRequest(http.MethodPost, "/v1/accounts/login", wrong)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	tt := httpTest{
		wantCode: http.StatusTooManyRequests,
		wantData: marchallObj(t, authErr{Code: account.CodeTooManyRequests, Error: "Too many attempts. Please try again later."}),
	}
	req, rec := newRequest(http.MethodPost, "/v1/accounts/login", marchallObj(t, echoapi.LoginRequest{Email: "asha@example.com", Password: testPassword}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_accountsApi_logout(t *testing.T) {
	app := setup(t)
	sess, token := app.signUp(t, "asha@example.com", "Asha")

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Logged out", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, session.Initial())},
		{name: "Session ended", token: token, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "session has ended"})},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/accounts/logout"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	_, ok := app.bridge.Store().Get(sess.ID)
	assert.False(t, ok)
}

func Test_accountsApi_refreshToken(t *testing.T) {
	app := setup(t)
	sess, token := app.signUp(t, "asha@example.com", "Asha")

	now := time.Now()
	unrefreshableClaims := echoapi.GetSessionClaims(app.conf, sess, now.Add(-2*app.conf.Server.JWTRefreshExpirationDelta).Unix())
	unrefreshableToken, err := echoapi.GenerateToken(app.conf, unrefreshableClaims)
	require.NoError(t, err)

	expiredClaims := echoapi.GetSessionClaims(app.conf, sess)
	expiredClaims.StandardClaims = jwt.StandardClaims{
		Id:        sess.ID,
		Subject:   sess.UID,
		ExpiresAt: now.Add(-time.Minute).Unix(),
		IssuedAt:  now.Add(-time.Hour).Unix(),
	}
	expiredToken, err := echoapi.GenerateToken(app.conf, expiredClaims)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Expired token", token: expiredToken, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"})},
		{name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"})},
		{name: "Token refreshed", token: token, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/accounts/token-refresh"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			// cannot guess new token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				var resp echoapi.TokenResponse
				unmarshal(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}
