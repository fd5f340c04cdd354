package http_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/plateful/plateful/internal/domain"
)

func Test_Signup_Login_CheckAuth(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	// signup
	w := env.do("POST", "/api/v1/user/signup",
		`{"fullname":"Alice","email":"alice@x.com","password":"secret1","contact":"5551112222"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: %d %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	user, _ := body["user"].(map[string]any)
	if user == nil {
		t.Fatalf("no user in response: %s", w.Body.String())
	}
	if v, _ := user["is_verified"].(bool); v {
		t.Fatal("fresh signup must be unverified")
	}
	vt, _ := body["verify_token_dev"].(string)
	if len(vt) != 6 {
		t.Fatalf("want 6-char verification code in dev response, got %q", vt)
	}
	if strings.Contains(w.Body.String(), "secret1") || strings.Contains(w.Body.String(), "password_hash") {
		t.Fatalf("password material leaked: %s", w.Body.String())
	}
	sessionCookieOf(t, w)

	// the stored hash must not equal the plaintext
	stored, err := env.Store.FindUserByEmail(env.Ctx, "alice@x.com")
	if err != nil || stored == nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.PasswordHash == "secret1" {
		t.Fatal("password stored in plaintext")
	}
	if stored.Verification == nil || time.Until(stored.Verification.ExpiresAt) < 23*time.Hour {
		t.Fatalf("verification grant missing or expiry not ~24h: %+v", stored.Verification)
	}

	// duplicate email conflicts and leaves the record alone
	w = env.do("POST", "/api/v1/user/signup",
		`{"fullname":"Mallory","email":"alice@x.com","password":"other99","contact":"5550000000"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: %d %s", w.Code, w.Body.String())
	}
	again, _ := env.Store.FindUserByEmail(env.Ctx, "alice@x.com")
	if again.FullName != "Alice" || again.PasswordHash != stored.PasswordHash {
		t.Fatal("duplicate signup mutated the existing record")
	}

	// unknown email and wrong password must be indistinguishable
	w1 := env.do("POST", "/api/v1/user/login", `{"email":"alice@x.com","password":"wrong"}`, nil)
	w2 := env.do("POST", "/api/v1/user/login", `{"email":"nobody@x.com","password":"wrong"}`, nil)
	if w1.Code != http.StatusBadRequest || w2.Code != http.StatusBadRequest {
		t.Fatalf("bad logins: %d / %d", w1.Code, w2.Code)
	}
	if w1.Body.String() != w2.Body.String() {
		t.Fatalf("login errors leak account existence: %q vs %q", w1.Body.String(), w2.Body.String())
	}

	// correct login
	w = env.do("POST", "/api/v1/user/login", `{"email":"alice@x.com","password":"secret1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	ck := sessionCookieOf(t, w)

	logged, _ := env.Store.FindUserByEmail(env.Ctx, "alice@x.com")
	if logged.LastLogin.IsZero() {
		t.Fatal("last_login not recorded")
	}

	// check-auth with the cookie
	w = env.do("GET", "/api/v1/user/check-auth", "", []*http.Cookie{ck})
	if w.Code != http.StatusOK {
		t.Fatalf("check-auth: %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password_hash") {
		t.Fatal("check-auth leaked password hash")
	}
}

func Test_VerifyEmail(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	w := env.do("POST", "/api/v1/user/signup",
		`{"fullname":"Bob","email":"bob@x.com","password":"secret1","contact":"5551110000"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: %d %s", w.Code, w.Body.String())
	}
	code, _ := decodeBody(t, w)["verify_token_dev"].(string)

	// wrong code
	w = env.do("POST", "/api/v1/user/verify-email", `{"verification_code":"zzzzzz"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("wrong code: %d %s", w.Code, w.Body.String())
	}

	// right code
	w = env.do("POST", "/api/v1/user/verify-email", `{"verification_code":"`+code+`"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", w.Code, w.Body.String())
	}
	u, _ := env.Store.FindUserByEmail(env.Ctx, "bob@x.com")
	if !u.Verified || u.Verification != nil {
		t.Fatalf("verify did not flip state / clear grant: %+v", u)
	}

	// the grant is single-use
	w = env.do("POST", "/api/v1/user/verify-email", `{"verification_code":"`+code+`"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("reused code must fail: %d %s", w.Code, w.Body.String())
	}
}

func Test_VerifyEmail_Expired(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	// seed a user whose code expired an hour ago; the string still matches
	u := &domain.User{
		Email:        "stale@x.com",
		PasswordHash: "x",
		FullName:     "Stale",
		Verification: &domain.TokenGrant{
			Token:     "AbC123",
			ExpiresAt: time.Now().UTC().Add(-time.Hour),
		},
	}
	if err := env.Store.CreateUser(env.Ctx, u); err != nil {
		t.Fatal(err)
	}

	w := env.do("POST", "/api/v1/user/verify-email", `{"verification_code":"AbC123"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expired code must fail even when it matches: %d %s", w.Code, w.Body.String())
	}
}

func Test_ForgotPassword_ResetPassword(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	env.signupAndLogin("carol@x.com", "secret1")

	// unknown account
	w := env.do("POST", "/api/v1/user/forgot-password", `{"email":"ghost@x.com"}`, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown email: %d %s", w.Code, w.Body.String())
	}

	w = env.do("POST", "/api/v1/user/forgot-password", `{"email":"carol@x.com"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("forgot: %d %s", w.Code, w.Body.String())
	}
	token, _ := decodeBody(t, w)["reset_token_dev"].(string)
	if len(token) != 80 {
		t.Fatalf("want 80-char hex reset token, got %q", token)
	}

	// consume the token
	w = env.do("POST", "/api/v1/user/reset-password/"+token, `{"new_password":"newpass1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset: %d %s", w.Code, w.Body.String())
	}

	// second use must fail: the grant is cleared
	w = env.do("POST", "/api/v1/user/reset-password/"+token, `{"new_password":"again123"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("reused reset token must fail: %d %s", w.Code, w.Body.String())
	}

	// old password gone, new one works
	w = env.do("POST", "/api/v1/user/login", `{"email":"carol@x.com","password":"secret1"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("old password still valid: %d", w.Code)
	}
	w = env.do("POST", "/api/v1/user/login", `{"email":"carol@x.com","password":"newpass1"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login after reset: %d %s", w.Code, w.Body.String())
	}
}

func Test_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	ck := env.signupAndLogin("dave@x.com", "secret1")

	w := env.do("PUT", "/api/v1/user/profile/update",
		`{"fullname":"Dave Grohl","city":"Seattle"}`, []*http.Cookie{ck})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	u, _ := env.Store.FindUserByEmail(env.Ctx, "dave@x.com")
	if u.FullName != "Dave Grohl" || u.City != "Seattle" {
		t.Fatalf("fields not applied: %+v", u)
	}

	// picture upload fails (media disabled) and nothing is applied
	w = env.do("PUT", "/api/v1/user/profile/update",
		`{"fullname":"Changed","profile_picture":"data:image/png;base64,AAAA"}`, []*http.Cookie{ck})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("upload failure must abort the update: %d %s", w.Code, w.Body.String())
	}
	u, _ = env.Store.FindUserByEmail(env.Ctx, "dave@x.com")
	if u.FullName != "Dave Grohl" {
		t.Fatal("field update applied despite upload failure")
	}
}

func Test_Logout(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	w := env.do("POST", "/api/v1/user/logout", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: %d %s", w.Code, w.Body.String())
	}
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "token" && ck.MaxAge >= 0 {
			t.Fatalf("logout did not clear the cookie: %+v", ck)
		}
	}
}
