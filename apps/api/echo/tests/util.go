package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratosedge/portal/apps/api/echo"
	"github.com/stratosedge/portal/core"
	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/contact"
	"github.com/stratosedge/portal/core/profile"
	"github.com/stratosedge/portal/core/salary"
	"github.com/stratosedge/portal/core/session"
	"github.com/stratosedge/portal/services/email"
	"github.com/stratosedge/portal/storage/database/inmem"
	"github.com/stratosedge/portal/tests"
)

const testPassword = "Tr0ub4dor&3"

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	echoapi.Server
	conf     *core.Config
	db       *inmemdb.DB
	mailSvc  *emailsvc.ConsoleServiceMock
	accounts *account.Service
	profiles *profile.Service
	apps     *application.Service
	bridge   *session.Bridge
}

func setup(t *testing.T) *testApp {
	conf := testutil.Config()
	logger := testutil.NewLogger(conf)
	core.ParseEmailTemplates(conf, logger)
	validate, translator := testutil.Validator()

	// set up DB & services
	db := inmemdb.NewDB()
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	accSvc := account.NewService(inmemdb.NewAccountRepository(db), conf)
	profileSvc := profile.NewService(inmemdb.NewProfileRepository(db))
	appSvc := application.NewService(inmemdb.NewApplicationRepository(db), mailSvc)
	contactSvc := contact.NewService(inmemdb.NewContactRepository(db), mailSvc, conf)

	bridge := session.NewBridge(accSvc, profileSvc, appSvc, session.NewStore(conf.Submission.AutoCloseDelay), logger)
	bridge.Start()
	t.Cleanup(bridge.Close)

	// set up server
	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		AccountSvc: accSvc,
		ContactSvc: contactSvc,
		Estimator:  salary.NewEstimator(conf.Salary.Delay),
		Bridge:     bridge,
		Validate:   validate,
		Translator: translator,
	})

	return &testApp{
		Server:   server,
		conf:     conf,
		db:       db,
		mailSvc:  mailSvc,
		accounts: accSvc,
		profiles: profileSvc,
		apps:     appSvc,
		bridge:   bridge,
	}
}

// signUp creates a signed-in account and waits for its profile to be loaded.
func (app *testApp) signUp(t *testing.T, email, name string) (account.Session, string) {
	sess, err := app.accounts.SignUp(context.Background(), account.NewAccount{Email: email, Password: testPassword, DisplayName: name})
	require.NoError(t, err)
	app.waitForUser(t, sess)
	return sess, getToken(t, app.conf, sess)
}

func (app *testApp) waitForUser(t *testing.T, sess account.Session) *profile.Profile {
	var user *profile.Profile
	require.Eventually(t, func() bool {
		user = app.bridge.State(sess).User
		return user != nil
	}, time.Second, 5*time.Millisecond)
	return user
}

// completeProfile saves a complete profile through the API.
func (app *testApp) completeProfile(t *testing.T, token string) {
	req, rec := newAuthRequest(http.MethodPut, "/v1/me/profile", token, marchallObj(t, completeUpdate()))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func completeUpdate() profile.Update {
	return profile.Update{
		FirstName:       "Asha",
		LastName:        "Rao",
		DOB:             "2001-04-12",
		WhatsappNumber:  "9876543210",
		Status:          profile.StatusGraduate,
		SchoolOrCompany: "IIT Madras",
		TenthMarks:      "91",
		TenthSchool:     "DPS Chennai",
		TwelfthMarks:    "88.5",
		TwelfthSchool:   "DPS Chennai",
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type authErr struct {
	Code  account.Code `json:"code"`
	Error string       `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, sess account.Session) string {
	token, err := echoapi.GenerateToken(conf, echoapi.GetSessionClaims(conf, sess))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
