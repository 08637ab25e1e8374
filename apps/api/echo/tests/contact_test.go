package tests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratosedge/portal/apps/api/echo"
	"github.com/stratosedge/portal/core/contact"
	"github.com/stratosedge/portal/storage/database/inmem"
)

func Test_contactApi_create(t *testing.T) {
	app := setup(t)
	_, token := app.signUp(t, "asha@example.com", "Asha")

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "required fields", token: token, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, contact.NewSubmission{OrgName: "  ", Contact: "hr@acme.in"}),
			wantData: marchallObj(t, httpErr{Error: contact.RequiredText}),
		},
		{
			name: "organization name too long", token: token, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, contact.NewSubmission{OrgName: strings.Repeat("a", 251), Contact: "hr@acme.in"}),
			wantData: marchallObj(t, httpErr{Error: contact.TooLongText}),
		},
		{
			name: "submitted", token: token, wantCode: http.StatusCreated,
			body:     marchallObj(t, contact.NewSubmission{OrgName: " Acme Labs ", Contact: "hr@acme.in"}),
			wantData: marchallObj(t, echoapi.SuccessResponse{Success: contact.SuccessMessage}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/contact"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	subs := app.db.ContactSubmissions()
	require.Len(t, subs, 1)
	assert.Equal(t, "Acme Labs", subs[0].OrgName)
	assert.Equal(t, "hr@acme.in", subs[0].Contact)
	assert.True(t, subs[0].UserEmail.Valid)
	assert.Equal(t, "asha@example.com", subs[0].UserEmail.String)

	sent := app.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, app.conf.TeamEmail.Address, sent[0].To[0].Address)
	require.NotNil(t, sent[0].ReplyTo)
	assert.Equal(t, "asha@example.com", sent[0].ReplyTo.Address)
}

func Test_contactApi_createStoreFailure(t *testing.T) {
	app := setup(t)
	_, token := app.signUp(t, "asha@example.com", "Asha")
	app.db.SetFault(inmemdb.ContactSubmissions, errors.New("contact submissions unavailable"))

	tt := httpTest{wantCode: http.StatusInternalServerError, wantData: marchallObj(t, httpErr{Error: contact.FailureMessage})}
	body := marchallObj(t, contact.NewSubmission{OrgName: "Acme Labs", Contact: "hr@acme.in"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/contact", token, body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	assert.Empty(t, app.db.ContactSubmissions())
	assert.Empty(t, app.mailSvc.SentMessages())
}
