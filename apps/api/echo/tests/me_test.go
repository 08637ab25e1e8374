package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratosedge/portal/apps/api/echo"
	"github.com/stratosedge/portal/core/profile"
	"github.com/stratosedge/portal/core/session"
	"github.com/stratosedge/portal/storage/database/inmem"
)

func Test_meApi_saveProfile(t *testing.T) {
	app := setup(t)
	sess, token := app.signUp(t, "asha@example.com", "Asha")

	invalid := completeUpdate()
	invalid.WhatsappNumber = "98765"
	invalid.Status = "Astronaut"
	invalid.TenthMarks = "101"
	invalid.DOB = "12/04/2001"

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "required fields", token: token, wantCode: http.StatusBadRequest,
			body: marchallObj(t, profile.Update{}),
			wantData: marchallObj(t, map[string]string{
				"firstName":       "this field is required",
				"lastName":        "this field is required",
				"dob":             "this field is required",
				"whatsappNumber":  "this field is required",
				"status":          "this field is required",
				"schoolOrCompany": "this field is required",
				"tenthMarks":      "this field is required",
				"tenthSchool":     "this field is required",
				"twelfthMarks":    "this field is required",
				"twelfthSchool":   "this field is required",
			}),
		},
		{
			name: "invalid fields", token: token, wantCode: http.StatusBadRequest,
			body: marchallObj(t, invalid),
			wantData: marchallObj(t, map[string]string{
				"dob":            "date must be formatted as YYYY-MM-DD",
				"whatsappNumber": "please enter a 10-digit phone number",
				"status":         "invalid status",
				"tenthMarks":     "marks must be a number between 0 and 100",
			}),
		},
		{name: "saved", token: token, wantCode: http.StatusOK, body: marchallObj(t, completeUpdate())},
	}
	for _, tt := range tests {
		tt.method = http.MethodPut
		tt.path = "/v1/me/profile"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// saved remotely with the session email
	stored, err := app.profiles.Get(context.Background(), sess.UID)
	require.NoError(t, err)
	assert.True(t, profile.IsComplete(&stored))
	assert.Equal(t, "asha@example.com", stored.Email)
	assert.Equal(t, "Asha", stored.Name)
	assert.Equal(t, []int{}, stored.AppliedCourses)
}

func Test_meApi_saveProfileRemoteFailure(t *testing.T) {
	app := setup(t)
	sess, token := app.signUp(t, "asha@example.com", "Asha")
	app.db.SetFault(inmemdb.Users, errors.New("users unavailable"))

	req, rec := newAuthRequest(http.MethodPut, "/v1/me/profile", token, marchallObj(t, completeUpdate()))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// the local edit stays
	var st session.State
	unmarshal(t, rec, &st)
	require.NotNil(t, st.User)
	assert.Equal(t, "Rao", st.User.LastName)
	assert.True(t, profile.IsComplete(app.bridge.State(sess).User))

	app.db.SetFault(inmemdb.Users, nil)
	_, err := app.profiles.Get(context.Background(), sess.UID)
	assert.Equal(t, profile.ErrNotFound, err)
}

func Test_meApi_refreshProfile(t *testing.T) {
	app := setup(t)
	sess, token := app.signUp(t, "asha@example.com", "Asha")

	// edited elsewhere
	stored := profile.Seed("Asha Rao", "other@example.com", nil)
	stored.FirstName = "Asha"
	require.NoError(t, app.profiles.Save(context.Background(), sess.UID, stored))

	req, rec := newAuthRequest(http.MethodPost, "/v1/me/profile/refresh", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var st session.State
	unmarshal(t, rec, &st)
	require.NotNil(t, st.User)
	assert.Equal(t, "Asha Rao", st.User.Name)
	assert.Equal(t, "Asha", st.User.FirstName)
	assert.Equal(t, "asha@example.com", st.User.Email)
	assert.Equal(t, []int{}, st.User.AppliedCourses)
}

func Test_meApi_updateView(t *testing.T) {
	app := setup(t)
	_, token := app.signUp(t, "asha@example.com", "Asha")

	courseID := 3
	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "action required", token: token, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.ViewRequest{}),
			wantData: marchallObj(t, map[string]string{"action": "this field is required"}),
		},
		{
			name: "invalid page", token: token, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.ViewRequest{Action: "navigate", Page: "Careers"}),
			wantData: marchallObj(t, map[string]string{"page": "invalid page"}),
		},
		{
			name: "invalid course", token: token, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, echoapi.ViewRequest{Action: "select_course", CourseID: 999}),
			wantData: marchallObj(t, map[string]string{"courseId": "invalid course"}),
		},
		{
			name: "select course", token: token, wantCode: http.StatusOK,
			body:  marchallObj(t, echoapi.ViewRequest{Action: "select_course", CourseID: courseID}),
			extra: session.View{Page: session.PageHome, SelectedCourse: &courseID},
		},
		{
			name: "navigate drops the selection", token: token, wantCode: http.StatusOK,
			body:  marchallObj(t, echoapi.ViewRequest{Action: "navigate", Page: session.PagePrograms}),
			extra: session.View{Page: session.PagePrograms},
		},
		{
			name: "open login", token: token, wantCode: http.StatusOK,
			body:  marchallObj(t, echoapi.ViewRequest{Action: "open_login"}),
			extra: session.View{Page: session.PagePrograms, Modal: session.ModalLogin},
		},
		{
			name: "close modal", token: token, wantCode: http.StatusOK,
			body:  marchallObj(t, echoapi.ViewRequest{Action: "close_modal"}),
			extra: session.View{Page: session.PagePrograms},
		},
		{
			name: "go to profile", token: token, wantCode: http.StatusOK,
			body:  marchallObj(t, echoapi.ViewRequest{Action: "go_to_profile"}),
			extra: session.View{Page: session.PageProfile},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPut
		tt.path = "/v1/me/view"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if view, ok := tt.extra.(session.View); ok {
				var st session.State
				unmarshal(t, rec, &st)
				assert.Equal(t, view, st.View)
			}
		})
	}
}
