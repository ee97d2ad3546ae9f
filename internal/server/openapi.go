package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/teckzite/round2/internal/contest"
)

// HealthCheck documents one entry of the /healthz response.
type HealthCheck struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
}

type sessionPath struct {
	ID string `path:"id"`
}

type listSessionsQuery struct {
	Sort string `query:"sort" enum:"score,time"`
}

type op struct {
	method, path, summary, description string
	req                                any
	resp                               any
	status                             int
	errors                             []int
	contentType                        string
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Round 2 API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Session, scoring and anti-cheat API for the Round 2 contest.")

	participant := "Requires a participant Bearer token."
	admin := "Requires an admin Bearer token."

	ops := []op{
		{method: http.MethodGet, path: "/healthz", summary: "Health check",
			description: "Returns the health status of backend dependencies, with 503 when any is down.",
			resp:        map[string]HealthCheck{}, status: http.StatusOK},
		{method: http.MethodPost, path: "/api/auth/login", summary: "Participant login",
			description: "Exchange an ID and phone number for a two-hour token. Disqualified and completed participants are refused.",
			req:         LoginRequest{}, resp: LoginResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden}},
		{method: http.MethodPost, path: "/api/auth/admin/login", summary: "Admin login",
			description: "Exchange a username and password for a four-hour admin token.",
			req:         AdminLoginRequest{}, resp: AdminLoginResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized}},
		{method: http.MethodGet, path: "/api/auth/me", summary: "Own session",
			description: participant, resp: ParticipantView{}, status: http.StatusOK,
			errors: []int{http.StatusUnauthorized, http.StatusForbidden}},
		{method: http.MethodGet, path: "/api/game/status", summary: "Session status",
			description: "Polled every two seconds by the client. " + participant,
			resp:        ParticipantView{}, status: http.StatusOK, errors: []int{http.StatusUnauthorized}},
		{method: http.MethodPost, path: "/api/game/start", summary: "Start round 1",
			description: "Sets the start time once and enters game1. " + participant,
			resp:        ParticipantView{}, status: http.StatusOK, errors: []int{http.StatusUnauthorized, http.StatusConflict}},
		{method: http.MethodPost, path: "/api/game/submit/html", summary: "Submit round 1 answer",
			description: "Records or replaces the answer to one question. " + participant,
			req:         HTMLAnswerRequest{}, resp: AnswerResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusConflict}},
		{method: http.MethodPost, path: "/api/game/finish/game1", summary: "Finish round 1",
			description: "Fixes the round 1 duration and enters game2. " + participant,
			resp:        ParticipantView{}, status: http.StatusOK, errors: []int{http.StatusUnauthorized, http.StatusConflict}},
		{method: http.MethodPost, path: "/api/game/submit/flexbox", summary: "Submit round 2 answer",
			description: "Records or replaces the answer to one level. " + participant,
			req:         FlexboxAnswerRequest{}, resp: AnswerResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusConflict}},
		{method: http.MethodPost, path: "/api/game/finish", summary: "Finish round 2",
			description: "Completes the session. Always succeeds for an authenticated participant. " + participant,
			resp:        ParticipantView{}, status: http.StatusOK, errors: []int{http.StatusUnauthorized}},
		{method: http.MethodPost, path: "/api/game/lock", summary: "Report focus loss",
			description: "Locks an active session. " + participant,
			resp:        ParticipantView{}, status: http.StatusOK, errors: []int{http.StatusUnauthorized}},
		{method: http.MethodPost, path: "/api/game/unlock", summary: "Redeem unlock code",
			description: "Reactivates a locked session with a single-use code. " + participant,
			req:         UnlockRequest{}, resp: UnlockResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusConflict}},
		{method: http.MethodGet, path: "/api/game/events", summary: "Session event stream",
			description: "Server-Sent Events for the caller's session. Pass the token as a query parameter.",
			status:      http.StatusOK, contentType: "text/event-stream"},
		{method: http.MethodGet, path: "/api/admin/sessions", summary: "List sessions",
			description: "Ranked by score (total desc, time asc) or time. " + admin,
			req:         listSessionsQuery{}, resp: []contest.Session{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden}},
		{method: http.MethodPost, path: "/api/admin/sessions", summary: "Create session",
			description: admin, req: CreateSessionRequest{}, resp: contest.Session{}, status: http.StatusCreated,
			errors: []int{http.StatusBadRequest, http.StatusConflict, http.StatusUnauthorized, http.StatusForbidden}},
		{method: http.MethodGet, path: "/api/admin/sessions/{id}", summary: "Get session",
			description: admin, req: sessionPath{}, resp: contest.Session{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusForbidden}},
		{method: http.MethodPost, path: "/api/admin/sessions/{id}/unlock-code", summary: "Generate unlock code",
			description: "Replaces any unused code for the session with a new six-digit code. " + admin,
			req:         sessionPath{}, resp: UnlockCodeResponse{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusForbidden}},
		{method: http.MethodPost, path: "/api/admin/sessions/{id}/unlock", summary: "Unlock session",
			description: admin, req: sessionPath{}, resp: contest.Session{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound, http.StatusConflict, http.StatusUnauthorized, http.StatusForbidden}},
		{method: http.MethodPost, path: "/api/admin/sessions/{id}/disqualify", summary: "Disqualify session",
			description: "Permanent. " + admin, req: sessionPath{}, resp: contest.Session{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusForbidden}},
		{method: http.MethodPost, path: "/api/admin/reset", summary: "Reset contest",
			description: "Deletes every session and unlock code, then loads the optional roster. " + admin,
			req:         ResetRequest{}, resp: ResetResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden}},
		{method: http.MethodGet, path: "/api/admin/live", summary: "Live dashboard feed",
			description: "WebSocket stream of session events. Pass an admin token as a query parameter.",
			status:      http.StatusSwitchingProtocols, contentType: "text/plain", errors: []int{http.StatusUnauthorized}},
	}

	for _, o := range ops {
		oc, _ := r.NewOperationContext(o.method, o.path)
		oc.SetSummary(o.summary)
		oc.SetDescription(o.description)
		if o.req != nil {
			oc.AddReqStructure(o.req)
		}
		if o.contentType != "" {
			oc.AddRespStructure(nil, openapi.WithHTTPStatus(o.status), openapi.WithContentType(o.contentType))
		} else {
			oc.AddRespStructure(o.resp, openapi.WithHTTPStatus(o.status))
		}
		for _, code := range o.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(code))
		}
		_ = r.AddOperation(oc)
	}

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
