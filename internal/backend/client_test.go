package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("", defaultBaseURL)
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != "localhost:8000" {
		t.Fatalf("host = %q, want localhost:8000", u.Host)
	}

	u, err = parseBaseURL("example.com:1234/path?x=1#frag", defaultBaseURL)
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_LoginSendsFormAndDecodesToken(t *testing.T) {
	t.Parallel()

	var gotContentType string
	var gotForm url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			http.NotFound(w, r)
			return
		}
		gotContentType = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		gotForm = r.PostForm
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	token, err := client.Login(context.Background(), "ash", "pikachu1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("token = %q, want tok-123", token)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("content type = %q, want form encoding", gotContentType)
	}
	if gotForm.Get("username") != "ash" || gotForm.Get("password") != "pikachu1" {
		t.Fatalf("form = %v, want username/password fields", gotForm)
	}
}

func TestClient_RegisterSendsJSON(t *testing.T) {
	t.Parallel()

	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/register" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-456"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	token, err := client.Register(context.Background(), "misty", "misty@cerulean.gym", "starmie")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token != "tok-456" {
		t.Fatalf("token = %q, want tok-456", token)
	}
	want := map[string]string{"username": "misty", "email": "misty@cerulean.gym", "password": "starmie"}
	for k, v := range want {
		if gotBody[k] != v {
			t.Fatalf("body[%s] = %q, want %q", k, gotBody[k], v)
		}
	}
}

func TestClient_BearerCredentialLifecycle(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(User{ID: 7, Username: "ash"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization sent without credential: %q", gotAuth)
	}

	client.SetCredential("tok-789")
	if !client.HasCredential() {
		t.Fatal("HasCredential = false after SetCredential")
	}
	if _, err := client.CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if gotAuth != "Bearer tok-789" {
		t.Fatalf("Authorization = %q, want Bearer tok-789", gotAuth)
	}

	client.ClearCredential()
	if client.HasCredential() {
		t.Fatal("HasCredential = true after ClearCredential")
	}
	if _, err := client.CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q after ClearCredential, want empty", gotAuth)
	}
}

func TestClient_TeamCRUD(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	var gotCreate TeamCreate

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/teams/":
			_ = json.NewEncoder(w).Encode([]Team{{ID: 1, Name: "Kanto", OwnerID: 7}})
		case r.Method == http.MethodPost && r.URL.Path == "/teams/":
			_ = json.NewDecoder(r.Body).Decode(&gotCreate)
			_ = json.NewEncoder(w).Encode(Team{ID: 2, Name: gotCreate.Name, OwnerID: 7, Pokemon: gotCreate.Pokemon})
		case r.Method == http.MethodGet && r.URL.Path == "/teams/2":
			_ = json.NewEncoder(w).Encode(Team{ID: 2, Name: "Johto", OwnerID: 7})
		case r.Method == http.MethodPut && r.URL.Path == "/teams/2":
			_ = json.NewDecoder(r.Body).Decode(&gotCreate)
			_ = json.NewEncoder(w).Encode(Team{ID: 2, Name: gotCreate.Name, OwnerID: 7})
		case r.Method == http.MethodDelete && r.URL.Path == "/teams/2":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()

	teams, err := client.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	if len(teams) != 1 || teams[0].Name != "Kanto" {
		t.Fatalf("teams = %#v, want one team named Kanto", teams)
	}

	created, err := client.CreateTeam(ctx, TeamCreate{
		Name:    "Johto",
		Pokemon: []TeamMember{{Name: "cyndaquil"}},
	})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	if created.ID != 2 || created.OwnerID != 7 {
		t.Fatalf("created = %#v, want server-assigned id and owner", created)
	}
	if len(gotCreate.Pokemon) != 1 || gotCreate.Pokemon[0].Name != "cyndaquil" {
		t.Fatalf("create body = %#v", gotCreate)
	}

	if _, err := client.GetTeam(ctx, 2); err != nil {
		t.Fatalf("GetTeam: %v", err)
	}

	if _, err := client.UpdateTeam(ctx, 2, TeamCreate{Name: "Johto v2"}); err != nil {
		t.Fatalf("UpdateTeam: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("method = %q, want PUT", gotMethod)
	}

	if err := client.DeleteTeam(ctx, 2); err != nil {
		t.Fatalf("DeleteTeam: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/teams/2" {
		t.Fatalf("last request = %s %s, want DELETE /teams/2", gotMethod, gotPath)
	}
}

func TestClient_UnauthorizedMapsToErrUnauthorized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.CurrentUser(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	_, err = client.Login(context.Background(), "ash", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("login err = %v, want ErrUnauthorized", err)
	}
}
