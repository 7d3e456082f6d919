// Package apitest runs an in-memory habit tracker server for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/julianstephens/smarthabit/internal/models"
)

// Server is an in-memory stand-in for the habit tracker service. It accepts
// the single account "ada"/"lovelace" and issues AccessToken on login.
type Server struct {
	mu       sync.Mutex
	users    map[string]string
	habits   []models.Habit
	nextID   int
	today    string
	requests []*http.Request
	bodies   map[string]any

	*httptest.Server
}

// AccessToken is the only bearer token the server accepts.
const AccessToken = "access.jwt.token"

func NewServer(t *testing.T) *Server {
	t.Helper()
	f := &Server{
		users:  map[string]string{"ada": "lovelace"},
		nextID: 1,
		today:  "2025-03-14",
		bodies: map[string]any{},
	}

	r := mux.NewRouter()
	r.Use(f.record)
	api := r.PathPrefix("/api/auth").Subrouter()
	api.HandleFunc("/login/", f.login).Methods(http.MethodPost)
	api.HandleFunc("/register/", f.register).Methods(http.MethodPost)

	habits := api.PathPrefix("/habits").Subrouter()
	habits.Use(f.requireBearer)
	habits.HandleFunc("/", f.listHabits).Methods(http.MethodGet)
	habits.HandleFunc("/", f.createHabit).Methods(http.MethodPost)
	habits.HandleFunc("/{id:[0-9]+}/", f.updateHabit).Methods(http.MethodPut)
	habits.HandleFunc("/{id:[0-9]+}/", f.deleteHabit).Methods(http.MethodDelete)
	habits.HandleFunc("/{id:[0-9]+}/add_log/", f.addLog).Methods(http.MethodPost)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Close)
	return f
}

// Today is the server's notion of the current date, "2025-03-14" unless
// changed with SetToday.
func (f *Server) Today() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.today
}

func (f *Server) SetToday(day string) {
	f.mu.Lock()
	f.today = day
	f.mu.Unlock()
}

func (f *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(r.Context()))
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+AccessToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestCount is the number of requests received so far.
func (f *Server) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// LastRequest returns a copy of the latest request, nil if none.
func (f *Server) LastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// Body returns the last decoded body of a create or update call.
func (f *Server) Body(kind string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[kind]
}

// Seed replaces the stored habits.
func (f *Server) Seed(habits ...models.Habit) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.habits = habits
	for _, h := range habits {
		if h.ID >= f.nextID {
			f.nextID = h.ID + 1
		}
	}
}

// Habits returns a copy of the stored habits.
func (f *Server) Habits() []models.Habit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Habit(nil), f.habits...)
}

func (f *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct{ Username, Password string }
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Username == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"This field may not be blank."}})
		return
	}
	f.mu.Lock()
	pw, ok := f.users[body.Username]
	f.mu.Unlock()
	if !ok || pw != body.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": AccessToken, "refresh": "refresh.jwt.token"})
}

func (f *Server) register(w http.ResponseWriter, r *http.Request) {
	var body struct{ Username, Email, Password string }
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.users[body.Username]; taken {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"Username already taken"}})
		return
	}
	if len(body.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"password": {"Ensure this field has at least 8 characters."}})
		return
	}
	f.users[body.Username] = body.Password
	writeJSON(w, http.StatusCreated, map[string]string{"username": body.Username, "email": body.Email})
}

func (f *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.habits
	if out == nil {
		out = []models.Habit{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var draft models.HabitDraft
	_ = json.NewDecoder(r.Body).Decode(&draft)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies["create"] = draft
	if len(strings.TrimSpace(draft.Name)) < 3 {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"name": {"Habit name must be at least 3 characters."}})
		return
	}
	for _, h := range f.habits {
		if strings.EqualFold(h.Name, draft.Name) {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"You already have a habit with this name."}})
			return
		}
	}
	h := models.Habit{ID: f.nextID, Name: draft.Name, Description: draft.Description, Tag: draft.Tag, Logs: []models.HabitLog{}}
	f.nextID++
	f.habits = append(f.habits, h)
	writeJSON(w, http.StatusCreated, h)
}

func (f *Server) find(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	for i, h := range f.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (f *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	var patch models.HabitPatch
	_ = json.NewDecoder(r.Body).Decode(&patch)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies["update"] = patch
	i := f.find(r)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	if patch.Name != nil {
		f.habits[i].Name = *patch.Name
	}
	if patch.Description != nil {
		f.habits[i].Description = *patch.Description
	}
	if patch.Tag != nil {
		f.habits[i].Tag = *patch.Tag
	}
	writeJSON(w, http.StatusOK, f.habits[i])
}

func (f *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(r)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	f.habits = append(f.habits[:i], f.habits[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (f *Server) addLog(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(r)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	h := &f.habits[i]
	if h.LastCompleted != nil && *h.LastCompleted == f.today {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Habit already logged for today."})
		return
	}
	today := f.today
	h.LastCompleted = &today
	h.Logs = append(h.Logs, models.HabitLog{Date: today})
	h.Streak++
	writeJSON(w, http.StatusOK, map[string]any{"detail": "Habit log added successfully.", "streak": h.Streak})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Static answers every request with the same status and body and returns
// its URL.
func Static(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}
