package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnknownTab  = errors.New("unknown tab")
	ErrEmptyToken  = errors.New("empty token")
	ErrNotLoggedIn = errors.New("not logged in")
)

type Tab string

const (
	TabAppointments Tab = "appointments"
	TabClients      Tab = "clients"
	TabEarnings     Tab = "earnings"
)

// DefaultTab is where a fresh or logged-out session lands.
const DefaultTab = TabAppointments

func Tabs() []Tab { return []Tab{TabAppointments, TabClients, TabEarnings} }

func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tabs() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// State is the whole client session. It is a value; transitions return the
// next state and never modify the receiver.
type State struct {
	Token     string `json:"token,omitempty"`
	ActiveTab Tab    `json:"active_tab"`
}

func New() State { return State{ActiveTab: DefaultTab} }

func (s State) LoggedIn() bool { return s.Token != "" }

func (s State) Login(token string) (State, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return s, ErrEmptyToken
	}
	s.Token = token
	if s.ActiveTab == "" {
		s.ActiveTab = DefaultTab
	}
	return s, nil
}

// Logout drops the token and returns to the default tab.
func (s State) Logout() State {
	return New()
}

func (s State) SelectTab(tab Tab) (State, error) {
	if !s.LoggedIn() {
		return s, ErrNotLoggedIn
	}
	if _, err := ParseTab(string(tab)); err != nil {
		return s, err
	}
	s.ActiveTab = tab
	return s, nil
}

// Store persists a State as JSON in a single file.
type Store struct {
	Path string
}

// DefaultPath is $XDG_CONFIG_HOME/imagestyle/session.json or the OS equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "imagestyle", "session.json"), nil
}

// Load returns a fresh state when the file does not exist.
func (st Store) Load() (State, error) {
	raw, err := os.ReadFile(st.Path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read session: %w", err)
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	if _, err := ParseTab(string(s.ActiveTab)); err != nil {
		s.ActiveTab = DefaultTab
	}
	return s, nil
}

func (st Store) Save(s State) error {
	if err := os.MkdirAll(filepath.Dir(st.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(st.Path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
