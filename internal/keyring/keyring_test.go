package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/liftlog/internal/constants"
)

func TestEntryRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	home, gym := Connection(""), Connection("gym")
	if err := home.Set("postgres://lifter@localhost/liftlog"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := gym.Set("host=gym-db dbname=liftlog"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	for _, tt := range []struct {
		e    Entry
		want string
	}{
		{home, "postgres://lifter@localhost/liftlog"},
		{gym, "host=gym-db dbname=liftlog"},
	} {
		got, err := tt.e.Get()
		if err != nil || got != tt.want {
			t.Errorf("%s Get() = %q, %v; want %q", tt.e.Profile(), got, err, tt.want)
		}
	}

	if err := gym.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := gym.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := gym.Delete(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
	if _, err := home.Get(); err != nil {
		t.Errorf("deleting one profile removed another: %v", err)
	}
}

func TestEntrySetBlank(t *testing.T) {
	gokeyring.MockInit()
	if err := Connection("").Set("  "); err == nil {
		t.Error("Set accepted a blank connection string")
	}
}

func TestProfile(t *testing.T) {
	if got := Connection("").Profile(); got != "default" {
		t.Errorf("Profile() = %q", got)
	}
	if got := Connection(" gym ").Profile(); got != "gym" {
		t.Errorf("Profile() = %q", got)
	}
}

func TestAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !Available() {
		t.Error("Available() = false with the mock keyring")
	}
}

func TestAvailableWithError(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus unreachable"))
	defer gokeyring.MockInit()

	if Available() {
		t.Error("Available() = true with a failing keyring")
	}
	if _, err := Connection("").Get(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get() = %v, want ErrKeyringUnavailable", err)
	}
}

func TestResolve(t *testing.T) {
	gokeyring.MockInit()
	entry := Connection("")
	t.Setenv(constants.DBConnectionEnvVariable, "")

	if _, _, err := Resolve("", entry); !errors.Is(err, ErrNoConnectionString) {
		t.Fatalf("Resolve with nothing set = %v, want ErrNoConnectionString", err)
	}

	if err := entry.Set("postgres://from-keyring@localhost/liftlog"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = entry.Delete() })

	tests := []struct {
		name       string
		configured string
		env        string
		want       string
		source     Source
	}{
		{"keyring", "", "", "postgres://from-keyring@localhost/liftlog", SourceKeyring},
		{"env beats keyring", "", "host=env-db dbname=liftlog", "host=env-db dbname=liftlog", SourceEnv},
		{"config beats env", " postgres://configured@db/liftlog ", "host=env-db", "postgres://configured@db/liftlog", SourceConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(constants.DBConnectionEnvVariable, tt.env)
			got, src, err := Resolve(tt.configured, entry)
			if err != nil || got != tt.want || src != tt.source {
				t.Errorf("Resolve = (%q, %q, %v), want (%q, %q)", got, src, err, tt.want, tt.source)
			}
		})
	}
}
