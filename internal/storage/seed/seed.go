// Package seed loads development fixtures (accounts, managers and stadiums)
// into a storage backend from a YAML file.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/storage"
)

// Fixture is the on-disk seed format
//
//	stadiums:
//	  - id: s1
//	    name: Court A
//	managers:
//	  - uid: u1
//	    name: Alice
//	    stadiumID: s1
//	accounts:
//	  - uid: u1
//	    email: alice@example.com
//	    password: secret123
type Fixture struct {
	Stadiums []StadiumFixture `yaml:"stadiums"`
	Managers []ManagerFixture `yaml:"managers"`
	Accounts []AccountFixture `yaml:"accounts"`
}

type StadiumFixture struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type ManagerFixture struct {
	UID       string `yaml:"uid"`
	Name      string `yaml:"name"`
	StadiumID string `yaml:"stadiumID"`
}

type AccountFixture struct {
	UID      string `yaml:"uid"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Parse decodes a fixture and checks required fields
func Parse(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	for i, st := range f.Stadiums {
		if st.ID == "" {
			return nil, fmt.Errorf("stadium %d: id is required", i)
		}
	}
	for i, m := range f.Managers {
		if m.UID == "" {
			return nil, fmt.Errorf("manager %d: uid is required", i)
		}
	}
	for i, a := range f.Accounts {
		if a.UID == "" || a.Email == "" || a.Password == "" {
			return nil, fmt.Errorf("account %d: uid, email and password are required", i)
		}
	}
	return &f, nil
}

// LoadFile parses the fixture at path and applies it
func LoadFile(ctx context.Context, path string, store storage.Storage, now time.Time) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	f, err := Parse(file)
	if err != nil {
		return nil, err
	}
	if err := Apply(ctx, f, store, now); err != nil {
		return nil, err
	}
	return f, nil
}

// Apply writes every fixture entry to the store, overwriting existing records
func Apply(ctx context.Context, f *Fixture, store storage.Storage, now time.Time) error {
	for _, st := range f.Stadiums {
		if err := store.SaveStadium(ctx, &model.Stadium{ID: model.StadiumID(st.ID), Name: st.Name}); err != nil {
			return fmt.Errorf("seed stadium %s: %w", st.ID, err)
		}
	}

	for _, m := range f.Managers {
		manager := &model.Manager{
			UID:       model.UserID(m.UID),
			Name:      m.Name,
			StadiumID: model.StadiumID(m.StadiumID),
		}
		if err := store.SaveManager(ctx, manager); err != nil {
			return fmt.Errorf("seed manager %s: %w", m.UID, err)
		}
	}

	for _, a := range f.Accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		account := &model.Account{
			UID:          model.UserID(a.UID),
			Email:        strings.ToLower(strings.TrimSpace(a.Email)),
			PasswordHash: string(hash),
			Provider:     model.ProviderPassword,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := store.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("seed account %s: %w", a.UID, err)
		}
	}

	return nil
}
