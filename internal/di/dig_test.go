package di

import (
	"errors"
	"testing"

	"go.uber.org/dig"

	"github.com/RobertsBrothersCoach/rbc-envops/internal/envs"
)

// Test types for dependency injection
type Store struct {
	Name string
}

type Service struct {
	Store *Store
	Env   envs.Environment
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		env     envs.Environment
		opts    []Option
		wantErr bool
	}{
		{
			name:    "creates container with no providers",
			env:     envs.Development,
			opts:    nil,
			wantErr: false,
		},
		{
			name: "creates container with single provider",
			env:  envs.QA,
			opts: []Option{
				WithProviders(func() *Store {
					return &Store{Name: "test-store"}
				}),
			},
			wantErr: false,
		},
		{
			name: "creates container with dependent providers",
			env:  envs.Production,
			opts: []Option{
				WithProviders(
					func() *Store { return &Store{Name: "prod-store"} },
					func(s *Store, env envs.Environment) *Service {
						return &Service{Store: s, Env: env}
					},
				),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := New(tt.env, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && container == nil {
				t.Fatal("New() returned nil container without error")
			}
		})
	}
}

func TestEnvironmentInjection(t *testing.T) {
	container, err := New(envs.QA)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	var got envs.Environment
	if err := container.Invoke(func(env envs.Environment) { got = env }); err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}
	if got != envs.QA {
		t.Errorf("injected environment = %v, want %v", got, envs.QA)
	}
}

func TestMustGet(t *testing.T) {
	container, err := New(envs.Development,
		WithProviders(
			func() *Store { return &Store{Name: "dev-store"} },
			func(s *Store, env envs.Environment) *Service {
				return &Service{Store: s, Env: env}
			},
		),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	service := MustGet[*Service](container)
	if service.Store.Name != "dev-store" {
		t.Errorf("service.Store.Name = %q, want %q", service.Store.Name, "dev-store")
	}
	if service.Env != envs.Development {
		t.Errorf("service.Env = %v, want %v", service.Env, envs.Development)
	}
}

func TestMustGetPanicsOnMissingDependency(t *testing.T) {
	container, err := New(envs.Development)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustGet should panic when the dependency cannot be resolved")
		}
	}()
	_ = MustGet[*Service](container)
}

func TestInvokeError(t *testing.T) {
	container, err := New(envs.Development,
		WithProviders(func() (*Store, error) {
			return nil, errors.New("store construction failed")
		}),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	invokeErr := container.Invoke(func(s *Store) {}, []dig.InvokeOption{}...)
	if invokeErr == nil {
		t.Error("Invoke should surface provider construction errors")
	}
}
