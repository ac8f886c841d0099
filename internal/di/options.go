package di

type ScalingProfilePath string

// Option is a function that configures the dependency injection container.
type Option func(*options)

// WithScalingProfile points the container at a YAML scaling-profile file
// instead of the compiled-in defaults.
func WithScalingProfile(path string) Option {
	return func(opts *options) {
		opts.profilePath = ScalingProfilePath(path)
	}
}

// WithProviders adds constructor functions to the dependency injection container.
// Each provider should be a constructor function that returns one or more values.
// Providers can declare dependencies as function parameters, which will be
// automatically resolved by the container.
//
// Example:
//
//	WithProviders(
//	    func() *Store { return &Store{} },
//	    func(s *Store) *Service { return &Service{Store: s} },
//	)
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	profilePath ScalingProfilePath
	providers   []any
}
