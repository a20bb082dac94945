package cli

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"poligrama.dev/backend/internal/app"
	"poligrama.dev/backend/internal/app/appcontext"
	"poligrama.dev/backend/internal/util/i18n"
	"poligrama.dev/backend/internal/util/rekuest"
)

// Start builds and starts the CLI graph with module. The returned func stops
// it and must be called once the command is done.
func Start(module fx.Option) (func(), error) {
	a := app.New(appcontext.Declare(appcontext.EnvCLI), module)
	if err := a.Start(context.Background()); err != nil {
		return nil, err
	}
	return func() {
		_ = a.Stop(context.Background())
	}, nil
}

// Deps populates T from the CLI graph.
func Deps[T any]() (T, func(), error) {
	var deps T
	stop, err := Start(fx.Populate(&deps))
	return deps, stop, err
}

// ReadYAML decodes and validates the YAML document at path into dest.
func ReadYAML(path string, dest any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	if err := yaml.Unmarshal(b, dest); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}
	return rekuest.Struct(i18n.UT.GetFallback(), dest)
}
