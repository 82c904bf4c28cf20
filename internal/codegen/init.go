package codegen

import (
	"github.com/okra-platform/astgen/internal/codegen/cpp"
	"github.com/okra-platform/astgen/internal/codegen/pyext"
)

// DefaultRegistry is the global registry instance with pre-registered generators
var DefaultRegistry = NewRegistry()

func init() {
	// Register C++ generator
	DefaultRegistry.Register("cpp", func(opts Options) Generator {
		return cpp.NewGenerator(opts.Namespace)
	})

	// Register c++ as an alias for cpp
	DefaultRegistry.Register("c++", func(opts Options) Generator {
		return cpp.NewGenerator(opts.Namespace)
	})

	// Register Cython binding generator
	DefaultRegistry.Register("pyext", func(opts Options) Generator {
		return pyext.NewGenerator(opts.Namespace, opts.Module)
	})

	// Register cython as an alias for pyext
	DefaultRegistry.Register("cython", func(opts Options) Generator {
		return pyext.NewGenerator(opts.Namespace, opts.Module)
	})
}
