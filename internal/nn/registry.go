package nn

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Factory builds a layer from the arguments of a layer spec.
//
// For the spec "dense:20" the factory registered under "dense" receives
// []string{"20"}.
type Factory func(args []string) (Layer, error)

var registry = struct {
	sync.RWMutex
	factories map[string]Factory
}{factories: map[string]Factory{}}

func init() {
	activations := map[string]func() *Elementwise{
		"tanh":     Tanh,
		"elu":      Elu,
		"logistic": Logistic,
		"sigmoid":  Logistic,
		"relu":     Relu,
		"softplus": Softplus,
	}
	for name, ctor := range activations {
		mustRegister(name, noArgs(name, ctor))
	}
	mustRegister("dense", denseFactory)
}

// Register adds a layer factory under name.
//
// Names are case-insensitive. Returns ErrDuplicateLayer if the name is taken.
func Register(name string, factory Factory) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || strings.ContainsAny(key, ":,") {
		return fmt.Errorf("%w: bad layer name %q", ErrLayerSpec, name)
	}

	registry.Lock()
	defer registry.Unlock()
	if _, ok := registry.factories[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLayer, key)
	}
	registry.factories[key] = factory
	return nil
}

// Registered returns the sorted names of all registered layers.
func Registered() []string {
	registry.RLock()
	defer registry.RUnlock()

	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates a layer from a spec of the form "name[:arg[,arg...]]".
//
// Example:
//
//	layer, err := nn.Build("dense:20")
func Build(spec string) (Layer, error) {
	name, rest, hasArgs := strings.Cut(strings.TrimSpace(spec), ":")
	name = strings.ToLower(strings.TrimSpace(name))

	var args []string
	if hasArgs {
		for _, a := range strings.Split(rest, ",") {
			args = append(args, strings.TrimSpace(a))
		}
	}

	registry.RLock()
	factory, ok := registry.factories[name]
	registry.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	return factory(args)
}

// BuildSerial builds a Serial from a list of layer specs.
func BuildSerial(specs []string) (*Serial, error) {
	layers := make([]Layer, len(specs))
	for i, spec := range specs {
		layer, err := Build(spec)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers[i] = layer
	}
	return NewSerial(layers...), nil
}

func mustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}

func noArgs(name string, ctor func() *Elementwise) Factory {
	return func(args []string) (Layer, error) {
		if len(args) != 0 {
			return nil, fmt.Errorf("%w: %s takes no arguments, got %v", ErrLayerSpec, name, args)
		}
		return ctor(), nil
	}
}

func denseFactory(args []string) (Layer, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: dense takes exactly one width argument, got %v", ErrLayerSpec, args)
	}
	width, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: dense width %q: %v", ErrLayerSpec, args[0], err)
	}
	if width <= 0 {
		return nil, fmt.Errorf("%w: dense width must be positive, got %d", ErrLayerSpec, width)
	}
	return NewDense(width), nil
}
