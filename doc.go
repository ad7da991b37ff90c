// Package properties implements the layered runtime configuration engine for
// the stratoctl command-line tools. Every tunable setting is a Property keyed
// by (section, name), grouped into Sections and owned by a single Registry.
//
// A property's effective value is resolved on every read, in strict order:
//
//  1. Invocation stack (per-command overrides, typically flag-supplied)
//  2. Environment variable (STRATO_{SECTION}_{NAME})
//  3. Persisted store (active profile over installation defaults)
//  4. Callbacks, in registration order
//  5. Static default
//
// Resolution never caches: the value returned is a pure function of the
// invocation stack, the process environment, the store, and the registered
// callbacks at the moment of the call.
//
// Quick Start:
//
//	reg := properties.NewRegistry(properties.WithStore(st))
//
//	project, ok, err := reg.Core.Project.Get()
//	zone, err := reg.Compute.Zone.Require()
//
// Command dispatchers wrap each command body in an invocation frame so that
// flag values override everything else for the duration of that command:
//
//	err := reg.WithInvocation(func() error {
//	    reg.SetInvocationValue(reg.Compute.Zone, "us-east1-b", "--zone")
//	    return runCommand(reg)
//	})
//
// Thread Safety:
// All Registry operations are safe for concurrent use. The invocation stack
// remains one logical stack per Registry; the expected execution model is a
// single active command at a time.
package properties
