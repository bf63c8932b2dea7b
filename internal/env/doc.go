// Package env is the in-process model of the scripting environment that the
// plugin registers into.
//
// Registration is organised in packages. Each package owns a tree of scopes;
// registering an element under a scope yields a child scope for that element,
// so a component's functions and signals hang beneath the component itself.
// The Compiler walks every registered package and checks that the resulting
// environment is consistent before scripts are compiled against it.
//
// Component descriptors are cached by identifier in a DescFactory so that a
// component regenerated on reload picks up the same descriptor, until the
// cache is explicitly reset.
package env
