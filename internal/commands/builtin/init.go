// Package builtin provides the commands available in every cycler shell.
// Each command registers itself with commands.GlobalRegistry from its init
// function, so importing this package for side effects is enough.
package builtin
