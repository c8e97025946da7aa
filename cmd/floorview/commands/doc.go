// Package commands defines the floorview CLI.
//
// Commands
//
//   - view      Open a plan in the interactive 3D viewport
//   - export    Write a plan's 3D scene as glTF without opening a window
//   - config    Write the default viewer options file
//
// A plan argument is a JSON plan file, an http(s) URL to one, or a .zip
// bundle holding one. The root command loads .env, the viewer options and the
// log file before any subcommand runs.
package commands
