// Package app wires the plugin to its collaborators for a standalone
// session: it loads UI element manifests, drives the plugin through the host
// lifecycle, compiles the environment and optionally serves editor reload
// requests. It is decoupled from any specific entrypoint like a CLI.
package app
