// Package main hosts the examtally CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once per invocation, builds a
// logger from it, and hands the real work to the internal packages: the
// run command drives workflow.Runner end to end, while bank, match, and
// parse expose the individual stages for inspecting a bank or debugging why
// a transcript line did not land on the expected question.
//
// Keep this package lean: add behaviour to the internal packages first and
// surface it here through flags.
package main
