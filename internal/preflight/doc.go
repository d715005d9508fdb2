// Package preflight provides filesystem readiness checks for the bank,
// output destination, and log directory.
//
// These checks run in two contexts:
//   - The emitter calls WritableTarget before writing so permission problems
//     surface as a distinct error instead of a half-written file.
//   - The CLI "examtally config validate" command uses RunAll to display
//     the state of every configured path.
package preflight
