// Package interpreter walks a menu, cookbook or recipe and everything it
// references, simulating the instrument as commands execute.
//
// One Validate call is one depth-first, synchronous traversal. The
// instrument state, the issue list and the signature scopes belong to that
// call alone, so independent menus can be validated concurrently with the
// same Interpreter.
//
// Reporting concerns (outlines, wavelength indexes, progress logs) attach
// through Hooks instead of re-implementing the traversal.
package interpreter
