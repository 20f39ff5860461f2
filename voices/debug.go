//go:build voicesdebug

package voices

// debugChecks makes Manager.Apply validate the pool after every action and
// panic on a broken invariant.
const debugChecks = true
