//go:build !voicesdebug

package voices

const debugChecks = false
