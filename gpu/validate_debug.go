//go:build !production

package gpu

// validatePrograms enables checking linked programs against their schema.
const validatePrograms = true
