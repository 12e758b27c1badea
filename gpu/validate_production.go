//go:build production

package gpu

const validatePrograms = false
