package gpu

const ValidatePrograms = validatePrograms
