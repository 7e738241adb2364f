package postgres

var (
	MigrateURL        = migrateURL
	IsUniqueViolation = isUniqueViolation
)
