package types

type RefKind string

const (
	RefKindDirect     RefKind = "direct"
	RefKindVirtual    RefKind = "virtual"
	RefKindUnresolved RefKind = "unresolved"
)

type StoreKind string

const (
	StoreKindMemory   StoreKind = "memory"
	StoreKindSQLite   StoreKind = "sqlite"
	StoreKindPostgres StoreKind = "postgres"
)

type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)
