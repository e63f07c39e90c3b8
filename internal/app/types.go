package app

import (
	"time"

	"docref/internal/types"
)

type ValidateRequest struct {
	SchemaPath string
	DataDir    string
}

type ValidateResult struct {
	SchemaVersion string
	Collections   []string
	DirectRefs    int
	Virtuals      int
}

type PopulateRequest struct {
	SchemaPath      string
	DataDir         string
	Collection      string
	RequestsPath    string
	Paths           []string
	OutputDir       string
	Format          types.OutputFormat
	Store           types.StoreKind
	SQLitePath      string
	PostgresDSN     string
	Strict          bool
	VerifyRoundTrip bool
}

type PopulateResult struct {
	Collection        string
	Documents         int
	Populated         []string
	OutputPath        string
	RoundTripVerified bool
	Elapsed           time.Duration
}

type InspectRequest struct {
	SchemaPath string
	DataDir    string
}

type InspectReference struct {
	Path       string
	Kind       types.RefKind
	Collection string
}

type InspectCollectionSummary struct {
	Name       string
	Documents  int
	References []InspectReference
}

type InspectResult struct {
	SchemaVersion string
	Collections   []InspectCollectionSummary
}
