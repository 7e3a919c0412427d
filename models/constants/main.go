package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout genelit and it's
	associated services.
*/
type EntityType int
type PipelineMode string
type MeshCategory string
type SortDirection string
