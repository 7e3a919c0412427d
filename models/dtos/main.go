package dtos

import (
	"time"

	"genelit/api/models/indexes"
	"genelit/api/models/runs"
)

type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}
type GeneralError struct {
	Message string `json:"message"`
}

type ServiceInfoDTO struct {
	Id          string            `json:"id"`
	Name        string            `json:"name"`
	Type        map[string]string `json:"type"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	Contact     string            `json:"contactUrl"`
	Environment string            `json:"environment"`
}

// -- --

type MeshAnnotation struct {
	DescriptorName string   `json:"descriptorName"`
	TreeNumbers    []string `json:"treeNumbers"`
	Category       string   `json:"category"`
}

type GeneRelationResult struct {
	indexes.GeneRelation
	Mesh *MeshAnnotation `json:"mesh,omitempty"`
}

type GeneRelationsResponseDTO struct {
	Status  int                  `json:"status"`
	Message string               `json:"message"`
	Term    string               `json:"term"`
	Count   int                  `json:"count"`
	Results []GeneRelationResult `json:"results"`
}

type VariantRelationsResponseDTO struct {
	Status  int                       `json:"status"`
	Message string                    `json:"message"`
	Term    string                    `json:"term"`
	Count   int                       `json:"count"`
	Results []indexes.VariantRelation `json:"results"`
}

type ValidationRowsResponseDTO struct {
	Status  int                     `json:"status"`
	Message string                  `json:"message"`
	Term    string                  `json:"term"`
	Count   int                     `json:"count"`
	Results []indexes.ValidationRow `json:"results"`
}

type LocationGenesResponseDTO struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Loc     string   `json:"loc"`
	Genes   []string `json:"genes"`
}

type RelationsOverviewDTO struct {
	Counts map[string]int `json:"counts"`
}

type RunRequestsResponseDTO struct {
	Status  int               `json:"status"`
	Results []runs.RunRequest `json:"results"`
}
