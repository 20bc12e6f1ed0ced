package restapi

import (
	"net/http"

	"qtdata.quanttide.cn/internal/models"
)

type artifactEntry struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	ArchivePath string `json:"archivePath"`
	Checksum    string `json:"checksum"`
	SizeBytes   int64  `json:"sizeBytes"`
	PublishedAt string `json:"publishedAt"`
}

func (api *RestAPI) artifactsHandler(w http.ResponseWriter, r *http.Request) {
	if api.Catalog == nil {
		api.sendResponse(w, r, models.NewListResponse([]artifactEntry{}))
		return
	}

	artifacts, err := api.Catalog.Queries.ListAllArtifacts(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	entries := make([]artifactEntry, 0, len(artifacts))
	for _, a := range artifacts {
		entries = append(entries, artifactEntry{
			Kind:        a.Kind,
			Name:        a.Name,
			Version:     a.Version,
			ArchivePath: a.ArchivePath,
			Checksum:    a.Checksum,
			SizeBytes:   a.SizeBytes,
			PublishedAt: a.PublishedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	api.sendResponse(w, r, models.NewListResponse(entries))
}
